package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	PriceTypeFixed      = "fixed"
	PriceTypeHourly     = "hourly"
	PriceTypeCustom     = "custom"
	PriceTypeStartingAt = "starting_at"
)

// Service is a priced offering shown on the marketing pages.
type Service struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Slug             string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"short_description"`
	Price            *float64       `json:"price"`
	PriceType        string         `gorm:"not null;default:'fixed'" json:"price_type"`
	Features         pq.StringArray `gorm:"type:text[]" json:"features"`
	Category         string         `json:"category"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	DisplayOrder     int            `gorm:"default:0" json:"display_order"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (Service) TableName() string { return "services" }
