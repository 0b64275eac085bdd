package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID fills an empty string primary key with a random uuid.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// BeforeCreate assigns the profile id when the caller did not.
func (p *Profile) BeforeCreate(tx *gorm.DB) error { newID(&p.ID); return nil }

// BeforeCreate assigns the service id when the caller did not.
func (s *Service) BeforeCreate(tx *gorm.DB) error { newID(&s.ID); return nil }

// BeforeCreate assigns the submission id when the caller did not.
func (f *FormSubmission) BeforeCreate(tx *gorm.DB) error { newID(&f.ID); return nil }

// BeforeCreate assigns the payment id when the caller did not.
func (p *Payment) BeforeCreate(tx *gorm.DB) error { newID(&p.ID); return nil }

// BeforeCreate assigns the purchase id when the caller did not.
func (p *Purchase) BeforeCreate(tx *gorm.DB) error { newID(&p.ID); return nil }
