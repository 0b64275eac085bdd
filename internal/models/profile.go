package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is an account. Its ID is the account id that reconciliation
// writes into orphaned payments and submissions.
type Profile struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName         string    `json:"full_name"`
	CompanyName      string    `json:"company_name"`
	Phone            string    `json:"phone"`
	Role             string    `gorm:"not null;default:'user'" json:"role"`
	ConsultationPaid bool      `gorm:"default:false" json:"consultation_paid"`
	PasswordHash     string    `gorm:"not null" json:"-"`
	TokenVersion     int       `gorm:"default:1" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// IsValidRole reports whether role is one of the known account roles.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// CreateProfileInput is the signup payload.
type CreateProfileInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
}
