package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	PermissionFormsWrite     = "forms:write"
	PermissionDashboardRead  = "dashboard:read"
	PermissionProfileWrite   = "profile:write"
	PermissionServicesManage = "services:manage"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       string   `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the claims carry the admin role.
func (c *UserClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionFormsWrite,
			PermissionDashboardRead,
			PermissionProfileWrite,
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionServicesManage,
		}
	case RoleUser:
		return []string{
			PermissionFormsWrite,
			PermissionDashboardRead,
			PermissionProfileWrite,
		}
	default:
		return []string{}
	}
}
