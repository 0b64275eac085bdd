package utils

import (
	"errors"

	"counsel/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalsClaims    = "claims"
	LocalsVisitorID = "visitor_id"
)

// GetUserClaims extracts the user claims from the Fiber context.
// It returns an error if the claims are missing or of an invalid type.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	v := c.Locals(LocalsClaims)
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.UserClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}

// OptionalUserClaims returns the claims or nil for anonymous requests.
func OptionalUserClaims(c *fiber.Ctx) *models.UserClaims {
	claims, err := GetUserClaims(c)
	if err != nil {
		return nil
	}
	return claims
}

// VisitorID returns the id set by the visitor middleware.
func VisitorID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsVisitorID).(string)
	return id
}
