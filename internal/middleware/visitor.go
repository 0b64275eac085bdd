package middleware

import (
	"time"

	"counsel/internal/config"
	"counsel/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	VisitorCookie    = "visitor_id"
	visitorCookieTTL = 365 * 24 * time.Hour
)

// Visitor identifies the browser across requests with a uuid cookie so that
// pending-account state survives between the payment and signup pages.
func Visitor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(VisitorCookie)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     VisitorCookie,
				Value:    id,
				Expires:  time.Now().Add(visitorCookieTTL),
				HTTPOnly: true,
				Secure:   config.IsProduction(),
				SameSite: "Lax",
				Path:     "/",
			})
		}
		c.Locals(utils.LocalsVisitorID, id)
		return c.Next()
	}
}
