// Package middleware provides HTTP middleware components for the application.
// It includes authentication, authorization and visitor identification
// for the fiber web framework.
package middleware

import (
	"context"
	"log"
	"strings"

	"counsel/internal/models"
	"counsel/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// TokenVersionSource returns the current token version of an account.
type TokenVersionSource interface {
	GetTokenVersion(ctx context.Context, userID string) (int, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header (or the
// access_token cookie), validates it and adds the user claims to the
// request context.
type AuthMiddleware struct {
	tokens TokenVersionSource
}

func NewAuthMiddleware(tokens TokenVersionSource) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - Presence of a Bearer token
// - Valid JWT signature and expiration
// - Token version matches current account version
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	tokenString, msg := bearerToken(c)
	if msg != "" {
		log.Println(msg)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
	}

	claims, msg := m.verify(c, tokenString)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
	}

	c.Locals(utils.LocalsClaims, claims)
	return c.Next()
}

// Optional attaches claims when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	tokenString, missing := bearerToken(c)
	if missing != "" {
		return c.Next()
	}
	if claims, _ := m.verify(c, tokenString); claims != nil {
		c.Locals(utils.LocalsClaims, claims)
	}
	return c.Next()
}

func (m *AuthMiddleware) verify(c *fiber.Ctx, tokenString string) (*models.UserClaims, string) {
	token, claims, err := utils.ParseToken(tokenString)
	if err != nil || !token.Valid {
		log.Printf("Token validation error: %v", err)
		return nil, "invalid token"
	}

	currentVersion, err := m.tokens.GetTokenVersion(c.Context(), claims.UserID)
	if err != nil {
		log.Printf("Error getting token version: %v", err)
		return nil, "invalid token"
	}
	if claims.TokenVersion != currentVersion {
		log.Printf("Token version mismatch for user %s. Token: %d, DB: %d",
			claims.UserID, claims.TokenVersion, currentVersion)
		return nil, "session expired"
	}
	return claims, ""
}

func bearerToken(c *fiber.Ctx) (string, string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if cookie := c.Cookies("access_token"); cookie != "" {
			return cookie, ""
		}
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization format"
	}
	return strings.TrimPrefix(authHeader, "Bearer "), ""
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		log.Println("Claims not found in context")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid claims"})
	}

	if !claims.IsAdmin() {
		log.Printf("Access denied: User role is %s, not admin", claims.Role)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		// If user is admin, allow all permissions
		if claims.IsAdmin() || claims.HasPermission(permission) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}
