package handlers

import (
	"errors"
	"log"
	"time"

	"counsel/internal/config"
	"counsel/internal/models"
	"counsel/internal/services/auth"
	"counsel/internal/services/consultation"
	"counsel/internal/utils"
	"counsel/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
	pending     consultation.PendingStore
}

func NewAuthHandler(authService auth.Service, pending consultation.PendingStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		pending:     pending,
	}
}

// Signup creates the account and links any consultation the visitor paid
// for before signing up.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input models.CreateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	visitorID := utils.VisitorID(c)
	state, err := h.pending.Load(c.Context(), visitorID)
	if err != nil {
		log.Printf("Error loading pending state for visitor %s: %v", visitorID, err)
	}

	result, err := h.authService.Signup(c.Context(), input, visitorID, state)
	if err != nil {
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			return response.ValidationErrors(c, verr.Errors)
		case errors.Is(err, auth.ErrEmailTaken):
			return response.Conflict(c, err.Error())
		}
		log.Printf("Signup failed: %v", err)
		return response.ServerError(c, "Failed to create account")
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	body := h.tokenBody(result)
	if result.Link != nil {
		body["link"] = result.Link
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// Login handles user authentication and returns JWT tokens
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Email == "" || input.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	result, err := h.authService.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return response.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return response.ServerError(c, "Authentication failed")
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	return c.JSON(h.tokenBody(result))
}

// RefreshToken handles token refresh requests
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	// First try to get token from cookies
	refreshToken := c.Cookies("refresh_token")

	// If not in cookies, try request body
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}
	if refreshToken == "" {
		return response.Error(c, fiber.StatusUnauthorized, "Refresh token not provided")
	}

	access, refresh, err := h.authService.RefreshTokens(c.Context(), refreshToken)
	if err != nil {
		log.Printf("Token refresh failed: %v", err)
		return response.Error(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	h.setAuthCookies(c, access, refresh)
	return c.JSON(fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout increments the token version so every issued token stops working.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	if err := h.authService.Logout(c.Context(), claims.UserID); err != nil {
		log.Printf("Logout failed for user %s: %v", claims.UserID, err)
		return response.ServerError(c, "Failed to logout")
	}

	h.clearAuthCookies(c)
	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}

// ChangePassword handles password change requests
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	if err := h.authService.ChangePassword(c.Context(), claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		var verr *auth.ValidationError
		if errors.As(err, &verr) {
			return response.ValidationErrors(c, verr.Errors)
		}
		log.Printf("Password change failed for user %s: %v", claims.UserID, err)
		return response.BadRequest(c, err.Error())
	}

	h.clearAuthCookies(c)
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	profile, err := h.authService.GetProfile(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.ServerError(c, "Failed to get profile")
	}
	return response.Success(c, "Profile retrieved successfully", profile)
}

func (h *AuthHandler) tokenBody(result *auth.Result) fiber.Map {
	return fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user": fiber.Map{
			"id":                result.Profile.ID,
			"email":             result.Profile.Email,
			"full_name":         result.Profile.FullName,
			"role":              result.Profile.Role,
			"consultation_paid": result.Profile.ConsultationPaid,
			"permissions":       models.GetDefaultPermissions(result.Profile.Role),
		},
	}
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(utils.AccessTokenTTL),
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		SameSite: "Lax",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(utils.RefreshTokenTTL),
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		SameSite: "Lax",
		Path:     "/api/auth",
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for name, path := range map[string]string{"access_token": "/", "refresh_token": "/api/auth"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   config.IsProduction(),
			Path:     path,
		})
	}
}
