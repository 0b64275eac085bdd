package utils

import (
	"errors"
	"time"

	"counsel/internal/config"
	"counsel/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer     = "counsel-api"
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrSecretNotConfigured = errors.New("JWT_SECRET not configured")
	ErrInvalidToken        = errors.New("invalid token claims")
)

func accessSecret() (string, error) {
	secret := config.GetEnv("JWT_SECRET", "")
	if secret == "" {
		return "", ErrSecretNotConfigured
	}
	return secret, nil
}

// refreshSecret falls back to the access secret when REFRESH_SECRET is unset.
func refreshSecret() (string, error) {
	if secret := config.GetEnv("REFRESH_SECRET", ""); secret != "" {
		return secret, nil
	}
	return accessSecret()
}

// ClaimsForProfile builds token claims with the role's default permissions.
func ClaimsForProfile(p *models.Profile) *models.UserClaims {
	return &models.UserClaims{
		UserID:       p.ID,
		Email:        p.Email,
		Role:         p.Role,
		Permissions:  models.GetDefaultPermissions(p.Role),
		TokenVersion: p.TokenVersion,
	}
}

// GenerateTokens generates an access token and a refresh token for the given user claims.
func GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	access, err := accessSecret()
	if err != nil {
		return "", "", err
	}
	refresh, err := refreshSecret()
	if err != nil {
		return "", "", err
	}

	now := time.Now()

	accessClaims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   claims.UserID,
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		Permissions:  claims.Permissions,
		TokenVersion: claims.TokenVersion,
	}
	accessToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(access))
	if err != nil {
		return "", "", err
	}

	// Refresh tokens carry no permissions; they are re-derived on refresh.
	refreshClaims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   claims.UserID,
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		TokenVersion: claims.TokenVersion,
	}
	refreshToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(refresh))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ParseToken parses and validates an access token.
func ParseToken(tokenStr string) (*jwt.Token, *models.UserClaims, error) {
	secret, err := accessSecret()
	if err != nil {
		return nil, nil, err
	}
	return parse(tokenStr, secret)
}

// ParseRefreshToken parses and validates a refresh token.
func ParseRefreshToken(tokenStr string) (*jwt.Token, *models.UserClaims, error) {
	secret, err := refreshSecret()
	if err != nil {
		return nil, nil, err
	}
	return parse(tokenStr, secret)
}

func parse(tokenStr, secret string) (*jwt.Token, *models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, ErrInvalidToken
	}
	return token, claims, nil
}
