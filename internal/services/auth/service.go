package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"counsel/internal/models"
	"counsel/internal/repositories"
	"counsel/internal/services/consultation"
	"counsel/internal/utils"
	"counsel/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AccountLinker re-owns anonymous consultation records to a new account.
type AccountLinker interface {
	LinkToAccount(ctx context.Context, visitorID, userID, email string, state models.PendingAccountState) (consultation.LinkResult, error)
}

// Result is returned by signup and login.
type Result struct {
	Profile      *models.Profile          `json:"profile"`
	AccessToken  string                   `json:"access_token"`
	RefreshToken string                   `json:"refresh_token"`
	Link         *consultation.LinkResult `json:"link,omitempty"`
}

type Service interface {
	// Signup creates the account and links any consultation paid
	// anonymously with the same email. A failed link does not fail signup.
	Signup(ctx context.Context, input models.CreateProfileInput, visitorID string, state models.PendingAccountState) (*Result, error)
	Login(ctx context.Context, email, password string) (*Result, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GetTokenVersion(ctx context.Context, userID string) (int, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type service struct {
	profiles repositories.ProfileRepository
	linker   AccountLinker
}

func NewService(profiles repositories.ProfileRepository, linker AccountLinker) Service {
	return &service{
		profiles: profiles,
		linker:   linker,
	}
}

func (s *service) Signup(ctx context.Context, input models.CreateProfileInput, visitorID string, state models.PendingAccountState) (*Result, error) {
	input.Email = validation.NormalizeEmail(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)

	v := validation.New()
	v.Required("email", input.Email)
	v.Email("email", input.Email)
	v.Password("password", input.Password)
	v.Required("full_name", input.FullName)
	if input.Phone != "" {
		v.Phone("phone", input.Phone)
	}
	if !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	profile := &models.Profile{
		Email:        input.Email,
		FullName:     input.FullName,
		CompanyName:  input.CompanyName,
		Phone:        input.Phone,
		Role:         models.RoleUser,
		PasswordHash: string(hashedPassword),
		TokenVersion: 1,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	accessToken, refreshToken, err := utils.GenerateTokens(utils.ClaimsForProfile(profile))
	if err != nil {
		log.Println("Error generating tokens:", err)
		return nil, errors.New("error generating tokens")
	}

	result := &Result{Profile: profile, AccessToken: accessToken, RefreshToken: refreshToken}
	if s.linker != nil {
		link, err := s.linker.LinkToAccount(ctx, visitorID, profile.ID, profile.Email, state)
		if err != nil {
			log.Printf("Error linking consultation to account %s: %v", profile.ID, err)
		} else {
			result.Link = &link
			profile.ConsultationPaid = link.ProfileMarked
		}
	}
	return result, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Result, error) {
	profile, err := s.profiles.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		log.Printf("Login failed: profile not found for %s", email)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for profile %s", profile.ID)
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := utils.GenerateTokens(utils.ClaimsForProfile(profile))
	if err != nil {
		log.Println("Error generating tokens:", err)
		return nil, errors.New("error generating tokens")
	}
	return &Result{Profile: profile, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidRefresh
	}

	profile, err := s.profiles.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", ErrUserNotFound
	}
	if profile.TokenVersion != claims.TokenVersion {
		return "", "", ErrTokenVersion
	}

	return utils.GenerateTokens(utils.ClaimsForProfile(profile))
}

func (s *service) Logout(ctx context.Context, userID string) error {
	return s.profiles.IncrementTokenVersion(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	cached, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	// The cached copy has no password hash.
	profile, err := s.profiles.GetByEmail(ctx, cached.Email)
	if err != nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.New("invalid old password")
	}

	v := validation.New()
	v.Password("new_password", newPassword)
	if !v.Valid() {
		return &ValidationError{Errors: v.Errors}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	profile.PasswordHash = string(hashedPassword)
	profile.TokenVersion++

	if err := s.profiles.Update(ctx, profile); err != nil {
		return errors.New("failed to update password")
	}
	return nil
}

func (s *service) GetTokenVersion(ctx context.Context, userID string) (int, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return profile.TokenVersion, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, ErrUserNotFound
	}
	return profile, err
}
