package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrTokenVersion       = errors.New("token version mismatch")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError carries per-field messages.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
