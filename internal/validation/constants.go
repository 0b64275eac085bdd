package validation

import (
	"regexp"
	"strings"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

const (
	MsgRequired       = "This field is required"
	MsgInvalidEmail   = "Please enter a valid email address"
	MsgInvalidPhone   = "Please enter a valid phone number"
	MsgInvalidAmount  = "Please enter a valid amount"
	MsgMoreDetails    = "Please provide more details"
	MsgMoreAIUseCases = "Please describe your AI use cases in more detail"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s./0-9]*$`)
)

// NormalizeEmail lowercases and trims an address so lookups by email match.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}
