package repositories

import "errors"

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailTaken         = errors.New("email already taken")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrSubmissionNotFound = errors.New("form submission not found")
	ErrServiceNotFound    = errors.New("service not found")
	ErrDatabaseOperation  = errors.New("database operation failed")
)
