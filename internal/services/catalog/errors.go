package catalog

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrInvalidPrice    = errors.New("price must not be negative")
)
