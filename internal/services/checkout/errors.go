package checkout

import "errors"

var (
	ErrMissingFields    = errors.New("Missing required fields")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrUnhandledEvent   = errors.New("unhandled webhook event")
	ErrMissingEmail     = errors.New("checkout session has no email")
	ErrSessionNotFound  = errors.New("checkout session not found")
	ErrSessionUnpaid    = errors.New("checkout session has not been paid")
	ErrEmailMismatch    = errors.New("checkout session belongs to another email")
)
