package intake

import "errors"

var ErrUnknownFormType = errors.New("unknown form type")

// ValidationError carries per-field messages.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
