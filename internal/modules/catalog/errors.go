package catalog

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate id")
	ErrRemoteUnavailable = errors.New("remote catalog source not configured")
)
