package planning

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("plan entry not found")
	// ErrClientResolution means a plan target matched no live client. For
	// today-target resolution this is not surfaced; stale entries are
	// silently dropped from the actionable list.
	ErrClientResolution = errors.New("no client resolved for plan entry")
)
