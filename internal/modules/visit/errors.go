package visit

import "errors"

var (
	// ErrClientResolution means the visit target matched no live client.
	ErrClientResolution = errors.New("no client resolved for visit")
	ErrSessionNotFound  = errors.New("visit session not found")
	// ErrSessionClosed rejects cart mutations after Finalize or Abandon;
	// hitting it is a programming error in the caller, not user input.
	ErrSessionClosed    = errors.New("visit session already closed")
	ErrSessionActive    = errors.New("client already has an active session")
	ErrInvalidTier      = errors.New("invalid price tier")
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrValidation       = errors.New("validation error")
)
