package store

import "errors"

// Sentinel errors returned by the stores and matching engine. Handlers map
// these onto HTTP status codes with errors.Is.
var (
	// ErrNotFoundOrProcessed covers both a missing request and one whose
	// status already moved past "pending". The two cases are deliberately
	// indistinguishable so callers cannot tell whether a concurrent
	// adjudication won the race.
	ErrNotFoundOrProcessed = errors.New("request not found or already processed")

	ErrNoAvailableDonor  = errors.New("no available donor for blood group")
	ErrAlreadyRegistered = errors.New("already registered as a donor")
	ErrNotRegistered     = errors.New("no donor profile for user")
	ErrInvalidStatus     = errors.New("invalid availability status")
	ErrInvalidBloodGroup = errors.New("invalid blood group")
)
