package models

import "errors"

// Sentinel errors shared across the repository and service layers. Handlers
// translate them to HTTP status codes with errors.Is; everything else is a
// generic 500.
var (
	// ErrNotFound indicates no coil exists for the requested id.
	ErrNotFound = errors.New("coil not found")

	// ErrValidation indicates a rejected field value or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRange indicates a reporting interval whose start falls after
	// its end.
	ErrInvalidRange = errors.New("invalid interval")

	// ErrNoData indicates an aggregate was requested over an empty set.
	ErrNoData = errors.New("no coils in scope")

	// ErrStore indicates the record store could not be reached or failed a
	// query. Its detail is logged server-side, never returned to clients.
	ErrStore = errors.New("record store failure")
)
