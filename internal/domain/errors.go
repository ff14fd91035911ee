package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, return date before departure).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the actor's role or ownership does not permit
// the operation on an existing resource.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when the request carries no valid credential
// (bad password, missing or expired token).
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict is returned when the operation collides with existing state,
// e.g. registering an already-used email or deleting a trip that still has
// expenses or bookings attached.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
