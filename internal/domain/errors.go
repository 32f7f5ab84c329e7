package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// list does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. blank item text).
// Handlers should map this to HTTP 400 and re-render the form with the message.
var ErrValidation = errors.New("validation error")
