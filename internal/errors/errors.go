package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Services return these (usually wrapped with fmt.Errorf and %w) without knowing
// anything about HTTP. The API layer checks them with errors.Is() and maps them
// to status codes in one place.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client input failed business rule
	// validation. Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrPermission signifies that the caller is not allowed to perform the
	// requested action: a guest asked for a premium model, or a chat belongs
	// to a different identity. Mapped to 403 Forbidden.
	ErrPermission = errors.New("permission denied")

	// ErrConflict signifies that an operation conflicts with the current
	// state of a resource. Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrInternal is the generic unexpected-server-error sentinel, used to
	// avoid leaking implementation details to the client. Mapped to 500.
	ErrInternal = errors.New("internal server error")
)
