// Package errs defines the error taxonomy shared by repositories, services
// and controllers. Callers classify failures with errors.Is.
package errs

import "errors"

var (
	// ErrNotFound signals that an entity id or username is unknown.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername signals a username collision on create or update.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrLastAdminProtected signals an attempt to delete the sole remaining admin.
	ErrLastAdminProtected = errors.New("cannot delete the last admin user")

	// ErrValidation signals malformed or incomplete input. The wrapping
	// message carries the human-readable detail.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence signals a transaction or commit failure; the failed unit
	// of work has been rolled back.
	ErrPersistence = errors.New("persistence failure")
)
