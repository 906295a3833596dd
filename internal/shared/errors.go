package shared

import "errors"

var (
	// ErrNotFound indicates a referenced principal or resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates malformed or missing arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthenticated indicates no valid identity was established.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the identity is known but not allowed.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
