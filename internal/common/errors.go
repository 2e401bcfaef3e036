// Package common defines sentinel errors and small helpers shared by the
// storage, service and session layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")
	ErrorNoSession    = errors.New("no active session")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")

	// Password hashing errors.
	ErrUnsupportedScheme = errors.New("unsupported password scheme")
	ErrMalformedHash     = errors.New("malformed password hash")
)
