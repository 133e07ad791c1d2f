// Package common defines shared constants and sentinel errors used across
// the refdata service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors: services carry the per-field messages in a
	// ValidationError that matches this sentinel under errors.Is.
	ErrorValidation = errors.New("validation error")

	// Auth errors (missing, invalid or expired bearer token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Uniqueness conflicts surfaced by the persistence layer.
	ErrorAlreadyExists = errors.New("already exists")
)
