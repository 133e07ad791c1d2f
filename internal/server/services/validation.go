// Package services implements the business operations of the refdata
// server: authentication and session-token lifecycle, reference-data CRUD,
// audit logging and audit export.
package services

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dvergara-cl/refdata/internal/common"
)

// ValidationError aggregates the ordered, user-facing field messages for a
// rejected request. It matches common.ErrorValidation under errors.Is so
// transport code can map it to a 400 response.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Messages, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

// validator collects rule violations in declaration order, mirroring the
// message wording the client application already displays.
type validator struct {
	messages []string
}

func (v *validator) fail(format string, args ...any) {
	v.messages = append(v.messages, fmt.Sprintf(format, args...))
}

func (v *validator) required(field, value string) bool {
	if value == "" {
		v.fail("The %s field is required.", field)
		return false
	}
	return true
}

func (v *validator) maxLen(field, value string, max int) {
	if len(value) > max {
		v.fail("The %s must not be greater than %d characters.", field, max)
	}
}

func (v *validator) minLen(field, value string, min int) {
	if len(value) < min {
		v.fail("The %s must be at least %d characters.", field, min)
	}
}

func (v *validator) email(field, value string) {
	if _, err := mail.ParseAddress(value); err != nil {
		v.fail("The %s must be a valid email address.", field)
	}
}

func (v *validator) err() error {
	if len(v.messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: v.messages}
}
