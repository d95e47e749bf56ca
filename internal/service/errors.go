package service

import (
	"errors"
	"fmt"
)

// ErrClaimConflict means another caller already claimed the record for
// publishing. It is an expected outcome under overlapping triggers, never an
// error surfaced to users.
var ErrClaimConflict = errors.New("record already claimed for publishing")

var ErrNotFound = errors.New("record not found")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuthorizationError(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}
