package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAccessCode is returned when a registration code is unknown or inactive.
	ErrInvalidAccessCode = errors.New("invalid access code")
	// ErrDuplicateUser is returned when the username is already taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidRole is returned when no active access code grants the requested role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidCredentials is returned on login failure. Unknown user and
	// wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStoreUnavailable is returned when the store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports missing or malformed user input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidation creates a ValidationError with a formatted message.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
