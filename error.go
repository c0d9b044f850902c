package ehparse

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ENOTAPPLICABLE = "not_applicable"
	EAUTH          = "auth_required"
	EMALFORMED     = "malformed"
	EDECODE        = "decode"
	ETOOLARGE      = "too_large"
	EINVALID       = "invalid"
	EINTERNAL      = "internal"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ehparse error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
