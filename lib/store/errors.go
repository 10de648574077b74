package store

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// Errorf creates a new store Error with a formatted message.
// Internal errors additionally carry a stack trace.
func Errorf(code RetCode, format string, args ...interface{}) error {
	err := NewError(code, fmt.Sprintf(format, args...))
	if code == RetCInternalError {
		return errors.WithStack(err)
	}
	return err
}

// CodeOf returns the RetCode carried by err, looking through any wrapping.
// nil maps to RetCSuccess, errors without a code map to RetCInternalError.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Code
	}
	return RetCInternalError
}

// IsNotFound reports whether err carries RetCNotFound.
func IsNotFound(err error) bool { return CodeOf(err) == RetCNotFound }

// IsConflict reports whether err carries RetCConflict.
func IsConflict(err error) bool { return CodeOf(err) == RetCConflict }

// IsBadRequest reports whether err carries RetCBadRequest.
func IsBadRequest(err error) bool { return CodeOf(err) == RetCBadRequest }

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess       RetCode = iota // 0: Command executed successfully.
	RetCInternalError                // 1: A stored reference could not be resolved (broken invariant).
	RetCNotFound                     // 2: The id is absent on lookup or update.
	RetCConflict                     // 3: The id is already present on create.
	RetCBadRequest                   // 4: Invalid filter set or field value.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCNotFound:
		return "NotFound"
	case RetCConflict:
		return "Conflict"
	case RetCBadRequest:
		return "BadRequest"
	default:
		return "Unknown"
	}
}
