// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-packet.
// All failures are returned as local results; nothing here is retried.

package api

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeOutOfMemory
	ErrCodePermission
	ErrCodeCapacityExceeded
	ErrCodeNotLinked
	ErrCodeNotFound
	ErrCodeAlreadyLinked
	ErrCodeRefUnderflow
	ErrCodeNotSupported
	ErrCodeInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid argument"
	case ErrCodeOutOfMemory:
		return "out of memory"
	case ErrCodePermission:
		return "permission denied"
	case ErrCodeCapacityExceeded:
		return "capacity exceeded"
	case ErrCodeNotLinked:
		return "not linked"
	case ErrCodeNotFound:
		return "not found"
	case ErrCodeAlreadyLinked:
		return "already linked"
	case ErrCodeRefUnderflow:
		return "reference underflow"
	case ErrCodeNotSupported:
		return "operation not supported"
	default:
		return "internal error"
	}
}

// Errno maps the code onto the POSIX errno used by C transport stacks.
func (c ErrorCode) Errno() syscall.Errno {
	switch c {
	case ErrCodeOK:
		return 0
	case ErrCodeInvalidArgument:
		return syscall.EINVAL
	case ErrCodeOutOfMemory:
		return syscall.ENOMEM
	case ErrCodePermission:
		return syscall.EPERM
	case ErrCodeCapacityExceeded:
		return syscall.ENOBUFS
	case ErrCodeNotLinked, ErrCodeNotFound, ErrCodeRefUnderflow:
		return syscall.ENOENT
	case ErrCodeAlreadyLinked:
		return syscall.EBUSY
	case ErrCodeNotSupported:
		return syscall.ENOSYS
	default:
		return syscall.EIO
	}
}

// Common errors used across the library. Compare with errors.Is; errors
// carrying extra context match the sentinel of the same code.
var (
	ErrInvalidArgument  = NewError(ErrCodeInvalidArgument, "invalid argument")
	ErrOutOfMemory      = NewError(ErrCodeOutOfMemory, "out of memory")
	ErrPermission       = NewError(ErrCodePermission, "permission denied")
	ErrCapacityExceeded = NewError(ErrCodeCapacityExceeded, "capacity exceeded")
	ErrNotLinked        = NewError(ErrCodeNotLinked, "packet not linked")
	ErrNotFound         = NewError(ErrCodeNotFound, "reference packet not found in list")
	ErrAlreadyLinked    = NewError(ErrCodeAlreadyLinked, "packet already linked")
	ErrRefUnderflow     = NewError(ErrCodeRefUnderflow, "reference count underflow")
	ErrNotSupported     = NewError(ErrCodeNotSupported, "operation not supported")
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Unwrap exposes the matching errno so callers may test errors.Is(err, syscall.EPERM).
func (e *Error) Unwrap() error {
	if errno := e.Code.Errno(); errno != 0 {
		return errno
	}
	return nil
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithContext returns a copy of the error carrying an extra context value.
// Sentinels are shared, so the receiver is never modified.
func (e *Error) WithContext(key string, value any) *Error {
	ctx := make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Error{Code: e.Code, Message: e.Message, Context: ctx}
}

// CodeOf extracts the ErrorCode from err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
