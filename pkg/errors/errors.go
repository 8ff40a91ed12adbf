package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrCacheMiss       = errors.New("cache miss")
	ErrFeedUnavailable = errors.New("feed unavailable")
	ErrInvalidInput    = errors.New("invalid input")
)

// StatusError describes a non-2xx response from the feed endpoint.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed request to %s returned HTTP %d", e.URL, e.Status)
}

// Permanent reports whether the status is a client error that must not be
// retried.
func (e *StatusError) Permanent() bool {
	return e.Status >= 400 && e.Status < 500
}

// IsPermanent reports whether err carries a 4xx status anywhere in its chain.
func IsPermanent(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Permanent()
}

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsCacheMiss returns true if the error signals an absent or unreadable cache
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// IsFeedUnavailable returns true if both the live feed and the cache failed
func IsFeedUnavailable(err error) bool {
	return errors.Is(err, ErrFeedUnavailable)
}
