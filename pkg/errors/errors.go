// Package errors provides structured error types for starchart.
//
// Every failure that reaches a user carries a [Code]. Codes group into a
// [Kind], which the CLI maps to exit statuses and the HTTP server to
// response statuses:
//
//   - KindInput: bad coordinates, times, options or files supplied by the caller
//   - KindNotFound: an unknown place, file or resource
//   - KindUpstream: geocoder or catalog download failures
//   - KindBackend: cache, storage and rendering failures
//   - KindInternal: everything else
//
// Conditions a chart survives (a star antipodal to the zenith, a figure
// edge naming a star the catalog lacks, a magnitude limit that leaves no
// stars) are not errors; they are reported in sky.Diagnostics.
//
//	err := errors.New(errors.ErrCodeInvalidCoordinates, "latitude %v out of range", lat)
//	if errors.Is(err, errors.ErrCodeInvalidCoordinates) { ... }
//
//	err := errors.Wrap(errors.ErrCodeNetwork, cause, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidCoordinates Code = "INVALID_COORDINATES"
	ErrCodeInvalidFieldOfView Code = "INVALID_FIELD_OF_VIEW"
	ErrCodeInvalidTime        Code = "INVALID_TIME"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle       Code = "INVALID_STYLE"
	ErrCodeInvalidCatalog     Code = "INVALID_CATALOG"
	ErrCodeInvalidFigures     Code = "INVALID_FIGURES"
	ErrCodeInvalidPath        Code = "INVALID_PATH"

	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeLocationNotFound Code = "LOCATION_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeCache   Code = "CACHE_ERROR"
	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeRender  Code = "RENDER_ERROR"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by who has to act on them.
type Kind int

const (
	KindInternal Kind = iota
	KindInput
	KindNotFound
	KindUpstream
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindBackend:
		return "backend"
	}
	return "internal"
}

// Kind classifies c. Unknown and empty codes are internal.
func (c Code) Kind() Kind {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidCoordinates, ErrCodeInvalidFieldOfView,
		ErrCodeInvalidTime, ErrCodeInvalidFormat, ErrCodeInvalidStyle,
		ErrCodeInvalidCatalog, ErrCodeInvalidFigures, ErrCodeInvalidPath:
		return KindInput
	case ErrCodeNotFound, ErrCodeLocationNotFound, ErrCodeFileNotFound:
		return KindNotFound
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeRateLimited:
		return KindUpstream
	case ErrCodeCache, ErrCodeStorage, ErrCodeRender:
		return KindBackend
	}
	return KindInternal
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// coder is implemented by error types that carry a code without being an
// *Error, such as *RateLimitedError.
type coder interface {
	Code() Code
}

// GetCode returns the first code found in err's chain, or "".
func GetCode(err error) Code {
	for ; err != nil; err = errors.Unwrap(err) {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
	}
	return ""
}

// Is reports whether the first code in err's chain is code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// KindOf classifies err by its code.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}

// UserMessage returns the message of the outermost *Error, without code
// or cause, or err's text for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RateLimitedError reports a 429 from an upstream service.
type RateLimitedError struct {
	RetryAfter int // seconds; 0 if the service did not say
	Message    string
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns ErrCodeRateLimited.
func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }
