package newsarc

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// The codes double as the error_kind recorded on failed article records, so
// they are stable strings rather than opaque constants.
const (
	EINVALID     = "invalid"      // validation failed
	ENOTFOUND    = "not_found"    // entity does not exist
	EINTERNAL    = "internal"     // backend 5xx; retryable
	ETRANSPORT   = "transport"    // network error or timeout; retryable
	ERATELIMITED = "rate_limited" // backend 429 or overload; retryable
	EREJECTED    = "rejected"     // backend 4xx other than 429; not retryable
	ELOWQUALITY  = "low_quality"  // fetch succeeded but extracted text below threshold
	EMALFORMED   = "malformed"    // unparseable sitemap document; skipped
	EUNAVAILABLE = "unavailable"  // rendering backend unreachable; fatal
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("newsarc error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper to construct an Error with a formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors return EINTERNAL; nil returns the empty string.
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
// Non-application errors return a generic message; nil returns the empty string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Retryable reports whether an error is worth another attempt against the
// rendering backend. Transport errors, rate limiting, and backend 5xx
// responses are transient; everything else is not.
func Retryable(err error) bool {
	switch ErrorCode(err) {
	case ETRANSPORT, ERATELIMITED, EINTERNAL:
		return true
	}
	return false
}

// Fatal reports whether an error should abort the whole pipeline rather
// than being recorded as a per-item failure.
func Fatal(err error) bool {
	return ErrorCode(err) == EUNAVAILABLE
}
