package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the structured error type returned by restkit.
type Error struct {
	// Code classifies the error.
	Code ErrorCode `json:"code"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// StatusCode is the HTTP status, 0 when the failure is not an HTTP status.
	StatusCode int `json:"status_code,omitempty"`
	// Retryable indicates whether repeating the operation may succeed.
	Retryable bool `json:"retryable"`
	// Details carries additional context.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an Error with retryability derived from the code.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Retryable: IsRetryableCode(code)}
}

// InvalidArgument reports a bad call argument.
func InvalidArgument(format string, args ...any) *Error {
	return New(ErrCodeInvalidArgument, fmt.Sprintf(format, args...))
}

// Transport wraps a network failure. A nil cause yields nil, and a cause
// that is already an *Error is returned unchanged.
func Transport(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if stderrors.As(cause, &e) {
		return cause
	}
	return &Error{Code: ErrCodeTransport, Message: op, Retryable: true, Cause: cause}
}

// HTTP reports an HTTP status rejected by an error policy.
func HTTP(statusCode int, serverMessage string) *Error {
	return &Error{
		Code:       ErrCodeHTTP,
		Message:    fmt.Sprintf("HTTP Error %d was returned from the server: %s", statusCode, serverMessage),
		StatusCode: statusCode,
		Retryable:  statusCode >= 500 || retryableStatus[statusCode],
	}
}

// NonHTTP reports an error outcome that carries no HTTP status.
func NonHTTP() *Error {
	return New(ErrCodeHTTP, "A non-HTTP error was returned from the server.")
}

// UnsupportedContentType reports a multipart value of an unknown kind.
func UnsupportedContentType(typeName string) *Error {
	return New(ErrCodeUnsupportedContentType, "unhandled type: "+typeName)
}

// IllegalState reports an operation invoked in the wrong lifecycle state.
func IllegalState(format string, args ...any) *Error {
	return New(ErrCodeIllegalState, fmt.Sprintf(format, args...))
}

// Cancelled reports an operation on a cancelled exchange.
func Cancelled(url string) *Error {
	return New(ErrCodeCancelled, "request was cancelled").WithDetail("url", url)
}

// IO wraps a local read failure. A nil cause yields nil.
func IO(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: ErrCodeIO, Message: op, Cause: cause}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Code == code
}

// IsInvalidArgument checks for ErrCodeInvalidArgument.
func IsInvalidArgument(err error) bool { return hasCode(err, ErrCodeInvalidArgument) }

// IsTransport checks for ErrCodeTransport.
func IsTransport(err error) bool { return hasCode(err, ErrCodeTransport) }

// IsHTTP checks for ErrCodeHTTP.
func IsHTTP(err error) bool { return hasCode(err, ErrCodeHTTP) }

// IsUnsupportedContentType checks for ErrCodeUnsupportedContentType.
func IsUnsupportedContentType(err error) bool { return hasCode(err, ErrCodeUnsupportedContentType) }

// IsIllegalState checks for ErrCodeIllegalState.
func IsIllegalState(err error) bool { return hasCode(err, ErrCodeIllegalState) }

// IsCancelled checks for ErrCodeCancelled.
func IsCancelled(err error) bool { return hasCode(err, ErrCodeCancelled) }

// IsIO checks for ErrCodeIO.
func IsIO(err error) bool { return hasCode(err, ErrCodeIO) }

// IsRetryable checks whether err is marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Retryable
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
