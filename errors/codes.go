package errors

// ErrorCode is a machine-readable error classification.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a nil, empty or malformed argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeTransport indicates a network-level failure.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeHTTP indicates an HTTP status the error policy rejected.
	ErrCodeHTTP ErrorCode = "HTTP_ERROR"
	// ErrCodeUnsupportedContentType indicates an unknown multipart value.
	ErrCodeUnsupportedContentType ErrorCode = "UNSUPPORTED_CONTENT_TYPE"
	// ErrCodeIllegalState indicates an accessor called in the wrong state.
	ErrCodeIllegalState ErrorCode = "ILLEGAL_STATE"
	// ErrCodeCancelled indicates the exchange was cancelled.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeIO indicates a local I/O failure.
	ErrCodeIO ErrorCode = "IO_ERROR"
)

// retryableStatus lists HTTP statuses below 500 worth retrying.
var retryableStatus = map[int]bool{
	408: true,
	429: true,
}

// IsRetryableCode reports whether errors with this code are generally transient.
func IsRetryableCode(code ErrorCode) bool {
	return code == ErrCodeTransport
}
