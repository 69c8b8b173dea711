package restclient

import (
	"fmt"

	"github.com/kbukum/restkit/errors"
	"github.com/kbukum/restkit/logger"
)

// ErrorHandler decides whether an HTTP error status aborts content
// materialization. It is called from Response.Content only, and only when the
// response is an error. Returning a non-nil error aborts; returning nil lets
// the error body be deserialized.
type ErrorHandler interface {
	HandleError(code int, message string) error
}

// ErrorHandlerFunc adapts a function to ErrorHandler.
type ErrorHandlerFunc func(code int, message string) error

// HandleError calls f.
func (f ErrorHandlerFunc) HandleError(code int, message string) error {
	return f(code, message)
}

// Error policy names accepted by Config.ErrorPolicy.
const (
	ErrorPolicyNone = "none"
	ErrorPolicyAll  = "all"
	ErrorPolicy5xx  = "5xx"
)

// ThrowAllErrors fails on any code outside 100-399 and on non-HTTP codes.
func ThrowAllErrors() ErrorHandler {
	return ErrorHandlerFunc(func(code int, message string) error {
		if code <= 0 {
			return errors.NonHTTP()
		}
		if code < 100 || code >= 400 {
			return errors.HTTP(code, message)
		}
		return nil
	})
}

// Throw5xxErrors fails only on server errors.
func Throw5xxErrors() ErrorHandler {
	return ErrorHandlerFunc(func(code int, message string) error {
		if code >= 500 && code < 600 {
			return errors.HTTP(code, message)
		}
		return nil
	})
}

// LogErrors logs every error status at warn level and never aborts.
func LogErrors(log *logger.Logger) ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return ErrorHandlerFunc(func(code int, message string) error {
		log.Warn("server returned an error status", logger.Fields(
			logger.FieldStatusCode, code,
			"message", message,
		))
		return nil
	})
}

// ErrorPolicy returns the built-in handler for name. "none" and "" yield a
// nil handler, meaning error statuses are absorbed into content.
func ErrorPolicy(name string) (ErrorHandler, error) {
	switch name {
	case "", ErrorPolicyNone:
		return nil, nil
	case ErrorPolicyAll:
		return ThrowAllErrors(), nil
	case ErrorPolicy5xx:
		return Throw5xxErrors(), nil
	default:
		return nil, errors.InvalidArgument("unknown error policy %q", name)
	}
}

// isErrorCode reports whether code is a 4xx or 5xx status.
func isErrorCode(code int) bool {
	return code >= 400 && code < 600
}

func statusMessage(code int, status string) string {
	prefix := fmt.Sprintf("%d ", code)
	if len(status) > len(prefix) && status[:len(prefix)] == prefix {
		return status[len(prefix):]
	}
	return status
}
