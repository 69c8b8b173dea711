// Package errors defines the error taxonomy shared by restkit packages.
//
// Every failure surfaced by the client is an *Error carrying an ErrorCode:
//
//   - INVALID_ARGUMENT: a call was made with missing or malformed arguments
//   - TRANSPORT_ERROR: network, DNS or connection failure
//   - HTTP_ERROR: a non-success status raised by an installed error handler
//   - UNSUPPORTED_CONTENT_TYPE: a multipart value of an unknown kind
//   - ILLEGAL_STATE: a response accessor used out of order
//   - CANCELLED: the response was cancelled before it completed
//   - IO_ERROR: a local read failure (files, request bodies)
//
// Use errors.As or the Is* predicates to branch on the code:
//
//	if errors.IsHTTP(err) {
//	    log.Printf("server said %d", errors.StatusCode(err))
//	}
package errors
