package restclient

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/restkit/errors"
	"github.com/kbukum/restkit/logger"
)

// State is the lifecycle position of a Response.
type State int

const (
	// StatePending means nothing has been read from the server yet.
	StatePending State = iota
	// StateCodeResolved means the status line has been read.
	StateCodeResolved
	// StateContentMaterialized means Content has produced its result.
	StateContentMaterialized
	// StateCancelled means Cancel closed the exchange first.
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCodeResolved:
		return "code_resolved"
	case StateContentMaterialized:
		return "content_materialized"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Response is a deferred handle over one call. The status code and content
// are fetched on first access and cached; later calls return the cached
// values. Cancel may be called from any goroutine and interrupts an
// in-flight read.
type Response[T any] struct {
	method       Method
	url          string
	conn         Connection
	deserializer Deserializer[T]
	errorHandler ErrorHandler
	debug        *debugSink
	log          *logger.Logger
	started      time.Time

	// stateMu guards state, code and status. Cancel only takes stateMu.
	stateMu sync.Mutex
	state   State
	code    int
	status  string

	// mu serializes resolution and guards the fields below.
	mu          sync.Mutex
	header      http.Header
	codeDone    bool
	codeErr     error
	errBody     []byte
	errBodyDone bool
	errBodyErr  error
	content     T
	contentErr  error
}

func newResponse[T any](c *Client, method Method, url string, conn Connection, d Deserializer[T]) *Response[T] {
	log := c.log.WithFields(logger.Fields(
		logger.FieldMethod, string(method),
		logger.FieldURL, url,
	))
	return &Response[T]{
		method:       method,
		url:          url,
		conn:         conn,
		deserializer: d,
		errorHandler: c.errorHandler,
		debug:        c.debug,
		log:          log,
		started:      time.Now(),
	}
}

// Method returns the request method.
func (r *Response[T]) Method() Method { return r.method }

// URL returns the request URL after scheme normalization.
func (r *Response[T]) URL() string { return r.url }

// Connection returns the underlying connection.
func (r *Response[T]) Connection() Connection { return r.conn }

// State returns the current lifecycle state.
func (r *Response[T]) State() State {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.state
}

// IsCancelled reports whether Cancel won.
func (r *Response[T]) IsCancelled() bool { return r.State() == StateCancelled }

// IsDone reports whether Content has produced its result.
func (r *Response[T]) IsDone() bool { return r.State() == StateContentMaterialized }

// Code returns the HTTP status code, performing the round trip on first use.
// After Cancel it returns the code if one was read, otherwise a Cancelled
// error.
func (r *Response[T]) Code() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveCode()
}

// IsError reports whether the status is 4xx or 5xx, or the status could not
// be read.
func (r *Response[T]) IsError() bool {
	code, err := r.Code()
	return err != nil || isErrorCode(code)
}

// ErrorMessage returns the server's error text: the decoded error body when
// there is one, otherwise the status reason. It returns "" when the status
// or body cannot be read.
func (r *Response[T]) ErrorMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, err := r.errorMessage()
	if err != nil {
		return ""
	}
	return msg
}

// Content materializes the body. For error statuses the error handler runs
// first and may abort; without a deserializer the error body yields the zero
// value. Transport failures are always returned.
func (r *Response[T]) Content() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.State() {
	case StateContentMaterialized:
		return r.content, r.contentErr
	case StateCancelled:
		var zero T
		return zero, errors.Cancelled(r.url)
	}

	v, retained, err := r.materialize()
	return r.finish(v, retained, err)
}

// Cancel closes the exchange. It returns false if content was already
// materialized or the response was already cancelled.
func (r *Response[T]) Cancel() bool {
	r.stateMu.Lock()
	if r.state == StateContentMaterialized || r.state == StateCancelled {
		r.stateMu.Unlock()
		return false
	}
	r.state = StateCancelled
	code, status := r.code, r.status
	r.stateMu.Unlock()

	_ = r.conn.Close()
	r.debug.response(code, status, "[CANCELLED]")
	r.log.Debug("request cancelled")
	return true
}

// transition moves to next if the current state is one of from.
func (r *Response[T]) transition(next State, from ...State) bool {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	for _, s := range from {
		if r.state == s {
			r.state = next
			return true
		}
	}
	return false
}

func (r *Response[T]) resolveCode() (int, error) {
	if r.codeDone && r.codeErr == nil {
		return r.code, nil
	}
	if r.IsCancelled() {
		return 0, errors.Cancelled(r.url)
	}
	if r.codeDone {
		return 0, r.codeErr
	}

	resp, err := r.conn.Response()
	r.codeDone = true
	if err != nil {
		if r.IsCancelled() && !errors.IsCancelled(err) {
			err = errors.Cancelled(r.url).WithCause(err)
		}
		r.codeErr = err
		_ = r.conn.Close()
		r.log.WithError(err).Warn("request failed")
		return 0, err
	}

	r.header = resp.Header
	r.stateMu.Lock()
	r.code = resp.StatusCode
	r.status = statusMessage(resp.StatusCode, resp.Status)
	if r.state == StatePending {
		r.state = StateCodeResolved
	}
	r.stateMu.Unlock()
	return resp.StatusCode, nil
}

func (r *Response[T]) errorMessage() (string, error) {
	code, err := r.resolveCode()
	if err != nil {
		return "", err
	}
	msg := r.status
	if !isErrorCode(code) {
		return msg, nil
	}
	body, err := r.errorBody()
	if err != nil {
		return "", err
	}
	if len(body) > 0 {
		msg = decodeText(body, r.header)
	}
	return msg, nil
}

// errorBody reads the error body once.
func (r *Response[T]) errorBody() ([]byte, error) {
	if !r.errBodyDone {
		r.errBodyDone = true
		resp, err := r.conn.Response()
		if err != nil {
			r.errBodyErr = err
		} else {
			r.errBody, r.errBodyErr = ReadAll(resp.Body)
		}
	}
	return r.errBody, r.errBodyErr
}

func (r *Response[T]) materialize() (T, bool, error) {
	var zero T

	code, err := r.resolveCode()
	if err != nil {
		return zero, false, err
	}

	if isErrorCode(code) {
		msg, err := r.errorMessage()
		if err != nil {
			return zero, false, err
		}
		r.debug.response(code, r.status, msg)
		if r.errorHandler != nil {
			if err := r.errorHandler.HandleError(code, msg); err != nil {
				return zero, false, err
			}
		}
		if r.deserializer == nil {
			return zero, false, nil
		}
		v, err := r.deserializer.Deserialize(bufferedBody(r.errBody), code, r.header)
		return v, false, err
	}

	resp, err := r.conn.Response()
	if err != nil {
		return zero, false, err
	}
	d := r.deserializer
	if d == nil {
		d = defaultDeserializer[T]()
	}

	if retainsBody(d) {
		r.debug.response(code, r.status, "")
		v, err := d.Deserialize(&connBody{ReadCloser: resp.Body, conn: r.conn}, code, r.header)
		return v, err == nil, err
	}

	var body io.Reader = resp.Body
	if r.debug.enabled() {
		raw, err := ReadAll(resp.Body)
		if err != nil {
			return zero, false, err
		}
		r.debug.response(code, r.status, decodeText(raw, r.header))
		body = bufferedBody(raw)
	}
	v, err := d.Deserialize(body, code, r.header)
	return v, false, err
}

// finish records the result and releases the connection unless the result
// still reads from it.
func (r *Response[T]) finish(v T, retained bool, err error) (T, error) {
	var zero T
	if !r.transition(StateContentMaterialized, StatePending, StateCodeResolved) {
		if retained {
			_ = r.conn.Close()
		}
		if err == nil || !errors.IsCancelled(err) {
			err = errors.Cancelled(r.url).WithCause(err)
		}
		return zero, err
	}

	r.content, r.contentErr = v, err
	if !retained {
		_ = r.conn.Close()
	}

	log := r.log
	if err != nil {
		log = log.WithError(err)
	}
	log.Debug("response materialized", logger.MergeWithDuration(logger.Fields(
		logger.FieldStatusCode, r.code,
	), time.Since(r.started)))
	return v, err
}

// defaultDeserializer decodes text. Call rejects a nil deserializer for any
// T other than string.
func defaultDeserializer[T any]() Deserializer[T] {
	d, _ := any(String()).(Deserializer[T])
	return d
}

// connBody closes the connection along with the body.
type connBody struct {
	io.ReadCloser
	conn Connection
}

func (b *connBody) Close() error {
	err := b.ReadCloser.Close()
	_ = b.conn.Close()
	return err
}
