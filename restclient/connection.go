package restclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/restkit/errors"
)

// Connection is one prepared HTTP exchange. It is owned by exactly one
// Response and must be closed on every terminal path.
//
// Header, SetMethod and SetTimeout configure the request and only take
// effect before it is sent. The request is sent by WriteBody for methods
// with a body, and by the first call to Response otherwise.
type Connection interface {
	URL() string
	Method() Method
	SetMethod(m Method)
	Header() http.Header
	SetTimeout(d time.Duration)

	// WriteBody buffers body, sets the content length and sends the request.
	WriteBody(body []byte) error
	// Response sends the request if needed and returns the server response.
	Response() (*http.Response, error)
	// Close cancels any in-flight I/O and releases the response body.
	// It is safe to call more than once and from other goroutines.
	Close() error
}

// ConnectionProvider resolves a URL into a fresh Connection.
type ConnectionProvider interface {
	Connect(ctx context.Context, url string) (Connection, error)
}

// ConnectionProviderFunc adapts a function to ConnectionProvider.
type ConnectionProviderFunc func(ctx context.Context, url string) (Connection, error)

// Connect calls f.
func (f ConnectionProviderFunc) Connect(ctx context.Context, url string) (Connection, error) {
	return f(ctx, url)
}

// HTTPProvider creates connections backed by an *http.Client.
type HTTPProvider struct {
	client *http.Client
	retry  *RetryConfig
}

// NewHTTPProvider creates a provider. A nil client uses a client over a
// clone of http.DefaultTransport.
func NewHTTPProvider(client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	return &HTTPProvider{client: client}
}

// WithRetry returns a copy of p that retries round trips per cfg.
func (p *HTTPProvider) WithRetry(cfg RetryConfig) *HTTPProvider {
	cp := *p
	cp.retry = &cfg
	return &cp
}

// Client returns the underlying *http.Client.
func (p *HTTPProvider) Client() *http.Client {
	return p.client
}

// Connect validates url and prepares a connection. Nothing is sent.
func (p *HTTPProvider) Connect(ctx context.Context, url string) (Connection, error) {
	// Parse early so malformed URLs fail at call time.
	if _, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody); err != nil {
		return nil, errors.Transport("connect "+url, err)
	}
	cctx, cancel := context.WithCancel(ctx)
	return &httpConnection{
		client:     p.client,
		retry:      p.retry,
		url:        url,
		method:     MethodGet,
		header:     make(http.Header),
		ctx:        cctx,
		baseCancel: cancel,
	}, nil
}

type httpConnection struct {
	client *http.Client
	retry  *RetryConfig

	ctx        context.Context
	baseCancel context.CancelFunc
	cancelled  atomic.Bool

	mu            sync.Mutex
	timeoutCancel context.CancelFunc
	url           string
	method        Method
	header        http.Header
	timeout       time.Duration
	body          []byte
	sent          bool
	closed        bool
	resp          *http.Response
	err           error
}

func (c *httpConnection) URL() string         { return c.url }
func (c *httpConnection) Header() http.Header { return c.header }

func (c *httpConnection) Method() Method {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method
}

func (c *httpConnection) SetMethod(m Method) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.method = m
}

func (c *httpConnection) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

func (c *httpConnection) WriteBody(body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sent {
		return errors.IllegalState("request to %s was already sent", c.url)
	}
	if body == nil {
		body = []byte{}
	}
	c.body = body
	return c.sendLocked()
}

func (c *httpConnection) Response() (*http.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sendLocked(); err != nil {
		return nil, err
	}
	return c.resp, nil
}

func (c *httpConnection) sendLocked() error {
	if c.sent {
		return c.err
	}
	c.sent = true
	if c.cancelled.Load() {
		c.err = errors.Cancelled(c.url)
		return c.err
	}

	ctx := c.ctx
	if c.timeout > 0 {
		// Covers the body read as well; released by Close.
		ctx, c.timeoutCancel = context.WithTimeout(ctx, c.timeout)
	}

	op := string(c.method) + " " + c.url
	roundTrip := func() (*http.Response, error) {
		req, err := c.newRequest(ctx)
		if err != nil {
			return nil, errors.InvalidArgument("build request %s: %v", op, err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, errors.Transport(op, err)
		}
		return resp, nil
	}

	var resp *http.Response
	var err error
	if c.retry != nil && c.retry.allows(c.method) {
		resp, err = retryRoundTrip(ctx, *c.retry, roundTrip)
	} else {
		resp, err = roundTrip()
	}
	if err != nil {
		c.err = err
		if c.cancelled.Load() {
			c.err = errors.Cancelled(c.url).WithCause(err)
		}
		return c.err
	}
	c.resp = resp
	return nil
}

func (c *httpConnection) newRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if c.method.HasBody() && len(c.body) > 0 {
		body = bytes.NewReader(c.body)
	}
	req, err := http.NewRequestWithContext(ctx, string(c.method), c.url, body)
	if err != nil {
		return nil, err
	}
	req.Header = c.header.Clone()
	if c.method.HasBody() {
		req.ContentLength = int64(len(c.body))
	}
	return req, nil
}

func (c *httpConnection) Close() error {
	// Cancel before locking so an in-flight round trip unblocks.
	c.cancelled.Store(true)
	c.baseCancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.timeoutCancel != nil {
		c.timeoutCancel()
	}
	if c.resp != nil && c.resp.Body != nil {
		return c.resp.Body.Close()
	}
	return nil
}
