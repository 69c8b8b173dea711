package restclient

import (
	"io"
	"net/http"
	"slices"
	"sort"
	"time"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/multipart"
	"github.com/kbukum/restkit/urlbuilder"
)

// Client issues calls with a fixed set of policies. Its configuration does
// not change after New; use Derive for a differently configured client.
// A Client is safe for concurrent use.
type Client struct {
	name         string
	provider     ConnectionProvider
	initializers []ConnectionInitializer
	errorHandler ErrorHandler
	log          *logger.Logger
	boundaries   *multipart.BoundaryGenerator
	encoder      *multipart.Encoder
	now          func() time.Time

	debugOut *lockedWriter
	debug    *debugSink
	closers  []io.Closer
}

// Option configures a Client.
type Option func(*Client)

// WithProvider replaces the connection provider.
func WithProvider(p ConnectionProvider) Option {
	return func(c *Client) { c.provider = p }
}

// WithHTTPClient uses hc for the default provider, replacing any transport
// built from Config.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.provider = NewHTTPProvider(hc) }
}

// WithInitializers appends connection initializers.
func WithInitializers(inits ...ConnectionInitializer) Option {
	return func(c *Client) { c.initializers = append(c.initializers, inits...) }
}

// WithoutInitializers drops all initializers, including those from Config.
func WithoutInitializers() Option {
	return func(c *Client) { c.initializers = nil }
}

// WithErrorHandler replaces the error handler. nil disables it.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Client) { c.errorHandler = h }
}

// WithDebugWriter sends the request/response trace to w. nil disables it.
func WithDebugWriter(w io.Writer) Option {
	return func(c *Client) {
		if w == nil {
			c.debugOut = nil
			return
		}
		c.debugOut = &lockedWriter{w: w}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithBoundaryGenerator sets the multipart boundary source.
func WithBoundaryGenerator(g *multipart.BoundaryGenerator) Option {
	return func(c *Client) { c.boundaries = g }
}

// WithClock overrides the clock used for trace timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client from cfg. A nil cfg uses defaults.
func New(cfg *Config, opts ...Option) (*Client, error) {
	var conf Config
	if cfg != nil {
		conf = *cfg
	}
	conf.ApplyDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := conf.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}
	provider := NewHTTPProvider(&http.Client{Transport: transport, Timeout: conf.Timeout})
	if conf.Retry.Enabled() {
		provider = provider.WithRetry(conf.Retry)
	}

	handler, err := ErrorPolicy(conf.ErrorPolicy)
	if err != nil {
		return nil, err
	}

	c := &Client{
		name:         conf.Name,
		provider:     provider,
		errorHandler: handler,
		boundaries:   multipart.NewBoundaryGenerator(nil),
		encoder:      &multipart.Encoder{Conformant: true},
		now:          time.Now,
	}

	c.initializers = append(c.initializers, UserAgent(conf.UserAgent))
	names := make([]string, 0, len(conf.Headers))
	for name := range conf.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.initializers = append(c.initializers, Header(name, conf.Headers[name]))
	}

	if conf.Debug.Enabled {
		w, closer := conf.Debug.open()
		c.debugOut = &lockedWriter{w: w}
		if closer != nil {
			c.closers = append(c.closers, closer)
		}
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.New(&conf.Logging, conf.Name).WithComponent("restclient")
	}
	c.finalize()
	return c, nil
}

// Derive returns an independent client with opts applied on top of c's
// configuration. Resources opened by New stay owned by c.
func (c *Client) Derive(opts ...Option) *Client {
	d := &Client{
		name:         c.name,
		provider:     c.provider,
		initializers: slices.Clone(c.initializers),
		errorHandler: c.errorHandler,
		log:          c.log,
		boundaries:   c.boundaries,
		encoder:      c.encoder,
		now:          c.now,
		debugOut:     c.debugOut,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.finalize()
	return d
}

func (c *Client) finalize() {
	if c.log == nil {
		c.log = logger.Nop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.boundaries == nil {
		c.boundaries = multipart.NewBoundaryGenerator(nil)
	}
	if c.encoder == nil {
		c.encoder = &multipart.Encoder{Conformant: true}
	}
	if c.provider == nil {
		c.provider = NewHTTPProvider(nil)
	}
	c.debug = nil
	if c.debugOut != nil {
		c.debug = &debugSink{out: c.debugOut, now: c.now}
	}
}

// BuildURL starts a URL builder from segments.
func (c *Client) BuildURL(segments ...string) *urlbuilder.Builder {
	return urlbuilder.New(segments...)
}

// Name returns the configured client name.
func (c *Client) Name() string { return c.name }

// Provider returns the connection provider.
func (c *Client) Provider() ConnectionProvider { return c.provider }

// Initializers returns a copy of the initializer chain.
func (c *Client) Initializers() []ConnectionInitializer {
	return slices.Clone(c.initializers)
}

// ErrorHandler returns the installed error handler, or nil.
func (c *Client) ErrorHandler() ErrorHandler { return c.errorHandler }

// Close releases resources opened by New, such as a debug file.
func (c *Client) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
