// Package urlbuilder composes URLs from loosely formatted string fragments.
//
// Segments may carry leading or trailing slashes, embedded paths and scheme
// markers; the builder normalizes them into a single scheme and a clean,
// slash-joined path:
//
//	u := urlbuilder.New("myhost.com", "first/", "//second").SetHTTPS(true)
//	u.String() // https://myhost.com/first/second
//
// Builders are mutable and chainable. Copy branches an independent builder.
package urlbuilder

import (
	"net/url"
	"strings"

	"github.com/kbukum/restkit/errors"
)

type param struct {
	key, value string
}

// Builder accumulates a scheme, path segments and query parameters.
// The first segment is the host.
type Builder struct {
	segments   []string
	https      bool
	params     []param
	emitScheme bool
	emitDomain bool
	err        error
}

// New creates a builder and appends segments to it.
func New(segments ...string) *Builder {
	b := &Builder{emitScheme: true, emitDomain: true}
	return b.Append(segments...)
}

// Append adds each segment in order. Whitespace is trimmed and empty
// segments are ignored. A segment containing a slash after its first
// character is split and each piece appended. Pieces starting with
// "http:" or "https:" (any case) select the scheme instead of adding a
// path segment.
func (b *Builder) Append(segments ...string) *Builder {
	for _, s := range segments {
		b.appendSingle(s)
	}
	return b
}

func (b *Builder) appendSingle(segment string) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return
	}

	if len(segment) > 1 && strings.IndexByte(segment[1:], '/') >= 0 {
		for _, piece := range strings.Split(segment, "/") {
			b.appendSingle(piece)
		}
		return
	}

	upper := strings.ToUpper(segment)
	switch {
	case strings.HasPrefix(upper, "HTTP:"):
		return
	case strings.HasPrefix(upper, "HTTPS:"):
		b.https = true
		return
	}

	if cleaned := strings.ReplaceAll(segment, "/", ""); cleaned != "" {
		b.segments = append(b.segments, cleaned)
	}
}

// SetHTTPS selects https when true, http otherwise.
func (b *Builder) SetHTTPS(value bool) *Builder {
	b.https = value
	return b
}

// EmitScheme controls whether String renders the scheme.
func (b *Builder) EmitScheme(value bool) *Builder {
	b.emitScheme = value
	return b
}

// EmitDomain controls whether String renders the host. When false the host
// segment is replaced by a single "/", leaving an absolute path.
func (b *Builder) EmitDomain(value bool) *Builder {
	b.emitDomain = value
	return b
}

// AddParameter appends a query parameter. Keys may repeat; all occurrences
// are rendered in insertion order. An empty key records an INVALID_ARGUMENT
// error, reported by Err and Build, and the parameter is dropped.
func (b *Builder) AddParameter(key, value string) *Builder {
	if key == "" {
		if b.err == nil {
			b.err = errors.InvalidArgument("query parameter key is required")
		}
		return b
	}
	b.params = append(b.params, param{key: key, value: value})
	return b
}

// Copy returns an independent builder with the same path segments and
// scheme. Query parameters and emit flags are not carried over.
func (b *Builder) Copy(segments ...string) *Builder {
	c := &Builder{
		segments:   append([]string(nil), b.segments...),
		https:      b.https,
		emitScheme: true,
		emitDomain: true,
	}
	return c.Append(segments...)
}

// Segments returns a copy of the path segments, host first.
func (b *Builder) Segments() []string {
	return append([]string(nil), b.segments...)
}

// IsHTTPS reports whether the https scheme is selected.
func (b *Builder) IsHTTPS() bool { return b.https }

// Err returns the first error recorded by a builder call.
func (b *Builder) Err() error { return b.err }

// Build renders the URL, or returns the first recorded error.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return b.String(), nil
}

// String renders the URL.
func (b *Builder) String() string {
	var sb strings.Builder

	if b.emitScheme {
		if b.https {
			sb.WriteString("https://")
		} else {
			sb.WriteString("http://")
		}
	}

	for i, seg := range b.segments {
		if i == 0 && !b.emitDomain {
			sb.WriteByte('/')
			continue
		}
		sb.WriteString(seg)
		if i < len(b.segments)-1 {
			sb.WriteByte('/')
		}
	}

	for i, p := range b.params {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}

	return sb.String()
}
