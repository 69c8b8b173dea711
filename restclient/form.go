package restclient

import (
	"net/url"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/kbukum/restkit/errors"
)

// FormContentType is the Content-Type of form posts.
const FormContentType = "application/x-www-form-urlencoded"

// Form is an insertion-ordered set of form fields. Setting an existing key
// replaces its value and keeps its position.
type Form struct {
	values *linkedhashmap.Map
}

// NewForm builds a form from alternating keys and values.
func NewForm(kv ...string) (*Form, error) {
	if len(kv)%2 != 0 {
		return nil, errors.InvalidArgument("form requires an even number of arguments, got %d", len(kv))
	}
	f := &Form{values: linkedhashmap.New()}
	for i := 0; i < len(kv); i += 2 {
		f.Set(kv[i], kv[i+1])
	}
	return f, nil
}

// Set stores value under key.
func (f *Form) Set(key, value string) *Form {
	if f.values == nil {
		f.values = linkedhashmap.New()
	}
	f.values.Put(key, value)
	return f
}

// Get returns the value stored under key.
func (f *Form) Get(key string) (string, bool) {
	if f == nil || f.values == nil {
		return "", false
	}
	v, ok := f.values.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Len returns the number of fields.
func (f *Form) Len() int {
	if f == nil || f.values == nil {
		return 0
	}
	return f.values.Size()
}

// Encode renders key=value pairs, percent-encoded and joined by '&', in
// insertion order.
func (f *Form) Encode() string {
	if f.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	it := f.values.Iterator()
	for it.Next() {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(it.Key().(string)))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(it.Value().(string)))
	}
	return sb.String()
}

// Headers is an ordered list of request headers. Names may repeat; every
// entry is sent.
type Headers struct {
	fields []headerField
}

type headerField struct {
	name  string
	value string
}

// NewHeaders builds headers from alternating names and values.
func NewHeaders(kv ...string) (*Headers, error) {
	if len(kv)%2 != 0 {
		return nil, errors.InvalidArgument("headers require an even number of arguments, got %d", len(kv))
	}
	h := &Headers{}
	for i := 0; i < len(kv); i += 2 {
		h.Add(kv[i], kv[i+1])
	}
	return h, nil
}

// Add appends a header.
func (h *Headers) Add(name, value string) *Headers {
	h.fields = append(h.fields, headerField{name: name, value: value})
	return h
}

// Len returns the number of entries.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.fields)
}

// Each visits entries in order.
func (h *Headers) Each(fn func(name, value string)) {
	if h == nil {
		return
	}
	for _, f := range h.fields {
		fn(f.name, f.value)
	}
}

// with returns a new list holding name: value followed by h.
func (h *Headers) with(name, value string) *Headers {
	out := &Headers{fields: make([]headerField, 0, h.Len()+1)}
	out.Add(name, value)
	if h != nil {
		out.fields = append(out.fields, h.fields...)
	}
	return out
}
