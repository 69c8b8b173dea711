package restclient

import "net/http"

// Method is an HTTP method supported by the client.
type Method string

// Supported methods.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
	MethodHead   Method = http.MethodHead
)

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodHead:
		return true
	}
	return false
}

// HasBody reports whether requests with m carry a body.
func (m Method) HasBody() bool {
	return m == MethodPost || m == MethodPut
}

// Idempotent reports whether m may be repeated safely.
func (m Method) Idempotent() bool {
	return m != MethodPost
}

// Abbrev returns the first three letters of m, as written in debug lines.
func (m Method) Abbrev() string {
	if len(m) <= 3 {
		return string(m)
	}
	return string(m[:3])
}
