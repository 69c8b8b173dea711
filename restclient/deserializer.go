package restclient

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/kbukum/restkit/errors"
)

// Deserializer turns a response body into a typed value. code and header
// describe the response the body belongs to.
type Deserializer[T any] interface {
	Deserialize(body io.Reader, code int, header http.Header) (T, error)
}

// DeserializerFunc adapts a function to Deserializer.
type DeserializerFunc[T any] func(body io.Reader, code int, header http.Header) (T, error)

// Deserialize calls f.
func (f DeserializerFunc[T]) Deserialize(body io.Reader, code int, header http.Header) (T, error) {
	return f(body, code, header)
}

// String decodes the body as text, honouring the response charset.
func String() Deserializer[string] {
	return DeserializerFunc[string](func(body io.Reader, _ int, header http.Header) (string, error) {
		raw, err := ReadAll(body)
		if err != nil {
			return "", err
		}
		return decodeText(raw, header), nil
	})
}

// StatusCode ignores the body and returns the status code.
func StatusCode() Deserializer[int] {
	return DeserializerFunc[int](func(_ io.Reader, code int, _ http.Header) (int, error) {
		return code, nil
	})
}

// Bytes returns the raw body.
func Bytes() Deserializer[[]byte] {
	return DeserializerFunc[[]byte](func(body io.Reader, _ int, _ http.Header) ([]byte, error) {
		return ReadAll(body)
	})
}

// JSON decodes the body into T. An empty body yields the zero value.
func JSON[T any]() Deserializer[T] {
	return DeserializerFunc[T](func(body io.Reader, _ int, _ http.Header) (T, error) {
		var v T
		if err := json.NewDecoder(body).Decode(&v); err != nil && err != io.EOF {
			return v, errors.IO("decode JSON response", err)
		}
		return v, nil
	})
}

// Stream hands the live body to the caller. The connection stays open until
// the returned reader is closed.
func Stream() Deserializer[io.ReadCloser] {
	return streamDeserializer{}
}

type streamDeserializer struct{}

func (streamDeserializer) Deserialize(body io.Reader, _ int, _ http.Header) (io.ReadCloser, error) {
	if rc, ok := body.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(body), nil
}

func (streamDeserializer) retainsBody() bool { return true }

// bodyRetainer is implemented by deserializers whose result keeps reading
// from the connection after Deserialize returns.
type bodyRetainer interface {
	retainsBody() bool
}

func retainsBody(d any) bool {
	r, ok := d.(bodyRetainer)
	return ok && r.retainsBody()
}

// ReadAll reads r to the end. A nil reader yields nil.
func ReadAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.IO("read response body", err)
	}
	return b, nil
}

// decodeText converts raw to UTF-8 using the charset parameter of
// Content-Type, then the Content-Encoding label, falling back to UTF-8.
func decodeText(raw []byte, header http.Header) string {
	if len(raw) == 0 || header == nil {
		return string(raw)
	}
	for _, label := range charsetLabels(header) {
		enc, name := charset.Lookup(label)
		if enc == nil || name == "utf-8" {
			continue
		}
		out, err := enc.NewDecoder().Bytes(raw)
		if err == nil {
			return string(out)
		}
	}
	return string(raw)
}

func charsetLabels(header http.Header) []string {
	var labels []string
	if ct := header.Get("Content-Type"); ct != "" {
		if _, params, err := mime.ParseMediaType(ct); err == nil && params["charset"] != "" {
			labels = append(labels, params["charset"])
		}
	}
	if ce := strings.TrimSpace(header.Get("Content-Encoding")); ce != "" {
		labels = append(labels, ce)
	}
	return labels
}

// bufferedBody returns a fresh reader over b for each deserialization.
func bufferedBody(b []byte) io.Reader {
	return bytes.NewReader(b)
}
