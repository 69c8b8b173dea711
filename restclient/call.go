package restclient

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/kbukum/restkit/errors"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/multipart"
)

// Call prepares and dispatches one request and returns its deferred
// response.
//
// A url without an http:// or https:// prefix gets http://. Initializers run
// in order, then headers are added without replacing anything. For POST and
// PUT the body is buffered and sent before Call returns, so transport
// failures surface here; other methods send on the first Code or Content.
// d may be nil only when T is string, in which case the body is decoded as
// text.
func Call[T any](c *Client, ctx context.Context, method Method, url string, d Deserializer[T], body io.Reader, headers *Headers) (*Response[T], error) {
	if c == nil {
		return nil, errors.InvalidArgument("client is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !method.Valid() {
		return nil, errors.InvalidArgument("unsupported method %q", method)
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.InvalidArgument("url is required")
	}
	if d == nil && defaultDeserializer[T]() == nil {
		var zero T
		return nil, errors.InvalidArgument("a deserializer is required for %T", zero)
	}
	url = withScheme(url)

	var payload []byte
	if method.HasBody() {
		var err error
		if payload, err = ReadAll(body); err != nil {
			return nil, err
		}
	}
	c.debug.request(method, url, payload)

	conn, err := c.provider.Connect(ctx, url)
	if err != nil {
		c.log.Warn("connect failed", logger.ErrorFields(string(method), url, err))
		return nil, errors.Transport("connect "+url, err)
	}
	conn.SetMethod(method)

	for _, ini := range c.initializers {
		if err := ini.Initialize(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	headers.Each(func(name, value string) {
		conn.Header().Add(name, value)
	})

	if method.HasBody() {
		if err := conn.WriteBody(payload); err != nil {
			_ = conn.Close()
			c.log.Warn("request failed", logger.ErrorFields(string(method), url, err))
			return nil, err
		}
	}

	c.log.Debug("request dispatched", logger.Fields(
		logger.FieldMethod, string(method),
		logger.FieldURL, url,
	))
	return newResponse(c, method, url, conn, d), nil
}

// withScheme prefixes http:// unless url already names http or https.
func withScheme(url string) string {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return url
	}
	return "http://" + url
}

// Get issues a GET request.
func Get[T any](c *Client, ctx context.Context, url string, d Deserializer[T], headers *Headers) (*Response[T], error) {
	return Call(c, ctx, MethodGet, url, d, nil, headers)
}

// GetContent issues a GET request and materializes its content.
func GetContent[T any](c *Client, ctx context.Context, url string, d Deserializer[T]) (T, error) {
	resp, err := Call(c, ctx, MethodGet, url, d, nil, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return resp.Content()
}

// Post issues a POST request with body.
func Post[T any](c *Client, ctx context.Context, url string, d Deserializer[T], body io.Reader, headers *Headers) (*Response[T], error) {
	return Call(c, ctx, MethodPost, url, d, body, headers)
}

// PostForm posts form as application/x-www-form-urlencoded.
func PostForm[T any](c *Client, ctx context.Context, url string, d Deserializer[T], form *Form, headers *Headers) (*Response[T], error) {
	return Call(c, ctx, MethodPost, url, d, strings.NewReader(form.Encode()), headers.with("Content-Type", FormContentType))
}

// PostMultipart posts content as multipart/form-data with a fresh boundary.
func PostMultipart[T any](c *Client, ctx context.Context, url string, d Deserializer[T], content *multipart.Content, headers *Headers) (*Response[T], error) {
	if c == nil {
		return nil, errors.InvalidArgument("client is required")
	}
	boundary := c.boundaries.Next()
	body, err := c.encoder.Encode(boundary, content)
	if err != nil {
		return nil, err
	}
	return Call(c, ctx, MethodPost, url, d, bytes.NewReader(body), headers.with("Content-Type", multipart.FormDataContentType(boundary)))
}

// Put issues a PUT request with body.
func Put[T any](c *Client, ctx context.Context, url string, d Deserializer[T], body io.Reader, headers *Headers) (*Response[T], error) {
	return Call(c, ctx, MethodPut, url, d, body, headers)
}

// PutForm puts form as application/x-www-form-urlencoded.
func PutForm[T any](c *Client, ctx context.Context, url string, d Deserializer[T], form *Form, headers *Headers) (*Response[T], error) {
	return Call(c, ctx, MethodPut, url, d, strings.NewReader(form.Encode()), headers.with("Content-Type", FormContentType))
}

// Delete issues a DELETE request.
func Delete[T any](c *Client, ctx context.Context, url string, d Deserializer[T], headers *Headers) (*Response[T], error) {
	return Call(c, ctx, MethodDelete, url, d, nil, headers)
}

// Head issues a HEAD request whose content is the status code.
func Head(c *Client, ctx context.Context, url string, headers *Headers) (*Response[int], error) {
	return Call(c, ctx, MethodHead, url, StatusCode(), nil, headers)
}

// Get fetches url and returns the body as text.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	return GetContent(c, ctx, url, String())
}

// Post posts body. The response content is the status code.
func (c *Client) Post(ctx context.Context, url string, body io.Reader, headers *Headers) (*Response[int], error) {
	return Post(c, ctx, url, StatusCode(), body, headers)
}

// PostForm posts form. The response content is the status code.
func (c *Client) PostForm(ctx context.Context, url string, form *Form, headers *Headers) (*Response[int], error) {
	return PostForm(c, ctx, url, StatusCode(), form, headers)
}

// PostMultipart posts content. The response content is the status code.
func (c *Client) PostMultipart(ctx context.Context, url string, content *multipart.Content, headers *Headers) (*Response[int], error) {
	return PostMultipart(c, ctx, url, StatusCode(), content, headers)
}

// Put puts body. The response content is the status code.
func (c *Client) Put(ctx context.Context, url string, body io.Reader, headers *Headers) (*Response[int], error) {
	return Put(c, ctx, url, StatusCode(), body, headers)
}

// PutForm puts form. The response content is the status code.
func (c *Client) PutForm(ctx context.Context, url string, form *Form, headers *Headers) (*Response[int], error) {
	return PutForm(c, ctx, url, StatusCode(), form, headers)
}

// Delete deletes url. The response content is the status code.
func (c *Client) Delete(ctx context.Context, url string, headers *Headers) (*Response[int], error) {
	return Delete(c, ctx, url, StatusCode(), headers)
}

// Head issues a HEAD request. The response content is the status code.
func (c *Client) Head(ctx context.Context, url string, headers *Headers) (*Response[int], error) {
	return Head(c, ctx, url, headers)
}
