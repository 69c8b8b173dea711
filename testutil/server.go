package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Fixture payloads.
const (
	TextBody = "hello, world"
	// Latin1Body is "café" encoded as ISO-8859-1.
	Latin1Body = "caf\xe9"
)

// RecordedRequest is a request as the server saw it.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Server is a fixture HTTP server.
type Server struct {
	engine *gin.Engine
	ts     *httptest.Server

	mu       sync.RWMutex
	requests []RecordedRequest
	failures map[string]int
}

// NewServer starts a server and stops it when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := New()
	s.Start()
	t.Cleanup(s.Stop)
	return s
}

// New creates a server with all fixture routes registered. Call Start to
// listen.
func New() *Server {
	s := &Server{
		engine:   gin.New(),
		failures: make(map[string]int),
	}
	s.engine.Use(s.record)
	s.routes()
	return s
}

// Engine returns the gin engine for registering extra routes before Start.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Start begins listening on a loopback port.
func (s *Server) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts == nil {
		s.ts = httptest.NewServer(s.engine)
	}
}

// Stop shuts the server down.
func (s *Server) Stop() {
	s.mu.Lock()
	ts := s.ts
	s.ts = nil
	s.mu.Unlock()
	if ts != nil {
		ts.CloseClientConnections()
		ts.Close()
	}
}

// BaseURL returns the server's base URL, or "" if not started.
func (s *Server) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ts == nil {
		return ""
	}
	return s.ts.URL
}

// URL joins path onto BaseURL.
func (s *Server) URL(path string) string {
	return s.BaseURL() + path
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []RecordedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Reset forgets recorded requests and flaky counters.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.failures = make(map[string]int)
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/text", func(c *gin.Context) {
		c.String(http.StatusOK, TextBody)
	})

	r.GET("/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": "restkit", "version": 1})
	})

	r.Any("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.JSON(http.StatusOK, gin.H{
			"method":         c.Request.Method,
			"query":          c.Request.URL.RawQuery,
			"headers":        c.Request.Header,
			"body":           string(body),
			"content_length": c.Request.ContentLength,
		})
	})

	r.Any("/status/:code", func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil || code < 100 || code > 599 {
			c.String(http.StatusBadRequest, "bad status")
			return
		}
		if c.Request.Method == http.MethodHead || code == http.StatusNoContent || code == http.StatusNotModified {
			c.Status(code)
			return
		}
		c.String(code, "status %d", code)
	})

	r.Any("/form", func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		values := make(map[string]string, len(c.Request.PostForm))
		for k := range c.Request.PostForm {
			values[k] = c.Request.PostForm.Get(k)
		}
		c.JSON(http.StatusOK, values)
	})

	r.POST("/upload", func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		fields := make(map[string]string, len(form.Value))
		for k, v := range form.Value {
			fields[k] = v[0]
		}
		files := make(map[string]gin.H, len(form.File))
		for k, v := range form.File {
			f, err := v[0].Open()
			if err != nil {
				c.String(http.StatusInternalServerError, err.Error())
				return
			}
			data, _ := io.ReadAll(f)
			_ = f.Close()
			files[k] = gin.H{
				"filename":     v[0].Filename,
				"content_type": v[0].Header.Get("Content-Type"),
				"content":      string(data),
			}
		}
		c.JSON(http.StatusOK, gin.H{"fields": fields, "files": files})
	})

	r.GET("/slow", func(c *gin.Context) {
		delay := 2 * time.Second
		if d, err := time.ParseDuration(c.Query("delay")); err == nil {
			delay = d
		}
		select {
		case <-time.After(delay):
			c.String(http.StatusOK, "slow")
		case <-c.Request.Context().Done():
		}
	})

	r.GET("/drip", func(c *gin.Context) {
		c.Header("Content-Type", "text/plain")
		c.Status(http.StatusOK)
		_, _ = c.Writer.WriteString("first chunk\n")
		c.Writer.Flush()
		select {
		case <-time.After(5 * time.Second):
			_, _ = c.Writer.WriteString("second chunk\n")
		case <-c.Request.Context().Done():
		}
	})

	r.GET("/charset", func(c *gin.Context) {
		code := http.StatusOK
		if v, err := strconv.Atoi(c.Query("status")); err == nil {
			code = v
		}
		c.Data(code, "text/plain; charset=iso-8859-1", []byte(Latin1Body))
	})

	r.Any("/flaky/:key/:n", func(c *gin.Context) {
		n, _ := strconv.Atoi(c.Param("n"))
		key := c.Param("key")

		s.mu.Lock()
		seen := s.failures[key]
		s.failures[key] = seen + 1
		s.mu.Unlock()

		if seen < n {
			conn, _, err := c.Writer.Hijack()
			if err == nil {
				_ = conn.Close()
			}
			c.Abort()
			return
		}
		c.String(http.StatusOK, fmt.Sprintf("ok after %d", seen))
	})
}
