package restclient

import (
	"context"
	"net"
	"testing"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/testutil"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(nil, append([]Option{WithLogger(logger.Nop())}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func newTestServer(t *testing.T) *testutil.Server {
	t.Helper()
	return testutil.NewServer(t)
}

// deadURL returns a URL on a port nothing listens on.
func deadURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return "http://" + addr + "/text"
}

type echoResult struct {
	Method        string              `json:"method"`
	Query         string              `json:"query"`
	Headers       map[string][]string `json:"headers"`
	Body          string              `json:"body"`
	ContentLength int64               `json:"content_length"`
}

var bg = context.Background()

func loggingDiscard() logger.Config {
	return logger.Config{Level: "disabled"}
}
