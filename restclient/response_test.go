package restclient

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/restkit/errors"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/testutil"
)

func TestResponse_Code_Idempotent(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := Get(c, bg, srv.URL("/text"), String(), nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.State() != StatePending {
		t.Errorf("State() = %v, want pending", resp.State())
	}
	for i := 0; i < 3; i++ {
		code, err := resp.Code()
		if err != nil || code != 200 {
			t.Fatalf("Code() #%d = %d, %v", i, code, err)
		}
	}
	if resp.State() != StateCodeResolved {
		t.Errorf("State() = %v, want code_resolved", resp.State())
	}
	if n := len(srv.Requests()); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}
}

func TestResponse_GET_IsLazy(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := Get(c, bg, srv.URL("/text"), String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Fatalf("server saw %d requests before Code, want 0", n)
	}
	if _, err := resp.Code(); err != nil {
		t.Fatal(err)
	}
	if n := len(srv.Requests()); n != 1 {
		t.Errorf("server saw %d requests after Code, want 1", n)
	}
}

func TestResponse_Content_DefaultDeserializerMatchesString(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	implicit, err := Call[string](c, bg, MethodGet, srv.URL("/text"), nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := implicit.Content()
	if err != nil {
		t.Fatalf("Content() error = %v", err)
	}

	want, err := GetContent(c, bg, srv.URL("/text"), String())
	if err != nil {
		t.Fatal(err)
	}
	if got != want || got != testutil.TextBody {
		t.Errorf("implicit = %q, explicit = %q", got, want)
	}
}

func TestResponse_Content_Cached(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := Get(c, bg, srv.URL("/json"), JSON[map[string]any](), nil)
	if err != nil {
		t.Fatal(err)
	}
	first, err := resp.Content()
	if err != nil {
		t.Fatalf("Content() error = %v", err)
	}
	second, err := resp.Content()
	if err != nil {
		t.Fatalf("second Content() error = %v", err)
	}
	if first["name"] != "restkit" || second["name"] != "restkit" {
		t.Errorf("Content() = %v, %v", first, second)
	}
	if !resp.IsDone() || resp.State() != StateContentMaterialized {
		t.Errorf("State() = %v, want content_materialized", resp.State())
	}
	if resp.Cancel() {
		t.Error("Cancel() after materialization should return false")
	}
}

func TestResponse_ErrorStatus_Absorbed(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := Get(c, bg, srv.URL("/status/404"), String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.IsError() {
		t.Error("IsError() = false for 404")
	}
	body, err := resp.Content()
	if err != nil {
		t.Fatalf("Content() error = %v", err)
	}
	if body != "status 404" {
		t.Errorf("Content() = %q, want error body", body)
	}

	bare, err := Call[string](c, bg, MethodGet, srv.URL("/status/500"), nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := bare.Content()
	if err != nil || v != "" {
		t.Errorf("Content() without deserializer = %q, %v; want zero value", v, err)
	}
}

func TestResponse_ErrorHandlers(t *testing.T) {
	srv := newTestServer(t)
	base := newTestClient(t)

	tests := []struct {
		name    string
		handler ErrorHandler
		path    string
		wantErr bool
	}{
		{"5xx ignores 404", Throw5xxErrors(), "/status/404", false},
		{"5xx raises 503", Throw5xxErrors(), "/status/503", true},
		{"all raises 404", ThrowAllErrors(), "/status/404", true},
		{"all raises 503", ThrowAllErrors(), "/status/503", true},
		{"all passes 200", ThrowAllErrors(), "/status/200", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base.Derive(WithErrorHandler(tt.handler))
			resp, err := Get(c, bg, srv.URL(tt.path), String(), nil)
			if err != nil {
				t.Fatal(err)
			}
			_, err = resp.Content()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Content() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.IsHTTP(err) {
				t.Errorf("error %v is not an HTTP error", err)
			}
		})
	}
}

func TestResponse_ErrorHandler_ReceivesServerMessage(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, WithErrorHandler(ThrowAllErrors()))

	resp, err := Get(c, bg, srv.URL("/status/503"), String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = resp.Content()
	if errors.StatusCode(err) != 503 {
		t.Fatalf("StatusCode(err) = %d, want 503", errors.StatusCode(err))
	}
	want := "HTTP_ERROR (HTTP 503): HTTP Error 503 was returned from the server: status 503"
	if err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}
	if !resp.IsDone() {
		t.Error("response should be done after handler failure")
	}
}

func TestResponse_ErrorMessage_DecodesCharset(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := Get(c, bg, srv.URL("/charset?status=500"), String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.ErrorMessage(); got != "café" {
		t.Errorf("ErrorMessage() = %q, want %q", got, "café")
	}
	// The error body is read once and shared with the deserializer.
	if got, err := resp.Content(); err != nil || got != "café" {
		t.Errorf("Content() = %q, %v", got, err)
	}
}

func TestResponse_ErrorMessage_Success(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := Get(c, bg, srv.URL("/text"), String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.ErrorMessage(); got != "OK" {
		t.Errorf("ErrorMessage() = %q, want status reason", got)
	}
}

func TestResponse_Content_DecodesCharset(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	got, err := c.Get(bg, srv.URL("/charset"))
	if err != nil || got != "café" {
		t.Errorf("Get() = %q, %v", got, err)
	}
}

func TestResponse_StatusCodeDeserializer_OnError(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := c.Delete(bg, srv.URL("/status/409"), nil)
	if err != nil {
		t.Fatal(err)
	}
	code, err := resp.Content()
	if err != nil || code != 409 {
		t.Errorf("Content() = %d, %v; want 409", code, err)
	}
}

func TestResponse_Cancel_BeforeAccess(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := Get(c, bg, srv.URL("/text"), String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Cancel() {
		t.Fatal("Cancel() = false")
	}
	if resp.Cancel() {
		t.Error("second Cancel() should return false")
	}
	if !resp.IsCancelled() {
		t.Error("IsCancelled() = false")
	}
	if _, err := resp.Code(); !errors.IsCancelled(err) {
		t.Errorf("Code() error = %v, want cancelled", err)
	}
	if _, err := resp.Content(); !errors.IsCancelled(err) {
		t.Errorf("Content() error = %v, want cancelled", err)
	}
	if !resp.IsError() {
		t.Error("IsError() should be true when the code cannot be read")
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestResponse_Cancel_AfterCode(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := Get(c, bg, srv.URL("/text"), String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if code, err := resp.Code(); err != nil || code != 200 {
		t.Fatalf("Code() = %d, %v", code, err)
	}
	if !resp.Cancel() {
		t.Fatal("Cancel() = false")
	}
	if code, err := resp.Code(); err != nil || code != 200 {
		t.Errorf("Code() after cancel = %d, %v; want cached 200", code, err)
	}
	if _, err := resp.Content(); !errors.IsCancelled(err) {
		t.Errorf("Content() error = %v, want cancelled", err)
	}
}

func TestResponse_Cancel_InterruptsRead(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := Get(c, bg, srv.URL("/drip"), String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := resp.Code(); err != nil {
		t.Fatalf("Code() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := resp.Content()
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	resp.Cancel()

	select {
	case err := <-done:
		if !errors.IsCancelled(err) {
			t.Errorf("Content() error = %v, want cancelled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Content() did not return after Cancel")
	}
}

func TestResponse_Stream_KeepsBodyOpen(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)

	resp, err := Get(c, bg, srv.URL("/text"), Stream(), nil)
	if err != nil {
		t.Fatal(err)
	}
	rc, err := resp.Content()
	if err != nil {
		t.Fatalf("Content() error = %v", err)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if string(data) != testutil.TextBody {
		t.Errorf("stream = %q", data)
	}
	if err := rc.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestResponse_TransportError(t *testing.T) {
	c := newTestClient(t)

	resp, err := Get(c, bg, deadURL(t), String(), nil)
	if err != nil {
		t.Fatalf("Get() error = %v, GET should defer the round trip", err)
	}
	if _, err := resp.Code(); !errors.IsTransport(err) {
		t.Errorf("Code() error = %v, want transport", err)
	}
	if !resp.IsError() {
		t.Error("IsError() = false")
	}
	if _, err := resp.Content(); !errors.IsTransport(err) {
		t.Errorf("Content() error = %v, want transport", err)
	}
	if resp.ErrorMessage() != "" {
		t.Errorf("ErrorMessage() = %q, want empty", resp.ErrorMessage())
	}
}

func TestResponse_Content_LogsRequestFields(t *testing.T) {
	srv := newTestServer(t)
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	c := newTestClient(t, WithLogger(log))

	url := srv.URL("/status/404")
	resp, err := Get(c, bg, url, String(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := resp.Content(); err != nil {
		t.Fatal(err)
	}

	var entry map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		if json.Unmarshal([]byte(line), &m) == nil && m["message"] == "response materialized" {
			entry = m
		}
	}
	if entry == nil {
		t.Fatalf("no materialized entry in %q", buf.String())
	}
	if entry[logger.FieldMethod] != "GET" || entry[logger.FieldURL] != url {
		t.Errorf("entry = %v", entry)
	}
	if entry[logger.FieldStatusCode] != float64(404) {
		t.Errorf("status_code = %v", entry[logger.FieldStatusCode])
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StatePending:             "pending",
		StateCodeResolved:        "code_resolved",
		StateContentMaterialized: "content_materialized",
		StateCancelled:           "cancelled",
		State(42):                "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
