package testutil_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/kbukum/restkit/testutil"
)

func TestServer_RecordsRequests(t *testing.T) {
	srv := testutil.NewServer(t)

	resp, err := http.Get(srv.URL("/text?x=1"))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != testutil.TextBody {
		t.Errorf("body = %q", body)
	}

	last, ok := srv.LastRequest()
	if !ok || last.Method != http.MethodGet || last.Path != "/text" || last.Query != "x=1" {
		t.Errorf("LastRequest() = %+v, %v", last, ok)
	}

	srv.Reset()
	if len(srv.Requests()) != 0 {
		t.Error("Reset() should clear requests")
	}
}

func TestServer_Status(t *testing.T) {
	srv := testutil.NewServer(t)

	resp, err := http.Get(srv.URL("/status/418"))
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != 418 {
		t.Errorf("status = %d, want 418", resp.StatusCode)
	}
}

func TestServer_StopIsIdempotent(t *testing.T) {
	srv := testutil.New()
	if srv.BaseURL() != "" {
		t.Error("BaseURL() before Start should be empty")
	}
	srv.Start()
	if srv.BaseURL() == "" {
		t.Fatal("BaseURL() after Start is empty")
	}
	srv.Stop()
	srv.Stop()
}
