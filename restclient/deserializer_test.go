package restclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/restkit/errors"
)

func TestString_Charset(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		body   string
		want   string
	}{
		{"no header", nil, "plain", "plain"},
		{"utf-8", http.Header{"Content-Type": {"text/plain; charset=utf-8"}}, "café", "café"},
		{"latin-1", http.Header{"Content-Type": {"text/plain; charset=ISO-8859-1"}}, "caf\xe9", "café"},
		{"content-encoding label", http.Header{"Content-Encoding": {"iso-8859-1"}}, "caf\xe9", "café"},
		{"unknown charset", http.Header{"Content-Type": {"text/plain; charset=klingon"}}, "abc", "abc"},
		{"gzip encoding ignored", http.Header{"Content-Encoding": {"gzip"}}, "abc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String().Deserialize(strings.NewReader(tt.body), 200, tt.header)
			if err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Deserialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusCode_IgnoresBody(t *testing.T) {
	got, err := StatusCode().Deserialize(nil, 201, nil)
	if err != nil || got != 201 {
		t.Errorf("Deserialize() = %d, %v", got, err)
	}
}

func TestBytes(t *testing.T) {
	got, err := Bytes().Deserialize(strings.NewReader("\x00\x01"), 200, nil)
	if err != nil || string(got) != "\x00\x01" {
		t.Errorf("Deserialize() = %v, %v", got, err)
	}
}

func TestJSON(t *testing.T) {
	type item struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	got, err := JSON[item]().Deserialize(strings.NewReader(`{"id":7,"name":"x"}`), 200, nil)
	if err != nil || got.ID != 7 || got.Name != "x" {
		t.Errorf("Deserialize() = %+v, %v", got, err)
	}

	empty, err := JSON[item]().Deserialize(strings.NewReader(""), 204, nil)
	if err != nil || empty != (item{}) {
		t.Errorf("empty body = %+v, %v", empty, err)
	}

	if _, err := JSON[item]().Deserialize(strings.NewReader("{"), 200, nil); !errors.IsIO(err) {
		t.Errorf("malformed body error = %v, want IO", err)
	}
}

func TestStream_WrapsPlainReader(t *testing.T) {
	rc, err := Stream().Deserialize(strings.NewReader("abc"), 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(rc)
	if string(data) != "abc" {
		t.Errorf("stream = %q", data)
	}
	if !retainsBody(Stream()) || retainsBody(String()) {
		t.Error("only Stream should retain the body")
	}
}

func TestReadAll_Nil(t *testing.T) {
	b, err := ReadAll(nil)
	if b != nil || err != nil {
		t.Errorf("ReadAll(nil) = %v, %v", b, err)
	}
}

func TestDefaultDeserializer(t *testing.T) {
	if defaultDeserializer[string]() == nil {
		t.Error("string should have a default deserializer")
	}
	if defaultDeserializer[int]() != nil {
		t.Error("int should not have a default deserializer")
	}
}
