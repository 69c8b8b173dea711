package urlbuilder

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/kbukum/restkit/errors"
)

func TestBuilder_String_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		want string
	}{
		{
			"chained appends",
			New("yahoo.com").Append("a").Append("mystore/").Append("toodles?index=5"),
			"http://yahoo.com/a/mystore/toodles?index=5",
		},
		{
			"messy segments with https",
			New("myhost.com", "first/", "//second", "third/forth/fith", "mypage.asp?i=1&b=2&c=3").SetHTTPS(true),
			"https://myhost.com/first/second/third/forth/fith/mypage.asp?i=1&b=2&c=3",
		},
		{
			"embedded http scheme",
			New("http://example.com/api/v1"),
			"http://example.com/api/v1",
		},
		{
			"embedded https scheme mixed case",
			New("HTTPS://x"),
			"https://x",
		},
		{
			"https marker without host",
			New("hTtPs:", "host", "path"),
			"https://host/path",
		},
		{
			"blank and slash-only segments",
			New("  host  ", "", "   ", "/", "//", "/leading"),
			"http://host/leading",
		},
		{
			"no segments",
			New(),
			"http://",
		},
		{
			"no scheme",
			New("host", "a").EmitScheme(false),
			"host/a",
		},
		{
			"no domain",
			New("host", "a", "b").EmitDomain(false),
			"http:///a/b",
		},
		{
			"no scheme no domain",
			New("host", "a", "b").EmitScheme(false).EmitDomain(false),
			"/a/b",
		},
		{
			"domain only hidden",
			New("host").EmitScheme(false).EmitDomain(false),
			"/",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.b.String(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuilder_AddParameter(t *testing.T) {
	b := New("host", "search").AddParameter("a", "1").AddParameter("b", "2")
	if got := b.String(); got != "http://host/search?a=1&b=2" {
		t.Errorf("got %q", got)
	}

	b.AddParameter("a", "3")
	if got := b.String(); got != "http://host/search?a=1&b=2&a=3" {
		t.Errorf("duplicate keys: got %q", got)
	}
}

func TestBuilder_AddParameter_Encoding(t *testing.T) {
	b := New("host").AddParameter("q", "a b&c=d").AddParameter("k/y", "")
	if got := b.String(); got != "http://host?q=a+b%26c%3Dd&k%2Fy=" {
		t.Errorf("got %q", got)
	}
}

func TestBuilder_AddParameter_EmptyKey(t *testing.T) {
	b := New("host").AddParameter("", "v").AddParameter("ok", "1")
	if !errors.IsInvalidArgument(b.Err()) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", b.Err())
	}
	if _, err := b.Build(); err == nil {
		t.Error("expected Build to fail")
	}
	if got := b.String(); got != "http://host?ok=1" {
		t.Errorf("got %q", got)
	}
}

func TestBuilder_Build(t *testing.T) {
	got, err := New("host", "x").SetHTTPS(true).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://host/x" {
		t.Errorf("got %q", got)
	}
}

func TestBuilder_Copy_Independent(t *testing.T) {
	base := New("host", "api").SetHTTPS(true)
	before := base.String()

	branch := base.Copy("users", "42")
	branch.Append("posts").SetHTTPS(false).AddParameter("page", "2")

	if base.String() != before {
		t.Errorf("source changed: %q -> %q", before, base.String())
	}
	if got := branch.String(); got != "http://host/api/users/42/posts?page=2" {
		t.Errorf("branch = %q", got)
	}

	plain := base.Copy()
	if plain.String() != before {
		t.Errorf("Copy() = %q, want %q", plain.String(), before)
	}
}

func TestBuilder_Copy_DropsParametersAndFlags(t *testing.T) {
	base := New("host", "a").AddParameter("k", "v").EmitScheme(false)
	c := base.Copy()
	if got := c.String(); got != "http://host/a" {
		t.Errorf("copy = %q", got)
	}
}

func TestBuilder_Segments(t *testing.T) {
	b := New("host/a/b")
	segs := b.Segments()
	segs[0] = "mutated"
	if b.Segments()[0] != "host" {
		t.Error("Segments must return a copy")
	}
	if b.IsHTTPS() {
		t.Error("expected http")
	}
}

// Random mixes of scheme markers, slashes and blanks always render exactly
// one scheme and never a doubled separator in the path.
func TestBuilder_Normalization_Property(t *testing.T) {
	pieces := []string{"http:", "HTTPS:", "Http://", "hTTps://", "/", "//", " ", "", "a", "b/", "/c", "d//e", " f ", "g/h/"}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		b := New("host")
		n := rng.Intn(8)
		for j := 0; j < n; j++ {
			b.Append(pieces[rng.Intn(len(pieces))])
		}
		got := b.String()

		scheme := "http://"
		if b.IsHTTPS() {
			scheme = "https://"
		}
		if !strings.HasPrefix(got, scheme) {
			t.Fatalf("%q does not start with %q", got, scheme)
		}
		rest := strings.TrimPrefix(got, scheme)
		if strings.Contains(rest, "//") {
			t.Fatalf("doubled separator in %q", got)
		}
		if strings.Contains(strings.ToLower(rest), "http") {
			t.Fatalf("scheme token leaked into path %q", got)
		}
		if strings.HasSuffix(rest, "/") {
			t.Fatalf("trailing separator in %q", got)
		}
	}
}
