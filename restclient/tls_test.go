package restclient

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/restkit/errors"
)

func TestTLSConfig_Build(t *testing.T) {
	var none *TLSConfig
	if cfg, err := none.Build(); cfg != nil || err != nil {
		t.Errorf("nil Build() = %v, %v", cfg, err)
	}
	if cfg, err := (&TLSConfig{}).Build(); cfg != nil || err != nil {
		t.Errorf("empty Build() = %v, %v", cfg, err)
	}

	cfg, err := (&TLSConfig{SkipVerify: true, ServerName: "api.local"}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.InsecureSkipVerify || cfg.ServerName != "api.local" || cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("Build() = %+v", cfg)
	}
}

func TestTLSConfig_BadCA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (&TLSConfig{CAFile: path}).Build(); !errors.IsInvalidArgument(err) {
		t.Errorf("Build() error = %v, want invalid argument", err)
	}
	if _, err := (&TLSConfig{CAFile: path + ".missing"}).Build(); !errors.IsIO(err) {
		t.Errorf("Build() error = %v, want IO", err)
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	if err := (&TLSConfig{CertFile: "cert.pem"}).Validate(); !errors.IsInvalidArgument(err) {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (&TLSConfig{}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
