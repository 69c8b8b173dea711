package restclient

import (
	"time"

	"github.com/kbukum/restkit/config"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/validation"
	"github.com/kbukum/restkit/version"
)

const (
	defaultName    = "restclient"
	defaultTimeout = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	// Name identifies the client in logs. Defaults to "restclient".
	Name string `yaml:"name" mapstructure:"name"`

	// Timeout bounds each exchange including the body read. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is sent with every request. Defaults to "restkit/<version>".
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Headers are sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// ErrorPolicy selects the error handler: none, all or 5xx.
	ErrorPolicy string `yaml:"error_policy" mapstructure:"error_policy" validate:"oneof=none all 5xx"`

	TLS     TLSConfig     `yaml:"tls" mapstructure:"tls"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Debug   DebugConfig   `yaml:"debug" mapstructure:"debug"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
	if c.ErrorPolicy == "" {
		c.ErrorPolicy = ErrorPolicyNone
	}
	if c.Debug.Enabled && c.Debug.Output == "" {
		c.Debug.Output = "stderr"
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return c.TLS.Validate()
}

// LoadConfig reads the client configuration for serviceName from config
// files and the environment, then applies defaults and validates it.
func LoadConfig(serviceName string, opts ...config.LoaderOption) (*Config, error) {
	var cfg Config
	if err := config.Load(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
