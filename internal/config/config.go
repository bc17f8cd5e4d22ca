package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/anystockai/tracker/internal/core"
	"github.com/spf13/viper"
)

// DefaultBackendURL is used when neither the config file nor the
// environment names a backend.
const DefaultBackendURL = "http://localhost:8000"

// Environment variables that override the backend base URL, in order of
// precedence.
var BackendURLEnv = []string{"TRACKER_BACKEND_URL", "BACKEND_URL"}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Prices  PricesConfig  `mapstructure:"prices"`
	Stream  StreamConfig  `mapstructure:"stream"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Archive ArchiveConfig `mapstructure:"archive"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

// BackendConfig points at the signal backend.
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PricesConfig selects where price bars come from: the backend's history
// endpoint or Yahoo directly.
type PricesConfig struct {
	Source string `mapstructure:"source"` // "backend" or "yahoo"
}

// StreamConfig holds push-channel settings.
type StreamConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ArchiveConfig selects the export target.
type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// Load reads configuration from file on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ApplyEnv()
	return &cfg, nil
}

// Defaults returns a config with sensible defaults and the environment
// backend override applied.
func Defaults() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 3000,
		},
		Backend: BackendConfig{
			URL:     DefaultBackendURL,
			Timeout: 15 * time.Second,
		},
		Prices: PricesConfig{
			Source: "backend",
		},
		Stream: StreamConfig{
			Enabled:          true,
			HandshakeTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "./exports",
		},
	}
	cfg.ApplyEnv()
	return cfg
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("backend.url", DefaultBackendURL)
	v.SetDefault("backend.timeout", d.Backend.Timeout)
	v.SetDefault("prices.source", d.Prices.Source)
	v.SetDefault("stream.enabled", d.Stream.Enabled)
	v.SetDefault("stream.handshake_timeout", d.Stream.HandshakeTimeout)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("archive.type", d.Archive.Type)
	v.SetDefault("archive.path", d.Archive.Path)
}

// ApplyEnv overrides the backend URL from the environment.
func (c *Config) ApplyEnv() {
	for _, key := range BackendURLEnv {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			c.Backend.URL = val
			return
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Backend.URL == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("backend url required"))
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("backend url must be an absolute http(s) url, got %q", c.Backend.URL))
	}
	if c.Backend.Timeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("backend timeout cannot be negative, got %s", c.Backend.Timeout))
	}

	switch c.Prices.Source {
	case "", "backend", "yahoo":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("prices source must be backend or yahoo, got %q", c.Prices.Source))
	}

	switch c.Archive.Type {
	case "", "localfs":
	case "s3":
		if c.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("archive type must be localfs or s3, got %q", c.Archive.Type))
	}

	return nil
}
