package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/abhiram1809/anthropic-adapter/internal/wire"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Default configuration values.
const (
	DefaultConfigLogFormat       = LogFormatText
	DefaultConfigServerHost      = "0.0.0.0"
	DefaultConfigServerPort      = 8000
	DefaultConfigShutdownTimeout = 5 * time.Second
	DefaultConfigUpstreamBaseURL = "https://api.openai.com/v1/chat/completions"
	DefaultConfigTokenizerEncoding = "cl100k_base"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Host string `json:"host" validate:"hostname_rfc1123|ip"`
	Port uint16 `json:"port"`
}

// ShutdownConfig holds shutdown behavior configuration.
type ShutdownConfig struct {
	Timeout time.Duration `json:"timeout"`
}

// UpstreamConfig holds the OpenAI-compatible upstream's address and
// credential. APIKey is the default bearer token; an inbound x-api-key
// header overrides it per request.
type UpstreamConfig struct {
	BaseURL string `json:"base_url" validate:"required,url"`
	APIKey  string `json:"api_key"`
}

// Flavor derives the upstream wire protocol from the base URL, per the
// substring rule: "/v1/responses" routes through Responses, anything else
// (including the default "/v1/chat/completions") through Chat-Completions.
func (u UpstreamConfig) Flavor() wire.Flavor {
	return wire.DeriveFlavor(u.BaseURL)
}

// TokenizerConfig names the BPE vocabulary used for token counting.
type TokenizerConfig struct {
	Encoding string `json:"encoding"`
}

// Config holds the application's configuration.
type Config struct {
	LogLevel  slog.Level      `json:"log_level"`
	LogFormat LogFormat       `json:"log_format" validate:"oneof=text json"`
	Server    ServerConfig    `json:"server"`
	Shutdown  ShutdownConfig  `json:"shutdown"`
	Upstream  UpstreamConfig  `json:"upstream"`
	Tokenizer TokenizerConfig `json:"tokenizer"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultConfigServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultConfigServerPort
	}
	if c.Shutdown.Timeout == 0 {
		c.Shutdown.Timeout = DefaultConfigShutdownTimeout
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultConfigUpstreamBaseURL
	}
	if c.Tokenizer.Encoding == "" {
		c.Tokenizer.Encoding = DefaultConfigTokenizerEncoding
	}
	return nil
}

// Validate validates the configuration using struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
