// Package config holds the client configuration surface: REST transport,
// resilience policy, and event socket tuning. Values load from environment
// variables with sane defaults, or from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Retry   RetryConfig   `yaml:"retry"`
	Breaker BreakerConfig `yaml:"breaker"`
	Socket  SocketConfig  `yaml:"socket"`
	Logging LogConfig     `yaml:"logging"`
}

// APIConfig holds REST transport configuration.
type APIConfig struct {
	// BaseURL is the Advanced API root, including the version prefix.
	BaseURL string `envconfig:"NINA_BASE_URL" default:"http://localhost:1888/v2/api" yaml:"base_url"`
	// APIKey is sent as the X-API-Key header when non-empty.
	APIKey string `envconfig:"NINA_API_KEY" default:"" yaml:"api_key"`
	// RequestTimeoutSeconds bounds a single HTTP request. Long by default:
	// some remote operations run for multi-minute exposures.
	RequestTimeoutSeconds int `envconfig:"NINA_REQUEST_TIMEOUT" default:"300" yaml:"request_timeout_seconds"`
	// ConnectTimeoutSeconds bounds connection establishment, separately
	// from the per-request timeout.
	ConnectTimeoutSeconds int `envconfig:"NINA_CONNECT_TIMEOUT" default:"10" yaml:"connect_timeout_seconds"`
	// RequestsPerSecond throttles outbound calls. Zero means unlimited.
	RequestsPerSecond float64 `envconfig:"NINA_RPS" default:"0" yaml:"requests_per_second"`
}

// RetryConfig holds retry policy configuration.
type RetryConfig struct {
	MaxAttempts int `envconfig:"NINA_RETRY_ATTEMPTS" default:"3" yaml:"max_attempts"`
	BaseDelayMS int `envconfig:"NINA_RETRY_BASE_DELAY_MS" default:"1000" yaml:"base_delay_ms"`
}

// BreakerConfig holds circuit breaker configuration.
type BreakerConfig struct {
	Enabled          bool `envconfig:"NINA_BREAKER_ENABLED" default:"true" yaml:"enabled"`
	FailureThreshold int  `envconfig:"NINA_BREAKER_THRESHOLD" default:"5" yaml:"failure_threshold"`
	CooldownSeconds  int  `envconfig:"NINA_BREAKER_COOLDOWN" default:"30" yaml:"cooldown_seconds"`
}

// SocketConfig holds event socket configuration.
type SocketConfig struct {
	// BaseURL is the WS root; channel suffixes are appended to it.
	BaseURL string `envconfig:"NINA_WS_BASE_URL" default:"ws://localhost:1888/v2" yaml:"base_url"`
	// KeepAliveSeconds is the ping interval on each channel connection.
	KeepAliveSeconds int `envconfig:"NINA_WS_KEEPALIVE" default:"30" yaml:"keepalive_seconds"`
	// ReceiveBufferBytes sizes the read buffer of each connection.
	ReceiveBufferBytes int `envconfig:"NINA_WS_RECV_BUFFER" default:"8192" yaml:"receive_buffer_bytes"`
	// ReconnectDelaySeconds is the fixed wait before a reconnect attempt.
	ReconnectDelaySeconds int `envconfig:"NINA_WS_RECONNECT_DELAY" default:"5" yaml:"reconnect_delay_seconds"`
	// MaxReconnectAttempts bounds reconnects per channel before giving up.
	MaxReconnectAttempts int `envconfig:"NINA_WS_RECONNECT_ATTEMPTS" default:"5" yaml:"max_reconnect_attempts"`
	// EventQueueSize bounds the per-channel inbound dispatch queue.
	EventQueueSize int `envconfig:"NINA_WS_QUEUE_SIZE" default:"64" yaml:"event_queue_size"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"NINA_LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"NINA_LOG_DEV" default:"false" yaml:"development"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from a YAML file layered over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:               "http://localhost:1888/v2/api",
			RequestTimeoutSeconds: 300,
			ConnectTimeoutSeconds: 10,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelayMS: 1000,
		},
		Breaker: BreakerConfig{
			Enabled:          true,
			FailureThreshold: 5,
			CooldownSeconds:  30,
		},
		Socket: SocketConfig{
			BaseURL:               "ws://localhost:1888/v2",
			KeepAliveSeconds:      30,
			ReceiveBufferBytes:    8192,
			ReconnectDelaySeconds: 5,
			MaxReconnectAttempts:  5,
			EventQueueSize:        64,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate checks the configuration for values the client cannot run with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Breaker.Enabled && c.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("breaker.failure_threshold must be at least 1")
	}
	if c.Socket.EventQueueSize < 1 {
		return fmt.Errorf("socket.event_queue_size must be at least 1")
	}
	return nil
}

// RequestTimeout returns the per-request timeout as a duration.
func (c APIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ConnectTimeout returns the connection timeout as a duration.
func (c APIConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// BaseDelay returns the base retry delay as a duration.
func (c RetryConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMS) * time.Millisecond
}

// Cooldown returns the open-state cooldown as a duration.
func (c BreakerConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// KeepAlive returns the ping interval as a duration.
func (c SocketConfig) KeepAlive() time.Duration {
	return time.Duration(c.KeepAliveSeconds) * time.Second
}

// ReconnectDelay returns the reconnect wait as a duration.
func (c SocketConfig) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelaySeconds) * time.Second
}
