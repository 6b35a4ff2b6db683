// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Default configuration values.
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8080
	DefaultLogLevel      = "INFO"
	DefaultSearchLimit   = 50
	DefaultNaiveLimit    = 10
	DefaultIngestLimit   = 5000
	DefaultBatchSize     = 5
	DefaultBatchDelay    = 3 * time.Second
	DefaultTimeout       = 60 * time.Second
	DefaultMaxRetries    = 5
	DefaultInitialDelay  = 2 * time.Second
	DefaultBackoffFactor = 2.0
)

// Configuration error sentinels.
var (
	// ErrEmbeddingNotConfigured indicates the embedding endpoint is
	// missing. There is no fallback for embedding generation, so this
	// is fatal for ingestion and retrieval.
	ErrEmbeddingNotConfigured = errors.New("embedding endpoint not configured")

	// ErrDBURLRequired indicates no database URL was provided.
	ErrDBURLRequired = errors.New("database URL required")

	// ErrChatNotConfigured indicates the chat endpoint is missing.
	// Search still works without one; answer composition does not.
	ErrChatNotConfigured = errors.New("chat endpoint not configured")
)

// Endpoint configures one hosted AI service. The embedding and chat
// services each carry an independent Endpoint.
type Endpoint struct {
	baseURL       string
	apiKey        string
	deployment    string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// NewEndpoint creates an Endpoint with defaults applied.
func NewEndpoint(baseURL, apiKey, deployment string) Endpoint {
	return Endpoint{
		baseURL:       baseURL,
		apiKey:        apiKey,
		deployment:    deployment,
		timeout:       DefaultTimeout,
		maxRetries:    DefaultMaxRetries,
		initialDelay:  DefaultInitialDelay,
		backoffFactor: DefaultBackoffFactor,
	}
}

// BaseURL returns the service base URL.
func (e Endpoint) BaseURL() string { return e.baseURL }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Deployment returns the deployment or model identifier.
func (e Endpoint) Deployment() string { return e.deployment }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// InitialDelay returns the initial retry delay.
func (e Endpoint) InitialDelay() time.Duration { return e.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (e Endpoint) BackoffFactor() float64 { return e.backoffFactor }

// IsConfigured reports whether the endpoint carries enough to make a
// call: a base URL, an API key, and a deployment name.
func (e Endpoint) IsConfigured() bool {
	return e.baseURL != "" && e.apiKey != "" && e.deployment != ""
}

// AppConfig is the root application configuration, constructed once at
// startup and passed by reference into each component.
type AppConfig struct {
	host         string
	port         int
	dbURL        string
	reviewsDBURL string
	logLevel     string
	logFormat    string
	searchLimit  int
	batchSize    int
	batchDelay   time.Duration
	promptsFile  string
	embedding    Endpoint
	chat         Endpoint
}

// Host returns the HTTP server bind host.
func (c AppConfig) Host() string { return c.host }

// Port returns the HTTP server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the HTTP listen address.
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// DBURL returns the vector-store connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// ReviewsDBURL returns the record-store connection URL. Defaults to
// DBURL when not set separately.
func (c AppConfig) ReviewsDBURL() string {
	if c.reviewsDBURL != "" {
		return c.reviewsDBURL
	}
	return c.dbURL
}

// LogLevel returns the configured log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the configured log format (pretty or json).
func (c AppConfig) LogFormat() string { return c.logFormat }

// SearchLimit returns the similarity-search result limit.
func (c AppConfig) SearchLimit() int { return c.searchLimit }

// BatchSize returns the ingestion batch size.
func (c AppConfig) BatchSize() int { return c.batchSize }

// BatchDelay returns the fixed pause between ingestion batches.
func (c AppConfig) BatchDelay() time.Duration { return c.batchDelay }

// PromptsFile returns the optional YAML prompt-overrides path.
func (c AppConfig) PromptsFile() string { return c.promptsFile }

// EmbeddingEndpoint returns the embedding service endpoint.
func (c AppConfig) EmbeddingEndpoint() Endpoint { return c.embedding }

// ChatEndpoint returns the chat-completion service endpoint. May be
// unconfigured: the query rewriter then degrades to pass-through.
func (c AppConfig) ChatEndpoint() Endpoint { return c.chat }

// Validate checks the configuration needed by the core pipeline. The
// chat endpoint is not required: queries pass through unrewritten
// without one.
func (c AppConfig) Validate() error {
	if c.dbURL == "" {
		return ErrDBURLRequired
	}
	if !c.embedding.IsConfigured() {
		return ErrEmbeddingNotConfigured
	}
	return nil
}
