package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Nested structs
// use underscore delimiters (e.g. EMBEDDING_ENDPOINT_BASE_URL).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DBURL is the vector-store database connection URL.
	// Env: DB_URL
	DBURL string `envconfig:"DB_URL"`

	// ReviewsDBURL is the record-store connection URL. When unset the
	// vector-store URL is used for both.
	// Env: REVIEWS_DB_URL
	ReviewsDBURL string `envconfig:"REVIEWS_DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// SearchLimit is the similarity-search result limit.
	// Env: SEARCH_LIMIT (default: 50)
	SearchLimit int `envconfig:"SEARCH_LIMIT" default:"50"`

	// IngestBatchSize is the ingestion batch size.
	// Env: INGEST_BATCH_SIZE (default: 5)
	IngestBatchSize int `envconfig:"INGEST_BATCH_SIZE" default:"5"`

	// IngestBatchDelay is the pause between ingestion batches, in
	// seconds. Env: INGEST_BATCH_DELAY (default: 3)
	IngestBatchDelay float64 `envconfig:"INGEST_BATCH_DELAY" default:"3"`

	// PromptsFile is an optional YAML file overriding the built-in
	// system prompts.
	// Env: PROMPTS_FILE
	PromptsFile string `envconfig:"PROMPTS_FILE"`

	// EmbeddingEndpoint configures the embedding AI service.
	EmbeddingEndpoint EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`

	// ChatEndpoint configures the chat-completion AI service.
	ChatEndpoint EndpointEnv `envconfig:"CHAT_ENDPOINT"`
}

// EndpointEnv holds environment configuration for an AI endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// APIKey is the API key for authentication.
	// Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Deployment is the deployment or model identifier.
	// Env: *_DEPLOYMENT
	Deployment string `envconfig:"DEPLOYMENT"`

	// Timeout is the request timeout in seconds.
	// Env: *_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: *_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: *_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: *_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := AppConfig{
		host:         e.Host,
		port:         e.Port,
		dbURL:        e.DBURL,
		reviewsDBURL: e.ReviewsDBURL,
		logLevel:     e.LogLevel,
		logFormat:    e.LogFormat,
		searchLimit:  e.SearchLimit,
		batchSize:    e.IngestBatchSize,
		batchDelay:   time.Duration(e.IngestBatchDelay * float64(time.Second)),
		promptsFile:  e.PromptsFile,
		embedding:    e.EmbeddingEndpoint.ToEndpoint(),
		chat:         e.ChatEndpoint.ToEndpoint(),
	}

	if cfg.host == "" {
		cfg.host = DefaultHost
	}
	if cfg.port == 0 {
		cfg.port = DefaultPort
	}
	if cfg.logLevel == "" {
		cfg.logLevel = DefaultLogLevel
	}
	if cfg.searchLimit <= 0 {
		cfg.searchLimit = DefaultSearchLimit
	}
	if cfg.batchSize <= 0 {
		cfg.batchSize = DefaultBatchSize
	}
	if cfg.batchDelay <= 0 {
		cfg.batchDelay = DefaultBatchDelay
	}

	return cfg
}

// ToEndpoint converts EndpointEnv to Endpoint.
func (e EndpointEnv) ToEndpoint() Endpoint {
	ep := NewEndpoint(e.BaseURL, e.APIKey, e.Deployment)

	if e.Timeout > 0 {
		ep.timeout = time.Duration(e.Timeout * float64(time.Second))
	}
	if e.MaxRetries > 0 {
		ep.maxRetries = e.MaxRetries
	}
	if e.InitialDelay > 0 {
		ep.initialDelay = time.Duration(e.InitialDelay * float64(time.Second))
	}
	if e.BackoffFactor > 0 {
		ep.backoffFactor = e.BackoffFactor
	}

	return ep
}
