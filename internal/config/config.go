// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"APP_PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV"  envDefault:"development"` // "development", "production", "testing"

	// StoreDriver selects the content store: "postgres" or "memory".
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER"     envDefault:"brandnet"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB"       envDefault:"brandnet"`

	// Valkey (Redis-compatible cache). An empty host disables the page cache.
	ValkeyHost     string        `env:"VALKEY_HOST"     envDefault:"localhost"`
	ValkeyPort     string        `env:"VALKEY_PORT"     envDefault:"6379"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	PageCacheTTL   time.Duration `env:"PAGE_CACHE_TTL"  envDefault:"5m"`

	// S3-compatible object storage for audio files
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION"     envDefault:"fsn1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET"     envDefault:"brandnet-media"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// Speech synthesis
	TTSProvider string `env:"TTS_PROVIDER" envDefault:"elevenlabs"` // "elevenlabs", "openai"
	TTSAPIKey   string `env:"TTS_API_KEY"`
	TTSModel    string `env:"TTS_MODEL"`
	TTSVoice    string `env:"TTS_VOICE"`
	TTSBaseURL  string `env:"TTS_BASE_URL"`

	// Outbound provider endpoints. Empty values use the public APIs.
	ResendURL   string `env:"RESEND_API_URL"`
	SendGridURL string `env:"SENDGRID_API_URL"`
	TwitterURL  string `env:"TWITTER_API_URL"`
	FacebookURL string `env:"FACEBOOK_GRAPH_URL"`

	// EffectsBaseURL, when set, sends the detached publish effects as HTTP
	// calls to another instance instead of running them in-process.
	EffectsBaseURL string        `env:"EFFECTS_BASE_URL"`
	EffectsToken   string        `env:"EFFECTS_TOKEN"`
	EffectsTimeout time.Duration `env:"EFFECTS_TIMEOUT" envDefault:"5m"`

	// APITokenHash is the bcrypt hash of the admin API bearer token.
	APITokenHash string `env:"API_TOKEN_HASH"`

	// RateLimit is the number of API requests allowed per IP per minute.
	RateLimit int `env:"RATE_LIMIT" envDefault:"120"`

	// BrandsFile overrides the embedded brand table.
	BrandsFile string `env:"BRANDS_FILE"`

	// Background effects
	RunnerWorkers        int `env:"RUNNER_WORKERS"        envDefault:"8"`
	RunnerQueueSize      int `env:"RUNNER_QUEUE_SIZE"     envDefault:"256"`
	CrossPostConcurrency int `env:"CROSSPOST_CONCURRENCY" envDefault:"4"`

	// OTELEndpoint enables trace export over OTLP/HTTP.
	OTELEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`
}

// LoadDotEnv reads KEY=value pairs from the given files (".env" when none
// are given) into the process environment. Variables that are already set
// win, and a missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.StoreDriver {
	case StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.StoreDriver)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.APITokenHash == "" {
			return nil, fmt.Errorf("API_TOKEN_HASH must be set in production")
		}
		if cfg.StoreDriver == StoreMemory {
			return nil, fmt.Errorf("STORE_DRIVER=memory is not allowed in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
