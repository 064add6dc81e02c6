package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	HasherBcrypt    = "bcrypt"
	HasherPlaintext = "plaintext"
)

type Config struct {
	Server        ServerConfig        `envconfig:"SERVER"`
	JWT           JWTConfig           `envconfig:"JWT"`
	Auth          AuthConfig          `envconfig:"AUTH"`
	Catalog       CatalogConfig       `envconfig:"CATALOG"`
	Redis         RedisConfig         `envconfig:"REDIS"`
	Observability ObservabilityConfig `envconfig:"OBSERVABILITY"`
	CORS          CORSConfig          `envconfig:"CORS"`
	Log           LogConfig           `envconfig:"LOG"`
	AWS           AWSConfig           `envconfig:"AWS"`
}

type AWSConfig struct {
	Region  string `envconfig:"REGION" default:"ap-northeast-2"`
	Profile string `envconfig:"PROFILE" default:""`
}

type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"5000"`
	Environment  string        `envconfig:"ENVIRONMENT" default:"development"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
}

// JWTConfig holds the session token settings. Exactly one of Secret or
// SecretName must be provided; the key is never compiled in.
type JWTConfig struct {
	Secret     string        `envconfig:"SECRET"`
	SecretName string        `envconfig:"SECRET_NAME"` // AWS Secrets Manager secret holding the signing key
	TTL        time.Duration `envconfig:"TTL" default:"1h"`
	Issuer     string        `envconfig:"ISSUER" default:"catalog-api"`
}

type AuthConfig struct {
	PasswordHasher string `envconfig:"PASSWORD_HASHER" default:"bcrypt"`
	BcryptCost     int    `envconfig:"BCRYPT_COST" default:"10"`
}

type CatalogConfig struct {
	UpstreamURL     string        `envconfig:"UPSTREAM_URL" default:"http://localhost:5000/books"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"3s"`
	SeedFile        string        `envconfig:"SEED_FILE" default:""`
	BreakerFailures int           `envconfig:"BREAKER_FAILURES" default:"5"`
	BreakerReset    time.Duration `envconfig:"BREAKER_RESET" default:"10s"`
}

type RedisConfig struct {
	Enabled        bool          `envconfig:"ENABLED" default:"false"`
	Address        string        `envconfig:"ADDRESS" default:"localhost:6379"`
	Password       string        `envconfig:"PASSWORD" default:""`
	Database       int           `envconfig:"DATABASE" default:"0"`
	MaxRetries     int           `envconfig:"MAX_RETRIES" default:"3"`
	PoolSize       int           `envconfig:"POOL_SIZE" default:"50"`
	PoolTimeout    time.Duration `envconfig:"POOL_TIMEOUT" default:"4s"`
	TLSEnabled     bool          `envconfig:"TLS_ENABLED" default:"false"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"5m"`
}

type ObservabilityConfig struct {
	MetricsPath    string  `envconfig:"METRICS_PATH" default:"/metrics"`
	OTLPEndpoint   string  `envconfig:"OTLP_ENDPOINT" default:"http://localhost:4318"`
	TracingEnabled bool    `envconfig:"TRACING_ENABLED" default:"false"`
	SampleRate     float64 `envconfig:"SAMPLE_RATE" default:"0.1"`
}

type CORSConfig struct {
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"*"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", cfg.Server.Port)
	}

	if cfg.JWT.Secret == "" && cfg.JWT.SecretName == "" {
		return fmt.Errorf("one of JWT_SECRET or JWT_SECRET_NAME is required")
	}
	if cfg.JWT.Secret != "" && cfg.JWT.SecretName != "" {
		return fmt.Errorf("JWT_SECRET and JWT_SECRET_NAME are mutually exclusive")
	}
	if cfg.JWT.TTL <= 0 {
		return fmt.Errorf("invalid token ttl: %s", cfg.JWT.TTL)
	}

	switch cfg.Auth.PasswordHasher {
	case HasherBcrypt, HasherPlaintext:
	default:
		return fmt.Errorf("unknown password hasher: %s", cfg.Auth.PasswordHasher)
	}

	if cfg.Catalog.UpstreamTimeout <= 0 {
		return fmt.Errorf("invalid catalog upstream timeout: %s", cfg.Catalog.UpstreamTimeout)
	}

	if cfg.Observability.SampleRate < 0 || cfg.Observability.SampleRate > 1 {
		return fmt.Errorf("invalid tracing sample rate: %f", cfg.Observability.SampleRate)
	}

	return nil
}
