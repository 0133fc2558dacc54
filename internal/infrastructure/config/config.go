package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	StaticDir string `env:"STATIC_DIR"`

	Session  SessionConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Secrets  SecretsConfig
}

type SessionConfig struct {
	// SecretKey signs session tokens. The default is a known weak development
	// value; deployments MUST override it.
	SecretKey     string `env:"SESSION_SECRET_KEY, default=dev-secret-key-change-in-production"`
	ExpiryMinutes int    `env:"SESSION_EXPIRY_MINUTES, default=480"`
}

// TTL returns the configured session lifetime.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.ExpiryMinutes) * time.Minute
}

type DatabaseConfig struct {
	URL string `env:"DATABASE_URL, default=postgres://localhost:5432/ferienhaus?sslmode=disable"`
}

type RedisConfig struct {
	// Addr left empty disables the Redis-backed login limiter.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// SecretsConfig holds the clear-text login secrets, one per party plus the
// reserved admin identity. An unset variable means that login is disabled.
type SecretsConfig struct {
	Party1 string `env:"PARTY_1_PASSWORD"`
	Party2 string `env:"PARTY_2_PASSWORD"`
	Party3 string `env:"PARTY_3_PASSWORD"`
	Party4 string `env:"PARTY_4_PASSWORD"`
	Admin  string `env:"ADMIN_PASSWORD"`
}

// PartySecrets returns the per-party secrets keyed by party id.
func (s SecretsConfig) PartySecrets() map[int]string {
	return map[int]string{
		1: s.Party1,
		2: s.Party2,
		3: s.Party3,
		4: s.Party4,
	}
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
