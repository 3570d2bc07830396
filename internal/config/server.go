package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type ServerConfig struct {
	Store       string `env:"LEDGER_STORE" envDefault:"postgres"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":3000"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"web"`

	SeedPlayers   bool `env:"SEED_PLAYERS" envDefault:"true"`
	AllowNegative bool `env:"LEDGER_ALLOW_NEGATIVE" envDefault:"true"`

	CORSOrigins     []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	UpdateRateLimit int      `env:"UPDATE_RATE_LIMIT" envDefault:"20"`
	UpdateRateBurst int      `env:"UPDATE_RATE_BURST" envDefault:"40"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"balance-events"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	switch cfg.Store {
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return cfg, errors.New("POSTGRES_DSN is required when LEDGER_STORE=postgres")
		}
	case StoreMemory:
	default:
		return cfg, errors.New("LEDGER_STORE must be postgres or memory")
	}
	return cfg, nil
}
