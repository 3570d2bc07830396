package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ClientConfig struct {
	APIURL      string        `env:"API_URL" envDefault:"http://localhost:3000"`
	PlayerID    string        `env:"PLAYER_ID" envDefault:"player-1"`
	HTTPTimeout time.Duration `env:"LEDGER_HTTP_TIMEOUT" envDefault:"5s"`
	StateDir    string        `env:"STATE_DIR" envDefault:".market-state"`

	BaseCost   float64 `env:"BASE_PUBLICATION_COST" envDefault:"50"`
	CostPerDay float64 `env:"COST_PER_DAY" envDefault:"10"`
	MaxDays    int     `env:"MAX_AD_DAYS" envDefault:"30"`

	DefaultTimeScale int           `env:"DEFAULT_TIME_SCALE" envDefault:"60"`
	TickInterval     time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	DefaultTheme     string        `env:"DEFAULT_THEME" envDefault:"dark-neon"`

	RefundOnPublishFailure bool `env:"REFUND_ON_PUBLISH_FAILURE" envDefault:"true"`
}

func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	err := env.Parse(&cfg)
	return cfg, err
}
