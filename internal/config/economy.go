package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type EconomyConfig struct {
	DefaultCurrency string `env:"ECONOMY_CURRENCY" envDefault:"crowns"`

	DailyReward int64         `env:"DAILY_REWARD" envDefault:"50"`
	DailyPeriod time.Duration `env:"DAILY_PERIOD" envDefault:"24h"`

	GuessSecret        int   `env:"GUESS_SECRET" envDefault:"7"`
	GuessPlayReward    int64 `env:"GUESS_PLAY_REWARD" envDefault:"100"`
	GuessCorrectReward int64 `env:"GUESS_CORRECT_REWARD" envDefault:"1000"`

	// Credit granted per recorded chat message.
	ActivityReward int64 `env:"ACTIVITY_REWARD" envDefault:"1"`
}

func LoadEconomy() (EconomyConfig, error) {
	var cfg EconomyConfig
	err := env.Parse(&cfg)
	return cfg, err
}
