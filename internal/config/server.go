package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// StatePath is where the file backend keeps the ledger snapshot.
	// Ignored when EconomyPGDSN selects the Postgres backend.
	StatePath    string `env:"ECONOMY_STATE_PATH" envDefault:"crowns.json"`
	EconomyPGDSN string `env:"ECONOMY_PG_DSN"`

	// FlushSpec is the cron spec for retrying snapshot writes that failed.
	FlushSpec string `env:"ECONOMY_FLUSH_SPEC" envDefault:"* * * * *"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
