// /internal/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken          string        `env:"DISCORD_TOKEN,required,notEmpty"`
	DiscordGuildIDs       []string      `env:"DISCORD_GUILD_IDS"`
	DiscordGuildBlacklist []string      `env:"DISCORD_GUILD_BLACKLIST"`
	InitSlashCommands     bool          `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	UnknownCommandReply   bool          `env:"UNKNOWN_COMMAND_REPLY" envDefault:"true"`
	CommandCooldown       time.Duration `env:"COMMAND_COOLDOWN" envDefault:"2s"`
	StoragePath           string        `env:"STORAGE_PATH" envDefault:"datastore.json"`
	SyncWorkers           int           `env:"SYNC_WORKERS" envDefault:"4"`
	LogLevel              string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile               string        `env:"LOG_FILE"`
	MetricsAddr           string        `env:"METRICS_ADDR"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, falling back to system environment variables")
	}
	return parse(env.Options{})
}

// FromMap parses a config from an explicit environment, ignoring the process one.
func FromMap(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.SyncWorkers < 1 {
		cfg.SyncWorkers = 1
	}
	return &cfg, nil
}
