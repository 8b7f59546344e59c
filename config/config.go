// Package config loads the bot configuration from an optional TOML file,
// a .env file and the process environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"forge.capytal.company/capytal/slashkit/logging"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DefaultDatabaseURL = "file:./slashkit.db"
	DefaultPublishRate = 1.0
)

type Config struct {
	Token       string    `toml:"token" env:"DISCORD_TOKEN"`
	GuildIDs    []string  `toml:"guild_ids" env:"DISCORD_GUILD_IDS" envSeparator:","`
	DatabaseURL string    `toml:"database_url" env:"DATABASE_URL"`
	PublishRate float64   `toml:"publish_rate" env:"PUBLISH_RATE"`
	Log         LogConfig `toml:"log"`
}

type LogConfig struct {
	Level        string `toml:"level" env:"LOG_LEVEL"`
	Format       string `toml:"format" env:"LOG_FORMAT"`
	WebhookURL   string `toml:"webhook_url" env:"LOG_WEBHOOK_URL"`
	WebhookLevel string `toml:"webhook_level" env:"LOG_WEBHOOK_LEVEL"`
}

// Load reads the TOML file at path, if path is not empty, then the given
// .env files (".env" when none is given, skipped if missing), then the
// environment. Variables already set in the environment are never replaced
// by .env values.
func Load(path string, envFiles ...string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = DefaultDatabaseURL
	}
	if cfg.PublishRate == 0 {
		cfg.PublishRate = DefaultPublishRate
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.WebhookLevel == "" {
		cfg.Log.WebhookLevel = "error"
	}

	ids := make([]string, 0, len(cfg.GuildIDs))
	for _, id := range cfg.GuildIDs {
		if id = strings.TrimSpace(id); id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	cfg.GuildIDs = ids
}

func (cfg *Config) Validate() error {
	var errs []error

	if cfg.Token == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if cfg.PublishRate < 0 {
		errs = append(errs, fmt.Errorf("PUBLISH_RATE %v must be positive", cfg.PublishRate))
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is invalid: %w", cfg.Log.Level, err))
	}
	if _, err := logging.ParseLevel(cfg.Log.WebhookLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_WEBHOOK_LEVEL %q is invalid: %w", cfg.Log.WebhookLevel, err))
	}
	if !slices.Contains([]string{"text", "json", "logfmt"}, cfg.Log.Format) {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is invalid (must be text, json or logfmt)", cfg.Log.Format))
	}
	if cfg.Log.WebhookURL != "" {
		if _, _, err := logging.ParseWebhookURL(cfg.Log.WebhookURL); err != nil {
			errs = append(errs, fmt.Errorf("LOG_WEBHOOK_URL: %w", err))
		}
	}

	return errors.Join(errs...)
}

// BotToken returns the token with the "Bot " prefix discordgo expects.
func (cfg *Config) BotToken() string {
	if strings.HasPrefix(cfg.Token, "Bot ") {
		return cfg.Token
	}
	return "Bot " + cfg.Token
}
