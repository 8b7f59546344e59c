package main

import (
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"forge.capytal.company/capytal/slashkit/bot"
	"forge.capytal.company/capytal/slashkit/builtin"
	"forge.capytal.company/capytal/slashkit/commands"
	"forge.capytal.company/capytal/slashkit/config"
	"forge.capytal.company/capytal/slashkit/logging"

	dgo "github.com/bwmarrin/discordgo"
	_ "github.com/tursodatabase/go-libsql"
)

var configPath = flag.String("config", "", "Path to a TOML configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		slog.Error("Failed to set up logging", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Bot stopped with an error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := sql.Open("libsql", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", slog.String("error", err.Error()))
		}
	}()

	registry := commands.NewRegistry()
	components := commands.NewComponents(logger)

	b, err := bot.New(cfg, registry, components, db, logger)
	if err != nil {
		return err
	}

	err = builtin.Register(registry, components, builtin.Deps{
		Reports:   b.Store(),
		Syncer:    b,
		StartedAt: b.StartedAt,
	})
	if err != nil {
		return err
	}
	logger.Debug("Registered commands.", slog.String("registry", registry.String()))

	if err := b.Start(); err != nil {
		return err
	}
	logger.Info("Bot session opened.")
	defer func() {
		if err := b.Stop(); err != nil {
			logger.Error("Failed to close bot session", slog.String("error", err.Error()))
			return
		}
		logger.Info("Bot session closed.")
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	return nil
}

// newLogger writes to stderr and, when a webhook URL is configured, also
// posts records at or above the webhook level to Discord.
func newLogger(cfg config.LogConfig) (*slog.Logger, error) {
	// Webhook executions are not authenticated; the session needs no token.
	s, err := dgo.New("")
	if err != nil {
		return nil, err
	}

	return logging.New(os.Stderr, s, logging.Options{
		Level:        cfg.Level,
		Format:       cfg.Format,
		WebhookURL:   cfg.WebhookURL,
		WebhookLevel: cfg.WebhookLevel,
	})
}
