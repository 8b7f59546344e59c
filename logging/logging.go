// Package logging builds the slog logger used by the bot: a console
// handler and a Discord webhook sink, fanned out with slog-multi.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	slogmulti "github.com/samber/slog-multi"
)

type Options struct {
	Level        string
	Format       string
	WebhookURL   string
	WebhookLevel string
}

// New returns a logger writing to w and, when opts.WebhookURL is set, also
// posting records at or above opts.WebhookLevel through s.
func New(w io.Writer, s WebhookExecutor, opts Options) (*slog.Logger, error) {
	console, err := NewConsoleHandler(w, opts.Level, opts.Format)
	if err != nil {
		return nil, err
	}

	level, err := ParseLevel(opts.WebhookLevel)
	if err != nil {
		return nil, err
	}
	webhook, err := NewWebhookHandler(s, opts.WebhookURL, &slog.HandlerOptions{Level: level})
	if err != nil {
		return nil, err
	}

	return slog.New(slogmulti.Fanout(console, webhook)), nil
}

// ParseLevel accepts the level names understood by charmbracelet/log
// ("debug", "info", "warn", "error", "fatal").
func ParseLevel(level string) (slog.Level, error) {
	if level == "" {
		return slog.LevelInfo, nil
	}
	l, err := charmlog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return slog.LevelInfo, err
	}
	return slog.Level(l), nil
}

func formatter(format string) (charmlog.Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return charmlog.TextFormatter, nil
	case "json":
		return charmlog.JSONFormatter, nil
	case "logfmt":
		return charmlog.LogfmtFormatter, nil
	default:
		return charmlog.TextFormatter, fmt.Errorf("Unknown log format %q", format)
	}
}

// NewConsoleHandler returns a charmbracelet/log handler writing to w in
// the given format ("text", "json" or "logfmt").
func NewConsoleHandler(w io.Writer, level, format string) (slog.Handler, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	f, err := formatter(format)
	if err != nil {
		return nil, err
	}

	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(l),
		Formatter:       f,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	}), nil
}
