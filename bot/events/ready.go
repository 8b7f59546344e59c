package events

import (
	"context"
	"log/slog"
	"time"

	"forge.capytal.company/capytal/slashkit/bot/events/errors"

	dgo "github.com/bwmarrin/discordgo"
)

const publishTimeout = 2 * time.Minute

// Publisher publishes the command definitions of an application and binds
// the resulting IDs.
type Publisher interface {
	Publish(ctx context.Context, appID string) error
}

type Ready struct {
	publisher Publisher
	store     errors.ReportStore
	logger    *slog.Logger
}

func NewReady(p Publisher, store errors.ReportStore, logger *slog.Logger) Ready {
	return Ready{p, store, logger}
}

func (h Ready) Serve(_ *dgo.Session, ev *dgo.Ready) errors.EventErr {
	everr := errors.NewReadyErr(ev, h.store, h.logger)

	appID := ""
	if ev.User != nil {
		appID = ev.User.ID
		h.logger.Info("Logged in.",
			slog.String("user_id", ev.User.ID),
			slog.String("username", ev.User.Username),
			slog.Int("guilds", len(ev.Guilds)))
	}
	if ev.Application != nil && ev.Application.ID != "" {
		appID = ev.Application.ID
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return everr.Join(h.publisher.Publish(ctx, appID))
}
