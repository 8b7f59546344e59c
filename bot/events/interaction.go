package events

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"forge.capytal.company/capytal/slashkit/bot/events/errors"
	"forge.capytal.company/capytal/slashkit/commands"

	dgo "github.com/bwmarrin/discordgo"
)

// Discord invalidates an interaction token after 15 minutes.
const interactionTimeout = 15 * time.Minute

type InteractionCreate struct {
	dispatcher *commands.Dispatcher
	components *commands.Components
	store      errors.ReportStore
	logger     *slog.Logger
}

func NewInteractionCreate(
	d *commands.Dispatcher,
	c *commands.Components,
	store errors.ReportStore,
	logger *slog.Logger,
) InteractionCreate {
	return InteractionCreate{d, c, store, logger}
}

func (h InteractionCreate) Serve(s *dgo.Session, ev *dgo.InteractionCreate) errors.EventErr {
	return h.handle(s, ev)
}

func (h InteractionCreate) handle(r commands.Responder, i *dgo.InteractionCreate) (everr errors.EventErr) {
	if i == nil || i.Interaction == nil {
		return nil
	}

	ev := commands.NewEvent(r, i, h.logger.With(
		slog.String("interaction_id", i.ID),
		slog.String("interaction_guild_id", i.GuildID),
	))
	base := errors.NewInteractionCreateErr(ev, h.store, h.logger)

	defer func() {
		if p := recover(); p != nil {
			everr = base.Join(fmt.Errorf("%w: %v\n%s", errors.ErrPanic, p, debug.Stack()))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	var err error
	switch i.Type {
	case dgo.InteractionApplicationCommand:
		err = h.dispatcher.Dispatch(ctx, ev)
	case dgo.InteractionApplicationCommandAutocomplete:
		err = h.dispatcher.Autocomplete(ctx, ev)
	case dgo.InteractionMessageComponent, dgo.InteractionModalSubmit:
		err = h.components.Dispatch(ctx, ev)
	default:
		h.logger.Debug("Ignoring interaction.",
			slog.String("interaction_id", i.ID),
			slog.String("interaction_type", i.Type.String()))
	}

	return base.Join(err)
}
