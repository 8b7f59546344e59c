package bot

import (
	"log/slog"

	"forge.capytal.company/capytal/slashkit/bot/events"

	dgo "github.com/bwmarrin/discordgo"
)

func w[E any](log *slog.Logger, h events.EventHandler[E]) interface{} {
	return func(s *dgo.Session, ev E) {
		err := h.Serve(s, ev)
		if err == nil {
			return
		}

		err.Log()
		if serr := err.Send(); serr != nil {
			log.Error("Failed to save error report.",
				slog.String("report_id", err.ID()),
				slog.String("error", serr.Error()))
		}
		if rerr := err.Reply(); rerr != nil {
			log.Warn("Failed to reply with error report.",
				slog.String("report_id", err.ID()),
				slog.String("error", rerr.Error()))
		}
	}
}

func (b *Bot) registerEventHandlers() {
	ehs := []any{
		w[*dgo.Ready](b.logger, events.NewReady(b.publisher, b.db, b.logger)),
		w[*dgo.InteractionCreate](b.logger, events.NewInteractionCreate(b.dispatcher, b.components, b.db, b.logger)),
	}
	for _, h := range ehs {
		b.session.AddHandler(h)
	}
}
