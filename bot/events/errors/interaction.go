package errors

import (
	"fmt"
	"log/slog"

	"forge.capytal.company/capytal/slashkit/commands"

	dgo "github.com/bwmarrin/discordgo"
)

type InteractionCreateErr struct {
	*defaultEventErr[*dgo.InteractionCreate]
	event *commands.Event
	store ReportStore
}

func NewInteractionCreateErr(ev *commands.Event, store ReportStore, log *slog.Logger) *InteractionCreateErr {
	data := map[string]any{
		"interaction_id":   ev.ID,
		"interaction_type": ev.Type.String(),
		"guild_id":         ev.GuildID,
		"channel_id":       ev.ChannelID,
	}
	if u := ev.Author(); u != nil {
		data["user_id"] = u.ID
	}
	switch ev.Type {
	case dgo.InteractionApplicationCommand, dgo.InteractionApplicationCommandAutocomplete:
		data["command"] = commands.PathOf(ev.ApplicationCommandData())
	case dgo.InteractionMessageComponent:
		data["command"] = ev.MessageComponentData().CustomID
	case dgo.InteractionModalSubmit:
		data["command"] = ev.ModalSubmitData().CustomID
	}

	return &InteractionCreateErr{
		defaultEventErr: newDefaultEventErr[*dgo.InteractionCreate]("Failed to handle interaction", data, log),
		event:           ev,
		store:           store,
	}
}

// Join returns an EventErr holding errs, or nil if every err is nil.
func (d *InteractionCreateErr) Join(errs ...error) EventErr {
	joined := d.defaultEventErr.join(errs...)
	if joined == nil {
		return nil
	}
	return &InteractionCreateErr{defaultEventErr: joined, event: d.event, store: d.store}
}

func (d *InteractionCreateErr) Send() error {
	if d.store == nil {
		return nil
	}
	return d.store.CreateReport(d.report())
}

// Reply tells the user something failed, with the report ID to quote. It
// uses a followup when the interaction was already answered.
func (d *InteractionCreateErr) Reply() error {
	if d.event == nil || d.event.Responder == nil {
		return nil
	}

	if d.event.Type == dgo.InteractionApplicationCommandAutocomplete {
		if d.event.Responded() {
			return nil
		}
		return d.event.RespondChoices(nil)
	}

	content := fmt.Sprintf("Something went wrong while handling this. Report ID: `%s`", d.id)
	if !d.event.Responded() {
		return d.event.RespondEphemeral(content)
	}
	_, err := d.event.Followup(&dgo.WebhookParams{
		Content: content,
		Flags:   dgo.MessageFlagsEphemeral,
	})
	return err
}
