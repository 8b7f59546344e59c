package commands

import (
	"log/slog"
	"sync/atomic"

	dgo "github.com/bwmarrin/discordgo"
)

// Responder is the part of *discordgo.Session used to answer interactions.
type Responder interface {
	InteractionRespond(i *dgo.Interaction, r *dgo.InteractionResponse, options ...dgo.RequestOption) error
	InteractionResponseEdit(i *dgo.Interaction, edit *dgo.WebhookEdit, options ...dgo.RequestOption) (*dgo.Message, error)
	FollowupMessageCreate(i *dgo.Interaction, wait bool, data *dgo.WebhookParams, options ...dgo.RequestOption) (*dgo.Message, error)
}

// Event is one inbound interaction together with what handlers need to
// answer it.
type Event struct {
	*dgo.InteractionCreate
	Responder Responder
	Logger    *slog.Logger

	responded atomic.Bool
}

func NewEvent(r Responder, i *dgo.InteractionCreate, logger *slog.Logger) *Event {
	if logger == nil {
		logger = slog.Default()
	}
	return &Event{InteractionCreate: i, Responder: r, Logger: logger}
}

// Session returns the underlying discordgo session, when there is one.
func (e *Event) Session() (*dgo.Session, bool) {
	s, ok := e.Responder.(*dgo.Session)
	return s, ok
}

// Responded reports whether an initial response was already sent.
func (e *Event) Responded() bool {
	return e.responded.Load()
}

func (e *Event) respond(r *dgo.InteractionResponse) error {
	if err := e.Responder.InteractionRespond(e.Interaction, r); err != nil {
		return err
	}
	e.responded.Store(true)
	return nil
}

func (e *Event) Respond(content string) error {
	return e.RespondData(&dgo.InteractionResponseData{Content: content})
}

func (e *Event) RespondEphemeral(content string) error {
	return e.RespondData(&dgo.InteractionResponseData{
		Content: content,
		Flags:   dgo.MessageFlagsEphemeral,
	})
}

func (e *Event) RespondData(data *dgo.InteractionResponseData) error {
	return e.respond(&dgo.InteractionResponse{
		Type: dgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// RespondUpdate edits the message a component is attached to.
func (e *Event) RespondUpdate(data *dgo.InteractionResponseData) error {
	return e.respond(&dgo.InteractionResponse{
		Type: dgo.InteractionResponseUpdateMessage,
		Data: data,
	})
}

// Defer acknowledges the interaction; the answer is sent later with Edit or
// Followup.
func (e *Event) Defer(ephemeral bool) error {
	r := &dgo.InteractionResponse{Type: dgo.InteractionResponseDeferredChannelMessageWithSource}
	if ephemeral {
		r.Data = &dgo.InteractionResponseData{Flags: dgo.MessageFlagsEphemeral}
	}
	return e.respond(r)
}

func (e *Event) Edit(content string) error {
	_, err := e.Responder.InteractionResponseEdit(e.Interaction, &dgo.WebhookEdit{Content: &content})
	return err
}

func (e *Event) Followup(params *dgo.WebhookParams) (*dgo.Message, error) {
	return e.Responder.FollowupMessageCreate(e.Interaction, true, params)
}

// RespondChoices answers an autocomplete interaction.
func (e *Event) RespondChoices(choices []Choice) error {
	cs := make([]*dgo.ApplicationCommandOptionChoice, 0, len(choices))
	for _, c := range choices {
		cs = append(cs, &dgo.ApplicationCommandOptionChoice{
			Name:              c.Name,
			NameLocalizations: c.NameLocalizations,
			Value:             c.Value,
		})
	}
	return e.respond(&dgo.InteractionResponse{
		Type: dgo.InteractionApplicationCommandAutocompleteResult,
		Data: &dgo.InteractionResponseData{Choices: cs},
	})
}

// Author is the user who triggered the interaction, in a guild or a DM.
func (e *Event) Author() *dgo.User {
	if e.Member != nil && e.Member.User != nil {
		return e.Member.User
	}
	return e.User
}

func (e *Event) commandData() (dgo.ApplicationCommandInteractionData, bool) {
	if e.Interaction == nil {
		return dgo.ApplicationCommandInteractionData{}, false
	}
	switch e.Type {
	case dgo.InteractionApplicationCommand, dgo.InteractionApplicationCommandAutocomplete:
		return e.ApplicationCommandData(), true
	}
	return dgo.ApplicationCommandInteractionData{}, false
}

// TargetUser is the user a user context menu command was used on.
func (e *Event) TargetUser() *dgo.User {
	data, ok := e.commandData()
	if !ok || data.TargetID == "" {
		return nil
	}
	if data.Resolved != nil {
		if u, ok := data.Resolved.Users[data.TargetID]; ok {
			return u
		}
	}
	return &dgo.User{ID: data.TargetID}
}

// TargetMember is the guild member a user context menu command was used on.
func (e *Event) TargetMember() *dgo.Member {
	data, ok := e.commandData()
	if !ok || data.Resolved == nil {
		return nil
	}
	return data.Resolved.Members[data.TargetID]
}

// TargetMessage is the message a message context menu command was used on.
func (e *Event) TargetMessage() *dgo.Message {
	data, ok := e.commandData()
	if !ok || data.TargetID == "" {
		return nil
	}
	if data.Resolved != nil {
		if m, ok := data.Resolved.Messages[data.TargetID]; ok {
			return m
		}
	}
	return &dgo.Message{ID: data.TargetID, ChannelID: e.ChannelID}
}
