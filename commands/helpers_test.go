package commands

import (
	"context"
	"sync"

	dgo "github.com/bwmarrin/discordgo"
)

type fakeResponder struct {
	mu        sync.Mutex
	responses []*dgo.InteractionResponse
	edits     []*dgo.WebhookEdit
	followups []*dgo.WebhookParams
	err       error
}

func (f *fakeResponder) InteractionRespond(_ *dgo.Interaction, r *dgo.InteractionResponse, _ ...dgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.responses = append(f.responses, r)
	return nil
}

func (f *fakeResponder) InteractionResponseEdit(_ *dgo.Interaction, e *dgo.WebhookEdit, _ ...dgo.RequestOption) (*dgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, e)
	return &dgo.Message{}, f.err
}

func (f *fakeResponder) FollowupMessageCreate(_ *dgo.Interaction, _ bool, p *dgo.WebhookParams, _ ...dgo.RequestOption) (*dgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, p)
	return &dgo.Message{Content: p.Content}, f.err
}

func opt(name string, t dgo.ApplicationCommandOptionType, v any) *dgo.ApplicationCommandInteractionDataOption {
	return &dgo.ApplicationCommandInteractionDataOption{Name: name, Type: t, Value: v}
}

func focused(name string, t dgo.ApplicationCommandOptionType, v any) *dgo.ApplicationCommandInteractionDataOption {
	o := opt(name, t, v)
	o.Focused = true
	return o
}

func sub(name string, opts ...*dgo.ApplicationCommandInteractionDataOption) *dgo.ApplicationCommandInteractionDataOption {
	return &dgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    dgo.ApplicationCommandOptionSubCommand,
		Options: opts,
	}
}

func group(name string, s *dgo.ApplicationCommandInteractionDataOption) *dgo.ApplicationCommandInteractionDataOption {
	return &dgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    dgo.ApplicationCommandOptionSubCommandGroup,
		Options: []*dgo.ApplicationCommandInteractionDataOption{s},
	}
}

func interaction(t dgo.InteractionType, data dgo.ApplicationCommandInteractionData) *Event {
	return NewEvent(&fakeResponder{}, &dgo.InteractionCreate{
		Interaction: &dgo.Interaction{
			ID:      "interaction",
			Type:    t,
			GuildID: "guild",
			Data:    data,
			Member:  &dgo.Member{User: &dgo.User{ID: "author"}},
		},
	}, nil)
}

func commandEvent(name string, opts ...*dgo.ApplicationCommandInteractionDataOption) *Event {
	return interaction(dgo.InteractionApplicationCommand, dgo.ApplicationCommandInteractionData{
		ID:      name + "-id",
		Name:    name,
		Options: opts,
	})
}

func autocompleteEvent(name string, opts ...*dgo.ApplicationCommandInteractionDataOption) *Event {
	return interaction(dgo.InteractionApplicationCommandAutocomplete, dgo.ApplicationCommandInteractionData{
		ID:      name + "-id",
		Name:    name,
		Options: opts,
	})
}

// counter returns a handler counting its calls into n.
func counter(n *int) HandlerFunc {
	return func(context.Context, *Event) error {
		*n++
		return nil
	}
}

func responderOf(ev *Event) *fakeResponder {
	return ev.Responder.(*fakeResponder)
}
