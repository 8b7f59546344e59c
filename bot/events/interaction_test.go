package events

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"forge.capytal.company/capytal/slashkit/bot/events/errors"
	"forge.capytal.company/capytal/slashkit/commands"
	"forge.capytal.company/capytal/slashkit/db"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type responder struct {
	mu        sync.Mutex
	responses []*dgo.InteractionResponse
	followups []*dgo.WebhookParams
}

func (r *responder) InteractionRespond(_ *dgo.Interaction, resp *dgo.InteractionResponse, _ ...dgo.RequestOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, resp)
	return nil
}

func (r *responder) InteractionResponseEdit(*dgo.Interaction, *dgo.WebhookEdit, ...dgo.RequestOption) (*dgo.Message, error) {
	return &dgo.Message{}, nil
}

func (r *responder) FollowupMessageCreate(_ *dgo.Interaction, _ bool, p *dgo.WebhookParams, _ ...dgo.RequestOption) (*dgo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.followups = append(r.followups, p)
	return &dgo.Message{}, nil
}

type reports struct {
	mu   sync.Mutex
	list []db.Report
}

func (s *reports) CreateReport(r db.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, r)
	return nil
}

func newHandler(t *testing.T, store errors.ReportStore) InteractionCreate {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := commands.NewRegistry()
	reg.MustAdd("ok", commands.New("Answers").Handler(func(_ context.Context, ev *commands.Event) error {
		return ev.Respond("ok")
	}))
	reg.MustAdd("late", commands.New("Answers, then fails").Handler(func(_ context.Context, ev *commands.Event) error {
		if err := ev.Respond("working"); err != nil {
			return err
		}
		return io.ErrUnexpectedEOF
	}))
	reg.MustAdd("boom", commands.New("Panics").Handler(func(context.Context, *commands.Event) error {
		panic("boom")
	}))

	comps := commands.NewComponents(log)
	require.NoError(t, comps.Handle("btn", func(_ context.Context, ev *commands.Event, args string) error {
		return ev.RespondUpdate(&dgo.InteractionResponseData{Content: args})
	}))

	return NewInteractionCreate(commands.NewDispatcher(reg, log), comps, store, log)
}

func command(name string) *dgo.InteractionCreate {
	return &dgo.InteractionCreate{Interaction: &dgo.Interaction{
		ID:        "i1",
		Type:      dgo.InteractionApplicationCommand,
		GuildID:   "g1",
		ChannelID: "c1",
		Member:    &dgo.Member{User: &dgo.User{ID: "u1"}},
		Data:      dgo.ApplicationCommandInteractionData{Name: name},
	}}
}

func TestInteractionSuccess(t *testing.T) {
	store := &reports{}
	h := newHandler(t, store)
	r := &responder{}

	assert.Nil(t, h.handle(r, command("ok")))
	require.Len(t, r.responses, 1)
	assert.Equal(t, "ok", r.responses[0].Data.Content)

	btn := &dgo.InteractionCreate{Interaction: &dgo.Interaction{
		ID:   "i2",
		Type: dgo.InteractionMessageComponent,
		Data: dgo.MessageComponentInteractionData{CustomID: commands.CustomID("btn", "hi")},
	}}
	assert.Nil(t, h.handle(r, btn))
	require.Len(t, r.responses, 2)
	assert.Equal(t, "hi", r.responses[1].Data.Content)

	assert.Nil(t, h.handle(r, &dgo.InteractionCreate{Interaction: &dgo.Interaction{Type: dgo.InteractionPing}}))
	assert.Nil(t, h.handle(r, nil))
	assert.Empty(t, store.list)
}

func TestInteractionUnknownCommand(t *testing.T) {
	store := &reports{}
	h := newHandler(t, store)
	r := &responder{}

	everr := h.handle(r, command("missing"))
	require.NotNil(t, everr)
	assert.ErrorIs(t, everr, commands.ErrCommandNotFound)

	require.NoError(t, everr.Send())
	require.Len(t, store.list, 1)
	rep := store.list[0]
	assert.Equal(t, everr.ID(), rep.ID)
	assert.Equal(t, "g1", rep.GuildID)
	assert.Equal(t, "c1", rep.ChannelID)
	assert.Equal(t, "u1", rep.UserID)
	assert.Equal(t, "/missing", rep.Command)
	assert.Equal(t, "INTERACTIONCREATE", rep.Kind)
	assert.Contains(t, rep.Message, "Command not found")

	require.NoError(t, everr.Reply())
	require.Len(t, r.responses, 1)
	assert.Equal(t, dgo.MessageFlagsEphemeral, r.responses[0].Data.Flags)
	assert.Contains(t, r.responses[0].Data.Content, everr.ID())
}

func TestInteractionErrorAfterResponse(t *testing.T) {
	h := newHandler(t, &reports{})
	r := &responder{}

	everr := h.handle(r, command("late"))
	require.NotNil(t, everr)
	assert.ErrorIs(t, everr, io.ErrUnexpectedEOF)

	require.NoError(t, everr.Reply())
	assert.Len(t, r.responses, 1)
	require.Len(t, r.followups, 1)
	assert.Contains(t, r.followups[0].Content, everr.ID())
	assert.Equal(t, dgo.MessageFlagsEphemeral, r.followups[0].Flags)
}

func TestInteractionPanic(t *testing.T) {
	h := newHandler(t, nil)

	everr := h.handle(&responder{}, command("boom"))
	require.NotNil(t, everr)
	assert.ErrorIs(t, everr, errors.ErrPanic)
	assert.Contains(t, everr.Error(), "boom")

	// No store configured.
	assert.NoError(t, everr.Send())
}

func TestInteractionAutocompleteFailure(t *testing.T) {
	h := newHandler(t, nil)
	r := &responder{}

	i := command("ok")
	i.Type = dgo.InteractionApplicationCommandAutocomplete

	everr := h.handle(r, i)
	require.NotNil(t, everr)
	assert.ErrorIs(t, everr, commands.ErrCommandNotAutocompletable)

	require.NoError(t, everr.Reply())
	require.Len(t, r.responses, 1)
	assert.Equal(t, dgo.InteractionApplicationCommandAutocompleteResult, r.responses[0].Type)
	assert.Empty(t, r.responses[0].Data.Choices)
}
