package events

import (
	"context"
	"io"
	"log/slog"
	"testing"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publisher struct {
	appIDs []string
	err    error
}

func (p *publisher) Publish(_ context.Context, appID string) error {
	p.appIDs = append(p.appIDs, appID)
	return p.err
}

func TestReady(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := &publisher{}
	h := NewReady(p, nil, log)

	assert.Nil(t, h.Serve(nil, &dgo.Ready{
		SessionID: "s1",
		User:      &dgo.User{ID: "bot"},
	}))
	assert.Nil(t, h.Serve(nil, &dgo.Ready{
		User:        &dgo.User{ID: "bot"},
		Application: &dgo.Application{ID: "app"},
	}))
	assert.Equal(t, []string{"bot", "app"}, p.appIDs)
}

func TestReadyPublishFailure(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &reports{}
	p := &publisher{err: io.ErrClosedPipe}

	everr := NewReady(p, store, log).Serve(nil, &dgo.Ready{SessionID: "s1", User: &dgo.User{ID: "bot"}})
	require.NotNil(t, everr)
	assert.ErrorIs(t, everr, io.ErrClosedPipe)
	assert.Contains(t, everr.Error(), "READY-ERRO("+everr.ID()+"): Failed to publish commands")

	require.NoError(t, everr.Send())
	require.Len(t, store.list, 1)
	assert.Equal(t, "READY", store.list[0].Kind)
	assert.NoError(t, everr.Reply())
}
