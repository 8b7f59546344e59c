package bot

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOfflineBot(t *testing.T, open func() error) *Bot {
	t.Helper()
	s, err := dgo.New("")
	require.NoError(t, err)
	return &Bot{
		session: s,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		open:    open,
	}
}

func TestStartSetsStartedAtBeforeOpening(t *testing.T) {
	var b *Bot
	var seen time.Time
	b = newOfflineBot(t, func() error {
		// Gateway handlers read the start time concurrently with Start.
		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = b.StartedAt()
			}()
		}
		wg.Wait()
		seen = b.StartedAt()
		return nil
	})
	assert.True(t, b.StartedAt().IsZero())

	require.NoError(t, b.Start())

	assert.False(t, seen.IsZero())
	assert.True(t, seen.Equal(b.StartedAt()))
	assert.WithinDuration(t, time.Now(), b.StartedAt(), time.Minute)
}

func TestStartFailureClearsStartedAt(t *testing.T) {
	b := newOfflineBot(t, func() error { return io.ErrUnexpectedEOF })

	require.ErrorIs(t, b.Start(), io.ErrUnexpectedEOF)
	assert.True(t, b.StartedAt().IsZero())
}
