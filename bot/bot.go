package bot

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"forge.capytal.company/capytal/slashkit/commands"
	"forge.capytal.company/capytal/slashkit/config"
	"forge.capytal.company/capytal/slashkit/db"

	dgo "github.com/bwmarrin/discordgo"
)

type Bot struct {
	session    *dgo.Session
	db         *db.Queries
	registry   *commands.Registry
	dispatcher *commands.Dispatcher
	components *commands.Components
	publisher  *Publisher
	logger     *slog.Logger

	// open connects the gateway; it is session.Open outside of tests.
	open func() error
	// startedAt holds Unix nanoseconds, read by command handlers running
	// on gateway goroutines.
	startedAt atomic.Int64
}

func New(
	cfg *config.Config,
	registry *commands.Registry,
	components *commands.Components,
	database db.DBTX,
	logger *slog.Logger,
) (*Bot, error) {
	s, err := dgo.New(cfg.BotToken())
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = dgo.IntentsGuilds

	q, err := db.Prepare(database)
	if err != nil {
		return nil, err
	}

	return &Bot{
		session:    s,
		db:         q,
		registry:   registry,
		dispatcher: commands.NewDispatcher(registry, logger),
		components: components,
		publisher:  NewPublisher(s, q, registry, cfg.GuildIDs, cfg.PublishRate, logger),
		logger:     logger,
		open:       s.Open,
	}, nil
}

func (b *Bot) Start() error {
	b.registerEventHandlers()

	// Handlers may run as soon as the connection opens.
	b.startedAt.Store(time.Now().UnixNano())
	if err := b.open(); err != nil {
		b.startedAt.Store(0)
		return err
	}

	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

// Sync republishes every command, bypassing the up to date checks.
func (b *Bot) Sync(ctx context.Context) error {
	return b.publisher.Sync(ctx)
}

func (b *Bot) Scopes() []string {
	return b.publisher.Scopes()
}

func (b *Bot) Store() *db.Queries {
	return b.db
}

func (b *Bot) Session() *dgo.Session {
	return b.session
}

// StartedAt is when the gateway connection was opened, or the zero time
// before Start.
func (b *Bot) StartedAt() time.Time {
	n := b.startedAt.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
