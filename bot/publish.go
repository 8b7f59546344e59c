package bot

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"forge.capytal.company/capytal/slashkit/commands"
	"forge.capytal.company/capytal/slashkit/db"

	dgo "github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const maxConcurrentScopes = 4

var ErrNotReady = errors.New("Application ID is not known yet")

// CommandsAPI is the part of *discordgo.Session used to publish commands.
type CommandsAPI interface {
	ApplicationCommands(appID, guildID string, options ...dgo.RequestOption) ([]*dgo.ApplicationCommand, error)
	ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*dgo.ApplicationCommand, options ...dgo.RequestOption) ([]*dgo.ApplicationCommand, error)
}

// PublishStore remembers what was last published to each scope.
type PublishStore interface {
	PublishedCommands(guildID string) ([]db.PublishedCommand, error)
	ReplacePublishedCommands(guildID, hash string, cmds []db.PublishedCommand) error
}

// Publisher keeps the commands Discord knows in line with a Registry. A
// scope is either the global scope ("") or one guild.
type Publisher struct {
	api      CommandsAPI
	store    PublishStore
	registry *commands.Registry
	scopes   []string
	limiter  *rate.Limiter
	logger   *slog.Logger

	mu    sync.Mutex
	appID string
}

func NewPublisher(
	api CommandsAPI,
	store PublishStore,
	registry *commands.Registry,
	guildIDs []string,
	perSecond float64,
	logger *slog.Logger,
) *Publisher {
	scopes := slices.Clone(guildIDs)
	if len(scopes) == 0 {
		scopes = []string{""}
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Publisher{
		api:      api,
		store:    store,
		registry: registry,
		scopes:   scopes,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// Scopes returns the guild IDs commands are published to; "" is global.
func (p *Publisher) Scopes() []string {
	return slices.Clone(p.scopes)
}

// Publish makes every scope match the registry, skipping scopes already up
// to date, and binds the resulting IDs.
func (p *Publisher) Publish(ctx context.Context, appID string) error {
	if appID == "" {
		return ErrNotReady
	}
	p.mu.Lock()
	p.appID = appID
	p.mu.Unlock()

	return p.publish(ctx, appID, false)
}

// Sync overwrites the commands of every scope, whatever their state.
func (p *Publisher) Sync(ctx context.Context) error {
	p.mu.Lock()
	appID := p.appID
	p.mu.Unlock()

	if appID == "" {
		return ErrNotReady
	}
	return p.publish(ctx, appID, true)
}

func (p *Publisher) publish(ctx context.Context, appID string, force bool) error {
	defs, err := p.registry.Snapshot()
	if err != nil {
		return err
	}
	hash, err := hashDefinitions(defs)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScopes)
	for _, scope := range p.scopes {
		g.Go(func() error {
			if err := p.publishScope(ctx, appID, scope, defs, hash, force); err != nil {
				return fmt.Errorf("publish to scope %q: %w", scope, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (p *Publisher) publishScope(
	ctx context.Context,
	appID, guildID string,
	defs []*dgo.ApplicationCommand,
	hash string,
	force bool,
) error {
	log := p.logger.With(slog.String("guild_id", guildID), slog.String("hash", hash))

	if !force {
		stored, err := p.store.PublishedCommands(guildID)
		if err != nil {
			return err
		}
		if upToDate(stored, defs, hash) {
			bound := p.registry.BindIDs(fromStored(stored))
			log.Debug("Commands unchanged since last publication, binding stored IDs.",
				slog.Int("bound", bound))
			return nil
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		remote, err := p.api.ApplicationCommands(appID, guildID)
		if err != nil {
			return err
		}
		ok, diff := commands.EqualSet(defs, remote)
		if ok {
			bound := p.registry.BindIDs(remote)
			log.Debug("Registered commands match, binding remote IDs.", slog.Int("bound", bound))
			return p.store.ReplacePublishedCommands(guildID, hash, toStored(remote))
		}
		log.Debug("Bot commands and registered commands are different, overwriting.",
			slog.String("difference", diff.Error()))
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	published, err := p.api.ApplicationCommandBulkOverwrite(appID, guildID, defs)
	if err != nil {
		return err
	}

	bound := p.registry.BindIDs(published)
	log.Info("Published commands.", slog.Int("commands", len(published)), slog.Int("bound", bound))

	return p.store.ReplacePublishedCommands(guildID, hash, toStored(published))
}

func upToDate(stored []db.PublishedCommand, defs []*dgo.ApplicationCommand, hash string) bool {
	if len(stored) != len(defs) || len(stored) == 0 {
		return false
	}
	names := make(map[string]bool, len(defs))
	for _, d := range defs {
		names[d.Name] = true
	}
	for _, s := range stored {
		if s.Hash != hash || !names[s.Name] {
			return false
		}
	}
	return true
}

func fromStored(stored []db.PublishedCommand) []*dgo.ApplicationCommand {
	cmds := make([]*dgo.ApplicationCommand, 0, len(stored))
	for _, s := range stored {
		cmds = append(cmds, &dgo.ApplicationCommand{ID: s.ID, Name: s.Name, GuildID: s.GuildID})
	}
	return cmds
}

func toStored(published []*dgo.ApplicationCommand) []db.PublishedCommand {
	cmds := make([]db.PublishedCommand, 0, len(published))
	for _, c := range published {
		cmds = append(cmds, db.PublishedCommand{Name: c.Name, ID: c.ID})
	}
	return cmds
}

func hashDefinitions(defs []*dgo.ApplicationCommand) (string, error) {
	b, err := json.Marshal(defs)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:]), nil
}
