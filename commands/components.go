package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	dgo "github.com/bwmarrin/discordgo"
)

const customIDSep = ":"

// ComponentHandlerFunc handles a message component or modal submit. args is
// the part of the custom ID after the matched prefix and its separator.
type ComponentHandlerFunc func(ctx context.Context, ev *Event, args string) error

// CustomID joins a prefix and its arguments into a component custom ID.
func CustomID(prefix string, args ...string) string {
	if len(args) == 0 {
		return prefix
	}
	return prefix + customIDSep + strings.Join(args, customIDSep)
}

// Components routes message component and modal submit interactions by
// custom ID prefix.
type Components struct {
	mu       sync.RWMutex
	handlers map[string]ComponentHandlerFunc
	logger   *slog.Logger
}

func NewComponents(logger *slog.Logger) *Components {
	if logger == nil {
		logger = slog.Default()
	}
	return &Components{handlers: map[string]ComponentHandlerFunc{}, logger: logger}
}

// Handle registers fn for custom IDs equal to prefix or starting with
// prefix followed by ":".
func (c *Components) Handle(prefix string, fn ComponentHandlerFunc) error {
	if prefix == "" || strings.Contains(prefix, customIDSep) {
		return &DefinitionError{Path: prefix, Err: fmt.Errorf("%w: component prefix %q", ErrInvalidName, prefix)}
	}
	if fn == nil {
		return &DefinitionError{Path: prefix, Err: ErrMissingHandler}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.handlers[prefix]; ok {
		return &DefinitionError{Path: prefix, Err: ErrDuplicateComponent}
	}
	c.handlers[prefix] = fn
	return nil
}

// match returns the handler of the longest prefix matching id.
func (c *Components) match(id string) (ComponentHandlerFunc, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if fn, ok := c.handlers[id]; ok {
		return fn, "", true
	}

	var (
		best     string
		bestFunc ComponentHandlerFunc
	)
	for prefix, fn := range c.handlers {
		if strings.HasPrefix(id, prefix+customIDSep) && len(prefix) > len(best) {
			best, bestFunc = prefix, fn
		}
	}
	if bestFunc == nil {
		return nil, "", false
	}
	return bestFunc, strings.TrimPrefix(id, best+customIDSep), true
}

func customIDOf(ev *Event) (string, bool) {
	if ev == nil || ev.InteractionCreate == nil || ev.Interaction == nil {
		return "", false
	}
	switch ev.Type {
	case dgo.InteractionMessageComponent:
		return ev.MessageComponentData().CustomID, true
	case dgo.InteractionModalSubmit:
		return ev.ModalSubmitData().CustomID, true
	}
	return "", false
}

func (c *Components) Dispatch(ctx context.Context, ev *Event) error {
	id, ok := customIDOf(ev)
	if !ok {
		return ErrNotComponentInteraction
	}

	fn, args, ok := c.match(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrComponentNotFound, id)
	}

	c.logger.Debug("Handling component.",
		slog.String("custom_id", id),
		slog.String("interaction_type", ev.Type.String()),
		slog.String("interaction_guild_id", ev.GuildID))

	return fn(ctx, ev, args)
}
