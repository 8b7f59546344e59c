package commands

import (
	"context"
	"fmt"
	"log/slog"

	dgo "github.com/bwmarrin/discordgo"
)

// route is the addressing information carried by an interaction payload.
type route struct {
	id         string
	command    string
	group      string
	subcommand string
	options    []*dgo.ApplicationCommandInteractionDataOption
	resolved   *dgo.ApplicationCommandInteractionDataResolved
}

func routeOf(data dgo.ApplicationCommandInteractionData) route {
	r := route{
		id:       data.ID,
		command:  data.Name,
		options:  data.Options,
		resolved: data.Resolved,
	}

	if len(r.options) == 0 || r.options[0] == nil {
		return r
	}

	first := r.options[0]
	switch first.Type {
	case dgo.ApplicationCommandOptionSubCommandGroup:
		r.group = first.Name
		r.options = nil
		if len(first.Options) > 0 && first.Options[0] != nil {
			r.subcommand = first.Options[0].Name
			r.options = first.Options[0].Options
		}
	case dgo.ApplicationCommandOptionSubCommand:
		r.subcommand = first.Name
		r.options = first.Options
	}

	return r
}

// PathOf returns the command path an interaction invokes, e.g.
// "/admin errors show".
func PathOf(data dgo.ApplicationCommandInteractionData) string {
	r := routeOf(data)
	return commandPath(r.command, r.group, r.subcommand)
}

func (r route) fail(err error) *RouteError {
	return &RouteError{Err: err, Command: r.command, Group: r.group, Subcommand: r.subcommand}
}

// resolve walks the tree: group before subcommand, and a leaf only when the
// payload names no child.
func (c Command) resolve(r route) (leafBody, error) {
	switch b := c.body.(type) {
	case groupsBody:
		if r.group == "" {
			return nil, r.fail(ErrSubcommandNotFound)
		}
		g, ok := b.groups[r.group]
		if !ok {
			return nil, r.fail(ErrSubcommandGroupNotFound)
		}
		s, ok := g.subcommands[r.subcommand]
		if !ok {
			return nil, r.fail(ErrSubcommandNotFound)
		}
		return s.body, nil

	case subcommandsBody:
		if r.group != "" {
			return nil, r.fail(ErrSubcommandGroupNotFound)
		}
		s, ok := b.subcommands[r.subcommand]
		if !ok {
			return nil, r.fail(ErrSubcommandNotFound)
		}
		return s.body, nil

	case leafBody:
		if r.group != "" {
			return nil, r.fail(ErrSubcommandGroupNotFound)
		}
		if r.subcommand != "" {
			return nil, r.fail(ErrSubcommandNotFound)
		}
		return b, nil
	}

	return nil, r.fail(ErrMissingHandler)
}

// Dispatcher routes application command and autocomplete interactions to
// the handlers held by a Registry. It never writes to the registry.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

func (d *Dispatcher) target(ev *Event, want dgo.InteractionType) (route, leafBody, error) {
	if ev == nil || ev.InteractionCreate == nil || ev.Interaction == nil || ev.Type != want {
		return route{}, nil, ErrNotCommandInteraction
	}

	r := routeOf(ev.ApplicationCommandData())

	cmd, ok := d.registry.Lookup(r.id, r.command)
	if !ok {
		return r, nil, r.fail(ErrCommandNotFound)
	}

	leaf, err := cmd.resolve(r)
	return r, leaf, err
}

// Dispatch resolves the handler of an application command interaction,
// extracts its option values and calls it. Handler errors are returned as is.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *Event) error {
	r, leaf, err := d.target(ev, dgo.InteractionApplicationCommand)
	if err != nil {
		return err
	}

	d.logger.Debug("Handling application command.",
		slog.String("command_data_id", r.id),
		slog.String("command_path", commandPath(r.command, r.group, r.subcommand)),
		slog.String("interaction_guild_id", ev.GuildID))

	return leaf.invoke(ctx, ev, r)
}

// Complete resolves the focused option of an autocomplete interaction and
// returns at most 25 candidates from its resolver.
func (d *Dispatcher) Complete(ctx context.Context, ev *Event) ([]Choice, error) {
	r, leaf, err := d.target(ev, dgo.InteractionApplicationCommandAutocomplete)
	if err != nil {
		return nil, err
	}

	b, ok := leaf.(optionsBody)
	if !ok {
		return nil, r.fail(ErrCommandNotAutocompletable)
	}

	var focused *dgo.ApplicationCommandInteractionDataOption
	for _, o := range r.options {
		if o != nil && o.Focused {
			focused = o
			break
		}
	}
	if focused == nil {
		return nil, r.fail(ErrOptionNotFound)
	}

	var desc *Option
	for i := range b.options {
		if b.options[i].name == focused.Name {
			desc = &b.options[i]
			break
		}
	}
	if desc == nil {
		e := r.fail(ErrOptionNotFound)
		e.Option = focused.Name
		return nil, e
	}
	if desc.autocomplete == nil {
		e := r.fail(ErrOptionNotAutocompletable)
		e.Option = focused.Name
		return nil, e
	}

	// The focused value is whatever the user typed so far, always a string
	// for string options and possibly not yet a valid number for numeric
	// ones, so it is passed raw and left out of the sibling values.
	partial, ok := focused.Value.(string)
	if !ok && focused.Value != nil {
		partial = fmt.Sprint(focused.Value)
	}

	raw := getOptions(r.options)
	delete(raw, focused.Name)
	siblings := make(Values, len(b.options))
	for _, o := range b.options {
		v, ok, err := extract(o, raw, r.resolved)
		if err != nil {
			d.logger.Debug("Ignoring invalid sibling option.",
				slog.String("command_path", commandPath(r.command, r.group, r.subcommand)),
				slog.String("option", o.name),
				slog.String("error", err.Error()))
			continue
		}
		if ok {
			siblings[o.name] = v
		}
	}

	choices, err := desc.autocomplete(ctx, ev, partial, siblings)
	if err != nil {
		return nil, err
	}
	if len(choices) > maxAutocompleted {
		choices = choices[:maxAutocompleted]
	}

	return choices, nil
}

// Autocomplete answers an autocomplete interaction with the candidates of
// Complete.
func (d *Dispatcher) Autocomplete(ctx context.Context, ev *Event) error {
	choices, err := d.Complete(ctx, ev)
	if err != nil {
		return err
	}
	return ev.RespondChoices(choices)
}
