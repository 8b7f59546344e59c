package commands

import (
	"context"
	"maps"
	"slices"

	dgo "github.com/bwmarrin/discordgo"
)

type (
	// HandlerFunc handles an interaction for a node without options.
	HandlerFunc func(ctx context.Context, ev *Event) error
	// OptionsHandlerFunc handles an interaction for a node with options,
	// receiving the extracted option values.
	OptionsHandlerFunc func(ctx context.Context, ev *Event, opts Values) error
)

// body is the closed set of shapes a node can take. A command is a leaf
// (with or without options) or a branch (subcommands or groups), never both.
type body interface {
	isBody()
}

// leafBody is a body that can be invoked.
type leafBody interface {
	body
	invoke(ctx context.Context, ev *Event, r route) error
}

type handlerBody struct {
	handler HandlerFunc
}

type optionsBody struct {
	options []Option
	handler OptionsHandlerFunc
}

type subcommandsBody struct {
	subcommands map[string]Subcommand
}

type groupsBody struct {
	groups map[string]SubcommandGroup
}

func (handlerBody) isBody()     {}
func (optionsBody) isBody()     {}
func (subcommandsBody) isBody() {}
func (groupsBody) isBody()      {}

func (b handlerBody) invoke(ctx context.Context, ev *Event, _ route) error {
	return b.handler(ctx, ev)
}

func (b optionsBody) invoke(ctx context.Context, ev *Event, r route) error {
	values, err := extractAll(b.options, getOptions(r.options), r.resolved)
	if err != nil {
		return err
	}
	return b.handler(ctx, ev, values)
}

type localizations struct {
	names        map[dgo.Locale]string
	descriptions map[dgo.Locale]string
}

func (l localizations) with(locale dgo.Locale, name, description string) localizations {
	l.names = maps.Clone(l.names)
	l.descriptions = maps.Clone(l.descriptions)
	if name != "" {
		if l.names == nil {
			l.names = map[dgo.Locale]string{}
		}
		l.names[locale] = name
	}
	if description != "" {
		if l.descriptions == nil {
			l.descriptions = map[dgo.Locale]string{}
		}
		l.descriptions[locale] = description
	}
	return l
}

type metadata struct {
	permissions  *int64
	dmPermission *bool
	nsfw         *bool
	localizations
}

// Builder declares a top-level command. Each method returns a new Builder;
// the terminal methods return a complete Command.
type Builder struct {
	description string
	meta        metadata
}

// New starts the declaration of a command. Its name is set by Registry.Add.
func New(description string) Builder {
	return Builder{description: description}
}

func (b Builder) DefaultMemberPermissions(permissions int64) Builder {
	b.meta.permissions = &permissions
	return b
}

func (b Builder) DMPermission(allowed bool) Builder {
	b.meta.dmPermission = &allowed
	return b
}

func (b Builder) NSFW(nsfw bool) Builder {
	b.meta.nsfw = &nsfw
	return b
}

func (b Builder) Localize(locale dgo.Locale, name, description string) Builder {
	b.meta.localizations = b.meta.localizations.with(locale, name, description)
	return b
}

func (b Builder) build(kind dgo.ApplicationCommandType, body body) Command {
	return Command{
		description: b.description,
		kind:        kind,
		meta:        b.meta,
		body:        body,
	}
}

// Handler completes a command without options.
func (b Builder) Handler(fn HandlerFunc) Command {
	return b.build(dgo.ChatApplicationCommand, handlerBody{fn})
}

// Options attaches the option list. The returned builder only accepts a
// handler.
func (b Builder) Options(opts ...Option) OptionsBuilder[Command] {
	return OptionsBuilder[Command]{
		options: cloneOptions(opts),
		build: func(body leafBody) Command {
			return b.build(dgo.ChatApplicationCommand, body)
		},
	}
}

// Subcommands completes a command whose handler is chosen by subcommand
// name. Map keys become the subcommand names.
func (b Builder) Subcommands(subs map[string]Subcommand) Command {
	return b.build(dgo.ChatApplicationCommand, subcommandsBody{nameSubcommands(subs)})
}

// SubcommandGroups completes a command with two levels of subcommands. Map
// keys become the group names.
func (b Builder) SubcommandGroups(groups map[string]SubcommandGroup) Command {
	named := make(map[string]SubcommandGroup, len(groups))
	for name, g := range groups {
		g.name = name
		named[name] = g
	}
	return b.build(dgo.ChatApplicationCommand, groupsBody{named})
}

// UserHandler completes a user context menu command.
func (b Builder) UserHandler(fn HandlerFunc) Command {
	return b.build(dgo.UserApplicationCommand, handlerBody{fn})
}

// MessageHandler completes a message context menu command.
func (b Builder) MessageHandler(fn HandlerFunc) Command {
	return b.build(dgo.MessageApplicationCommand, handlerBody{fn})
}

// UserCommand declares a user context menu command with default metadata.
func UserCommand(fn HandlerFunc) Command {
	return New("").UserHandler(fn)
}

// MessageCommand declares a message context menu command with default
// metadata.
func MessageCommand(fn HandlerFunc) Command {
	return New("").MessageHandler(fn)
}

// OptionsBuilder is the state after options were attached: only a handler
// can follow.
type OptionsBuilder[T any] struct {
	options []Option
	build   func(leafBody) T
}

func (b OptionsBuilder[T]) Handler(fn OptionsHandlerFunc) T {
	return b.build(optionsBody{options: b.options, handler: fn})
}

// Command is a complete top-level command, ready for Registry.Add.
type Command struct {
	name        string
	description string
	kind        dgo.ApplicationCommandType
	meta        metadata
	body        body
}

func (c Command) Name() string                     { return c.name }
func (c Command) Description() string              { return c.description }
func (c Command) Type() dgo.ApplicationCommandType { return c.kind }

// SubBuilder declares a subcommand.
type SubBuilder struct {
	description string
	loc         localizations
}

func Sub(description string) SubBuilder {
	return SubBuilder{description: description}
}

func (b SubBuilder) Localize(locale dgo.Locale, name, description string) SubBuilder {
	b.loc = b.loc.with(locale, name, description)
	return b
}

func (b SubBuilder) build(body leafBody) Subcommand {
	return Subcommand{description: b.description, loc: b.loc, body: body}
}

func (b SubBuilder) Handler(fn HandlerFunc) Subcommand {
	return b.build(handlerBody{fn})
}

func (b SubBuilder) Options(opts ...Option) OptionsBuilder[Subcommand] {
	return OptionsBuilder[Subcommand]{options: cloneOptions(opts), build: b.build}
}

// Subcommand is a leaf one level below a command or a group.
type Subcommand struct {
	name        string
	description string
	loc         localizations
	body        leafBody
}

func (s Subcommand) Name() string        { return s.name }
func (s Subcommand) Description() string { return s.description }

// SubcommandGroup is a named set of subcommands; it has no handler.
type SubcommandGroup struct {
	name        string
	description string
	loc         localizations
	subcommands map[string]Subcommand
}

func Group(description string, subs map[string]Subcommand) SubcommandGroup {
	return SubcommandGroup{description: description, subcommands: nameSubcommands(subs)}
}

func (g SubcommandGroup) Localize(locale dgo.Locale, name, description string) SubcommandGroup {
	g.loc = g.loc.with(locale, name, description)
	return g
}

func (g SubcommandGroup) Name() string        { return g.name }
func (g SubcommandGroup) Description() string { return g.description }

func nameSubcommands(subs map[string]Subcommand) map[string]Subcommand {
	named := make(map[string]Subcommand, len(subs))
	for name, s := range subs {
		s.name = name
		named[name] = s
	}
	return named
}

func cloneOptions(opts []Option) []Option {
	cloned := slices.Clone(opts)
	for i := range cloned {
		cloned[i] = cloned[i].clone()
	}
	return cloned
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
