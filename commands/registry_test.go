package commands

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nop(context.Context, *Event) error { return nil }

func nopOpts(context.Context, *Event, Values) error { return nil }

func TestRegistryAddValidates(t *testing.T) {
	cases := map[string]struct {
		name string
		cmd  Command
		want error
	}{
		"duplicate option": {
			name: "dup",
			cmd:  New("Dup").Options(String("a", "A"), String("a", "A again")).Handler(nopOpts),
			want: ErrDuplicateOption,
		},
		"empty options": {
			name: "empty",
			cmd:  New("Empty").Options().Handler(nopOpts),
			want: ErrEmptyOptions,
		},
		"empty subcommands": {
			name: "empty",
			cmd:  New("Empty").Subcommands(map[string]Subcommand{}),
			want: ErrEmptySubcommands,
		},
		"empty group": {
			name: "empty",
			cmd: New("Empty").SubcommandGroups(map[string]SubcommandGroup{
				"g": Group("G", nil),
			}),
			want: ErrEmptySubcommands,
		},
		"choices with autocomplete": {
			name: "both",
			cmd: New("Both").Options(
				String("q", "Q").
					Choices(Choice{Name: "a", Value: "a"}).
					Autocomplete(func(context.Context, *Event, string, Values) ([]Choice, error) { return nil, nil }),
			).Handler(nopOpts),
			want: ErrChoicesWithAutocomplete,
		},
		"optional before required": {
			name: "order",
			cmd:  New("Order").Options(String("a", "A"), String("b", "B").Required()).Handler(nopOpts),
			want: ErrOptionOrder,
		},
		"uppercase name": {
			name: "Echo",
			cmd:  New("Echo").Handler(nop),
			want: ErrInvalidName,
		},
		"missing description": {
			name: "blank",
			cmd:  New("").Handler(nop),
			want: ErrInvalidDescription,
		},
		"nil handler": {
			name: "nil",
			cmd:  New("Nil").Handler(nil),
			want: ErrMissingHandler,
		},
		"invalid subcommand name": {
			name: "tool",
			cmd: New("Tool").Subcommands(map[string]Subcommand{
				"has space": Sub("Bad").Handler(nop),
			}),
			want: ErrInvalidName,
		},
		"zero command": {
			name: "zero",
			cmd:  Command{},
			want: ErrMissingHandler,
		},
		"too many options": {
			name: "many",
			cmd:  New("Many").Options(manyOptions(26)...).Handler(nopOpts),
			want: ErrTooManyOptions,
		},
		"too many subcommands": {
			name: "many",
			cmd:  New("Many").Subcommands(manySubcommands(26)),
			want: ErrTooManyOptions,
		},
		"too many groups": {
			name: "many",
			cmd:  New("Many").SubcommandGroups(manyGroups(26)),
			want: ErrTooManyOptions,
		},
		"too many subcommands in a group": {
			name: "many",
			cmd: New("Many").SubcommandGroups(map[string]SubcommandGroup{
				"g": Group("G", manySubcommands(26)),
			}),
			want: ErrTooManyOptions,
		},
		"too many choices": {
			name: "many",
			cmd:  New("Many").Options(Integer("n", "N").Choices(manyChoices(26)...)).Handler(nopOpts),
			want: ErrTooManyOptions,
		},
		"choices on a boolean": {
			name: "kind",
			cmd:  New("Kind").Options(Boolean("b", "B").Choices(Choice{Name: "x", Value: "y"})).Handler(nopOpts),
			want: ErrInvalidOptionSetting,
		},
		"autocomplete on a user": {
			name: "kind",
			cmd: New("Kind").Options(User("u", "U").Autocomplete(
				func(context.Context, *Event, string, Values) ([]Choice, error) { return nil, nil },
			)).Handler(nopOpts),
			want: ErrInvalidOptionSetting,
		},
		"value range on a string": {
			name: "kind",
			cmd:  New("Kind").Options(String("s", "S").MinValue(1)).Handler(nopOpts),
			want: ErrInvalidOptionSetting,
		},
		"length range on an integer": {
			name: "kind",
			cmd:  New("Kind").Options(Integer("n", "N").MaxLength(5)).Handler(nopOpts),
			want: ErrInvalidOptionSetting,
		},
		"channel types on a role": {
			name: "kind",
			cmd:  New("Kind").Options(Role("r", "R").ChannelTypes(dgo.ChannelTypeGuildText)).Handler(nopOpts),
			want: ErrInvalidOptionSetting,
		},
		"string choice on an integer": {
			name: "kind",
			cmd:  New("Kind").Options(Integer("n", "N").Choices(Choice{Name: "one", Value: "1"})).Handler(nopOpts),
			want: ErrInvalidOptionSetting,
		},
		"fractional choice on an integer": {
			name: "kind",
			cmd:  New("Kind").Options(Integer("n", "N").Choices(Choice{Name: "half", Value: 0.5})).Handler(nopOpts),
			want: ErrInvalidOptionSetting,
		},
		"zero maximum value": {
			name: "range",
			cmd:  New("Range").Options(Number("x", "X").MinValue(-5).MaxValue(0)).Handler(nopOpts),
			want: ErrInvalidOptionSetting,
		},
		"zero maximum length": {
			name: "range",
			cmd:  New("Range").Options(String("s", "S").MaxLength(0)).Handler(nopOpts),
			want: ErrInvalidOptionSetting,
		},
		"inverted value range": {
			name: "range",
			cmd:  New("Range").Options(Integer("n", "N").MinValue(10).MaxValue(1)).Handler(nopOpts),
			want: ErrInvalidOptionSetting,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := NewRegistry().Add(c.name, c.cmd)
			require.ErrorIs(t, err, c.want)
		})
	}
}

func manyOptions(n int) []Option {
	opts := make([]Option, n)
	for i := range opts {
		opts[i] = String(fmt.Sprintf("o%d", i), "Option")
	}
	return opts
}

func manySubcommands(n int) map[string]Subcommand {
	subs := make(map[string]Subcommand, n)
	for i := range n {
		subs[fmt.Sprintf("s%d", i)] = Sub("Subcommand").Handler(nop)
	}
	return subs
}

func manyGroups(n int) map[string]SubcommandGroup {
	groups := make(map[string]SubcommandGroup, n)
	for i := range n {
		groups[fmt.Sprintf("g%d", i)] = Group("Group", manySubcommands(1))
	}
	return groups
}

func manyChoices(n int) []Choice {
	choices := make([]Choice, n)
	for i := range choices {
		choices[i] = Choice{Name: fmt.Sprintf("c%d", i), Value: i}
	}
	return choices
}

func TestRegistryAcceptsValidSettings(t *testing.T) {
	r := NewRegistry()
	err := r.Add("fine", New("Fine").Options(
		Integer("n", "N").Required().Choices(manyChoices(25)...),
		Number("x", "X").MinValue(-5).MaxValue(-1),
		String("s", "S").MinLength(0).MaxLength(6000),
		Channel("c", "C").ChannelTypes(dgo.ChannelTypeGuildText),
	).Handler(nopOpts))
	require.NoError(t, err)

	require.NoError(t, r.Add("wide", New("Wide").Options(manyOptions(25)...).Handler(nopOpts)))
	require.NoError(t, r.Add("tree", New("Tree").SubcommandGroups(manyGroups(25))))
}

func TestRegistryAggregatesErrors(t *testing.T) {
	err := NewRegistry().Add("Bad", New("").Options(String("a", "A"), String("a", "")).Handler(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, err, ErrInvalidDescription)
	assert.ErrorIs(t, err, ErrDuplicateOption)
	assert.ErrorIs(t, err, ErrMissingHandler)
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add("ping", New("Ping").Handler(nop)))
	require.ErrorIs(t, r.Add("ping", New("Ping again").Handler(nop)), ErrDuplicateCommand)
	assert.Equal(t, 1, r.Len())
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry()
	r.MustAdd("zeta", New("Last").Handler(nop))
	r.MustAdd("alpha", New("First").
		DefaultMemberPermissions(dgo.PermissionAdministrator).
		DMPermission(false).
		Options(Integer("n", "N").Required()).
		Handler(nopOpts))
	r.MustAdd("tool", New("Tool").Subcommands(map[string]Subcommand{
		"b": Sub("B").Handler(nop),
		"a": Sub("A").Options(Boolean("x", "X")).Handler(nopOpts),
	}))
	r.MustAdd("Info", UserCommand(nop))

	defs, err := r.Snapshot()
	require.NoError(t, err)
	require.Len(t, defs, 4)

	assert.Equal(t, []string{"Info", "alpha", "tool", "zeta"},
		[]string{defs[0].Name, defs[1].Name, defs[2].Name, defs[3].Name})

	info := defs[0]
	assert.Equal(t, dgo.UserApplicationCommand, info.Type)
	assert.Empty(t, info.Description)
	assert.Empty(t, info.Options)

	alpha := defs[1]
	require.NotNil(t, alpha.DefaultMemberPermissions)
	assert.Equal(t, int64(dgo.PermissionAdministrator), *alpha.DefaultMemberPermissions)
	require.NotNil(t, alpha.DMPermission)
	assert.False(t, *alpha.DMPermission)
	require.Len(t, alpha.Options, 1)
	assert.Equal(t, dgo.ApplicationCommandOptionInteger, alpha.Options[0].Type)

	tool := defs[2]
	require.Len(t, tool.Options, 2)
	assert.Equal(t, "a", tool.Options[0].Name)
	assert.Equal(t, dgo.ApplicationCommandOptionSubCommand, tool.Options[0].Type)
	require.Len(t, tool.Options[0].Options, 1)
	assert.Equal(t, "b", tool.Options[1].Name)
}

func TestRegistryBindIDs(t *testing.T) {
	r := NewRegistry()
	r.MustAdd("ping", New("Ping").Handler(nop))

	n := r.BindIDs([]*dgo.ApplicationCommand{
		{ID: "1", Name: "ping"},
		{ID: "2", Name: "unknown"},
		{Name: "ping"},
		nil,
	})
	assert.Equal(t, 1, n)

	cmd, ok := r.Lookup("1", "")
	require.True(t, ok)
	assert.Equal(t, "ping", cmd.Name())

	_, ok = r.Lookup("2", "unknown")
	assert.False(t, ok)

	id, ok := r.ID("ping")
	require.True(t, ok)
	assert.Equal(t, "1", id)
}

func TestRegistryConcurrentReads(t *testing.T) {
	r := NewRegistry()
	r.MustAdd("ping", New("Ping").Handler(nop))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i == 0 {
				r.BindIDs([]*dgo.ApplicationCommand{{ID: "1", Name: "ping"}})
				return
			}
			_, ok := r.Lookup("1", "ping")
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}
