package commands

import (
	"fmt"
	"maps"
	"slices"

	dgo "github.com/bwmarrin/discordgo"
)

// Equal reports whether two command definitions would publish the same
// command. Server-assigned fields (ID, ApplicationID, GuildID, Version) are
// ignored. The returned error describes the first difference found.
func Equal(left, right *dgo.ApplicationCommand) (bool, error) {
	switch {
	case left == nil || right == nil:
		if left != right {
			return false, fmt.Errorf("Command is nil. Left: %v Right: %v", left == nil, right == nil)
		}
		return true, nil

	case commandType(left.Type) != commandType(right.Type):
		return false, diff("Type", left.Type, right.Type)

	case left.Name != right.Name:
		return false, diff("Name", left.Name, right.Name)

	case !equalLocales(deref(left.NameLocalizations), deref(right.NameLocalizations)):
		return false, diff("NameLocalizations", left.NameLocalizations, right.NameLocalizations)

	case !equalOptional(left.DefaultMemberPermissions, right.DefaultMemberPermissions):
		return false, diff("DefaultMemberPermissions", left.DefaultMemberPermissions, right.DefaultMemberPermissions)

	case !equalPtr(left.DMPermission, right.DMPermission, true):
		return false, diff("DMPermission", left.DMPermission, right.DMPermission)

	case !equalPtr(left.NSFW, right.NSFW, false):
		return false, diff("NSFW", left.NSFW, right.NSFW)

	case left.Description != right.Description:
		return false, diff("Description", left.Description, right.Description)

	case !equalLocales(deref(left.DescriptionLocalizations), deref(right.DescriptionLocalizations)):
		return false, diff("DescriptionLocalizations", left.DescriptionLocalizations, right.DescriptionLocalizations)
	}

	if err := equalOptions(left.Options, right.Options); err != nil {
		return false, fmt.Errorf("Command %q: %w", left.Name, err)
	}

	return true, nil
}

// EqualSet reports whether two sets of definitions match by name, ignoring
// order.
func EqualSet(left, right []*dgo.ApplicationCommand) (bool, error) {
	if len(left) != len(right) {
		return false, diff("Commands count", len(left), len(right))
	}

	byName := make(map[string]*dgo.ApplicationCommand, len(right))
	for _, c := range right {
		byName[c.Name] = c
	}

	for _, l := range left {
		r, ok := byName[l.Name]
		if !ok {
			return false, fmt.Errorf("Command %q is missing on the right", l.Name)
		}
		if ok, err := Equal(l, r); !ok {
			return false, err
		}
	}

	return true, nil
}

func equalOptions(left, right []*dgo.ApplicationCommandOption) error {
	if len(left) != len(right) {
		return diff("Options count", len(left), len(right))
	}
	for i := range left {
		if err := equalOption(left[i], right[i]); err != nil {
			return fmt.Errorf("Option element of index %d has difference: %w", i, err)
		}
	}
	return nil
}

func equalOption(left, right *dgo.ApplicationCommandOption) error {
	switch {
	case left.Type != right.Type:
		return diff("Type", left.Type, right.Type)

	case left.Name != right.Name:
		return diff("Name", left.Name, right.Name)

	case !equalLocales(left.NameLocalizations, right.NameLocalizations):
		return diff("NameLocalizations", left.NameLocalizations, right.NameLocalizations)

	case left.Description != right.Description:
		return diff("Description", left.Description, right.Description)

	case !equalLocales(left.DescriptionLocalizations, right.DescriptionLocalizations):
		return diff("DescriptionLocalizations", left.DescriptionLocalizations, right.DescriptionLocalizations)

	case !slices.Equal(left.ChannelTypes, right.ChannelTypes):
		return diff("ChannelTypes", left.ChannelTypes, right.ChannelTypes)

	case left.Required != right.Required:
		return diff("Required", left.Required, right.Required)

	case left.Autocomplete != right.Autocomplete:
		return diff("Autocomplete", left.Autocomplete, right.Autocomplete)

	case !equalChoices(left.Choices, right.Choices):
		return diff("Choices", left.Choices, right.Choices)

	case !equalOptional(left.MinValue, right.MinValue):
		return diff("MinValue", left.MinValue, right.MinValue)

	case left.MaxValue != right.MaxValue:
		return diff("MaxValue", left.MaxValue, right.MaxValue)

	case !equalOptional(left.MinLength, right.MinLength):
		return diff("MinLength", left.MinLength, right.MinLength)

	case left.MaxLength != right.MaxLength:
		return diff("MaxLength", left.MaxLength, right.MaxLength)
	}

	return equalOptions(left.Options, right.Options)
}

// Choice values come back from Discord decoded as JSON, so an int64 choice
// is a float64 on the remote side. They are compared by their printed form.
func equalChoices(left, right []*dgo.ApplicationCommandOptionChoice) bool {
	return slices.EqualFunc(left, right, func(l, r *dgo.ApplicationCommandOptionChoice) bool {
		return l.Name == r.Name &&
			equalLocales(l.NameLocalizations, r.NameLocalizations) &&
			fmt.Sprint(l.Value) == fmt.Sprint(r.Value)
	})
}

func equalLocales(left, right map[dgo.Locale]string) bool {
	return maps.Equal(left, right)
}

func equalPtr[T comparable](left, right *T, def T) bool {
	l, r := def, def
	if left != nil {
		l = *left
	}
	if right != nil {
		r = *right
	}
	return l == r
}

// equalOptional compares fields where unset and the zero value mean
// different things to Discord, such as a "0" permission mask.
func equalOptional[T comparable](left, right *T) bool {
	if left == nil || right == nil {
		return left == right
	}
	return *left == *right
}

func deref[T any](p *map[dgo.Locale]T) map[dgo.Locale]T {
	if p == nil {
		return nil
	}
	return *p
}

// Discord omits the type of chat input commands in some responses.
func commandType(t dgo.ApplicationCommandType) dgo.ApplicationCommandType {
	if t == 0 {
		return dgo.ChatApplicationCommand
	}
	return t
}

func diff(field string, left, right any) error {
	return fmt.Errorf("%s is not equal. Left: %#v Right: %#v", field, left, right)
}
