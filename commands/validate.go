package commands

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/hashicorp/go-multierror"
)

const (
	maxOptions       = 25
	maxNameLen       = 32
	maxDescLen       = 100
	maxChoices       = 25
	maxAutocompleted = 25
	maxStringLen     = 6000
)

var chatInputName = regexp.MustCompile(`^[-_\p{L}\p{N}]{1,32}$`)

// validate reports every problem of the command tree at once.
func (c Command) validate() error {
	var errs *multierror.Error
	add := func(path string, err error) {
		errs = multierror.Append(errs, &DefinitionError{Path: path, Err: err})
	}
	path := commandPath(c.name)

	if c.body == nil {
		add(path, ErrMissingHandler)
		return errs.ErrorOrNil()
	}

	if c.kind != dgo.ChatApplicationCommand {
		if n := utf8.RuneCountInString(c.name); n < 1 || n > maxNameLen {
			add(path, fmt.Errorf("%w: context menu names are 1 to %d characters", ErrInvalidName, maxNameLen))
		}
		if b, ok := c.body.(handlerBody); !ok || b.handler == nil {
			add(path, ErrMissingHandler)
		}
		return errs.ErrorOrNil()
	}

	if err := validateChatNode(c.name, c.description); err != nil {
		add(path, err)
	}

	switch b := c.body.(type) {
	case handlerBody:
		if b.handler == nil {
			add(path, ErrMissingHandler)
		}

	case optionsBody:
		for _, err := range validateOptions(b) {
			add(path, err)
		}

	case subcommandsBody:
		if len(b.subcommands) == 0 {
			add(path, ErrEmptySubcommands)
		}
		if len(b.subcommands) > maxOptions {
			add(path, fmt.Errorf("%w: %d subcommands", ErrTooManyOptions, len(b.subcommands)))
		}
		for _, name := range sortedKeys(b.subcommands) {
			validateSubcommand(b.subcommands[name], commandPath(c.name, name), add)
		}

	case groupsBody:
		if len(b.groups) == 0 {
			add(path, ErrEmptySubcommands)
		}
		if len(b.groups) > maxOptions {
			add(path, fmt.Errorf("%w: %d groups", ErrTooManyOptions, len(b.groups)))
		}
		for _, gname := range sortedKeys(b.groups) {
			g := b.groups[gname]
			gpath := commandPath(c.name, gname)
			if err := validateChatNode(gname, g.description); err != nil {
				add(gpath, err)
			}
			if len(g.subcommands) == 0 {
				add(gpath, ErrEmptySubcommands)
			}
			if len(g.subcommands) > maxOptions {
				add(gpath, fmt.Errorf("%w: %d subcommands", ErrTooManyOptions, len(g.subcommands)))
			}
			for _, name := range sortedKeys(g.subcommands) {
				validateSubcommand(g.subcommands[name], commandPath(c.name, gname, name), add)
			}
		}
	}

	return errs.ErrorOrNil()
}

func validateSubcommand(s Subcommand, path string, add func(string, error)) {
	if err := validateChatNode(s.name, s.description); err != nil {
		add(path, err)
	}
	switch b := s.body.(type) {
	case nil:
		add(path, ErrMissingHandler)
	case handlerBody:
		if b.handler == nil {
			add(path, ErrMissingHandler)
		}
	case optionsBody:
		for _, err := range validateOptions(b) {
			add(path, err)
		}
	}
}

func validateOptions(b optionsBody) []error {
	var errs []error
	if b.handler == nil {
		errs = append(errs, ErrMissingHandler)
	}
	if len(b.options) == 0 {
		errs = append(errs, ErrEmptyOptions)
	}
	if len(b.options) > maxOptions {
		errs = append(errs, fmt.Errorf("%w: %d options", ErrTooManyOptions, len(b.options)))
	}

	seen := make(map[string]bool, len(b.options))
	optional := false
	for _, o := range b.options {
		if seen[o.name] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateOption, o.name))
		}
		seen[o.name] = true

		if err := validateChatNode(o.name, o.description); err != nil {
			errs = append(errs, fmt.Errorf("option %q: %w", o.name, err))
		}
		if _, err := o.kind.wireType(); err != nil {
			errs = append(errs, fmt.Errorf("option %q: %w", o.name, err))
		}
		if len(o.choices) > 0 && o.autocomplete != nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrChoicesWithAutocomplete, o.name))
		}
		if len(o.choices) > maxChoices {
			errs = append(errs, fmt.Errorf("%w: option %q has %d choices", ErrTooManyOptions, o.name, len(o.choices)))
		}
		for _, err := range validateOptionSettings(o) {
			errs = append(errs, fmt.Errorf("option %q: %w", o.name, err))
		}

		if !o.required {
			optional = true
		} else if optional {
			errs = append(errs, fmt.Errorf("%w: %q", ErrOptionOrder, o.name))
		}
	}

	return errs
}

// validateOptionSettings rejects settings Discord refuses for the option's
// kind, which would otherwise fail the whole publication.
func validateOptionSettings(o Option) []error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidOptionSetting}, args...)...))
	}

	numeric := o.kind == KindInteger || o.kind == KindNumber
	textual := o.kind == KindString

	if len(o.choices) > 0 && !numeric && !textual {
		invalid("choices on a %s option", o.kind)
	}
	if o.autocomplete != nil && !numeric && !textual {
		invalid("autocomplete on a %s option", o.kind)
	}
	if (o.minValue != nil || o.maxValue != nil) && !numeric {
		invalid("value range on a %s option", o.kind)
	}
	if (o.minLength != nil || o.maxLength != nil) && !textual {
		invalid("length range on a %s option", o.kind)
	}
	if len(o.channelTypes) > 0 && o.kind != KindChannel {
		invalid("channel types on a %s option", o.kind)
	}

	if o.maxValue != nil && *o.maxValue == 0 {
		invalid("a maximum value of 0 cannot be published")
	}
	if o.minValue != nil && o.maxValue != nil && *o.minValue > *o.maxValue {
		invalid("minimum value %v is above maximum %v", *o.minValue, *o.maxValue)
	}
	if o.minLength != nil && (*o.minLength < 0 || *o.minLength > maxStringLen) {
		invalid("minimum length %d, want 0 to %d", *o.minLength, maxStringLen)
	}
	if o.maxLength != nil && (*o.maxLength < 1 || *o.maxLength > maxStringLen) {
		invalid("maximum length %d, want 1 to %d", *o.maxLength, maxStringLen)
	}
	if o.minLength != nil && o.maxLength != nil && *o.minLength > *o.maxLength {
		invalid("minimum length %d is above maximum %d", *o.minLength, *o.maxLength)
	}

	for _, c := range o.choices {
		if !choiceFits(o.kind, c.Value) {
			invalid("choice %q has a %T value", c.Name, c.Value)
		}
	}

	return errs
}

func choiceFits(kind OptionKind, v any) bool {
	switch kind {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInteger:
		switch n := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
			return true
		case float64:
			return n == math.Trunc(n)
		}
	case KindNumber:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, float32, float64:
			return true
		}
	}
	return false
}

func validateChatNode(name, description string) error {
	var errs []error
	if !chatInputName.MatchString(name) || strings.ToLower(name) != name {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidName, name))
	}
	if n := utf8.RuneCountInString(description); n < 1 || n > maxDescLen {
		errs = append(errs, fmt.Errorf("%w: %d characters, want 1 to %d", ErrInvalidDescription, n, maxDescLen))
	}
	return errors.Join(errs...)
}
