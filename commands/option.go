package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"

	dgo "github.com/bwmarrin/discordgo"
)

// OptionKind is the value type of an Option.
type OptionKind int

const (
	invalidKind OptionKind = iota
	KindAttachment
	KindBoolean
	KindChannel
	KindInteger
	KindMentionable
	KindNumber
	KindRole
	KindString
	KindUser
)

func (k OptionKind) String() string {
	switch k {
	case KindAttachment:
		return "attachment"
	case KindBoolean:
		return "boolean"
	case KindChannel:
		return "channel"
	case KindInteger:
		return "integer"
	case KindMentionable:
		return "mentionable"
	case KindNumber:
		return "number"
	case KindRole:
		return "role"
	case KindString:
		return "string"
	case KindUser:
		return "user"
	default:
		return fmt.Sprintf("OptionKind(%d)", int(k))
	}
}

func (k OptionKind) wireType() (dgo.ApplicationCommandOptionType, error) {
	switch k {
	case KindAttachment:
		return dgo.ApplicationCommandOptionAttachment, nil
	case KindBoolean:
		return dgo.ApplicationCommandOptionBoolean, nil
	case KindChannel:
		return dgo.ApplicationCommandOptionChannel, nil
	case KindInteger:
		return dgo.ApplicationCommandOptionInteger, nil
	case KindMentionable:
		return dgo.ApplicationCommandOptionMentionable, nil
	case KindNumber:
		return dgo.ApplicationCommandOptionNumber, nil
	case KindRole:
		return dgo.ApplicationCommandOptionRole, nil
	case KindString:
		return dgo.ApplicationCommandOptionString, nil
	case KindUser:
		return dgo.ApplicationCommandOptionUser, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedOptionType, k)
	}
}

// Choice is one allowed value of an option, or one autocomplete candidate.
type Choice struct {
	Name              string
	Value             any
	NameLocalizations map[dgo.Locale]string
}

// Candidates turns a name to value map into choices sorted by name.
func Candidates(m map[string]any) []Choice {
	cs := make([]Choice, 0, len(m))
	for n, v := range m {
		cs = append(cs, Choice{Name: n, Value: v})
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].Name < cs[j].Name })
	return cs
}

// AutocompleteFunc returns candidates for the partially typed value of an
// option. opts holds the other options the user already filled in.
type AutocompleteFunc func(ctx context.Context, ev *Event, partial string, opts Values) ([]Choice, error)

// Option describes one named input of a command or subcommand. Every method
// returns a modified copy; an Option can be reused across commands safely.
type Option struct {
	name        string
	description string
	kind        OptionKind
	required    bool

	choices      []Choice
	autocomplete AutocompleteFunc

	minValue     *float64
	maxValue     *float64
	minLength    *int
	maxLength    *int
	channelTypes []dgo.ChannelType

	nameLocalizations        map[dgo.Locale]string
	descriptionLocalizations map[dgo.Locale]string
}

func newOption(kind OptionKind, name, description string) Option {
	return Option{name: name, description: description, kind: kind}
}

func String(name, description string) Option      { return newOption(KindString, name, description) }
func Integer(name, description string) Option     { return newOption(KindInteger, name, description) }
func Number(name, description string) Option      { return newOption(KindNumber, name, description) }
func Boolean(name, description string) Option     { return newOption(KindBoolean, name, description) }
func User(name, description string) Option        { return newOption(KindUser, name, description) }
func Channel(name, description string) Option     { return newOption(KindChannel, name, description) }
func Role(name, description string) Option        { return newOption(KindRole, name, description) }
func Mentionable(name, description string) Option { return newOption(KindMentionable, name, description) }
func Attachment(name, description string) Option  { return newOption(KindAttachment, name, description) }

func (o Option) Name() string        { return o.name }
func (o Option) Description() string { return o.description }
func (o Option) Kind() OptionKind    { return o.kind }
func (o Option) IsRequired() bool    { return o.required }

// Autocompletable reports whether the option has an autocomplete resolver.
func (o Option) Autocompletable() bool { return o.autocomplete != nil }

func (o Option) clone() Option {
	o.choices = slices.Clone(o.choices)
	o.channelTypes = slices.Clone(o.channelTypes)
	o.nameLocalizations = maps.Clone(o.nameLocalizations)
	o.descriptionLocalizations = maps.Clone(o.descriptionLocalizations)
	return o
}

func (o Option) Required() Option {
	o = o.clone()
	o.required = true
	return o
}

// Choices restricts the option to a closed set of values.
func (o Option) Choices(choices ...Choice) Option {
	o = o.clone()
	o.choices = append(o.choices, choices...)
	return o
}

func (o Option) Autocomplete(fn AutocompleteFunc) Option {
	o = o.clone()
	o.autocomplete = fn
	return o
}

func (o Option) MinValue(v float64) Option {
	o = o.clone()
	o.minValue = &v
	return o
}

// MaxValue sets the largest accepted value. discordgo omits a zero maximum
// when publishing, so MaxValue(0) is rejected by Registry.Add.
func (o Option) MaxValue(v float64) Option {
	o = o.clone()
	o.maxValue = &v
	return o
}

func (o Option) MinLength(n int) Option {
	o = o.clone()
	o.minLength = &n
	return o
}

// MaxLength sets the longest accepted string, 1 to 6000.
func (o Option) MaxLength(n int) Option {
	o = o.clone()
	o.maxLength = &n
	return o
}

func (o Option) ChannelTypes(types ...dgo.ChannelType) Option {
	o = o.clone()
	o.channelTypes = append(o.channelTypes, types...)
	return o
}

func (o Option) Localize(locale dgo.Locale, name, description string) Option {
	o = o.clone()
	if o.nameLocalizations == nil {
		o.nameLocalizations = map[dgo.Locale]string{}
	}
	if o.descriptionLocalizations == nil {
		o.descriptionLocalizations = map[dgo.Locale]string{}
	}
	if name != "" {
		o.nameLocalizations[locale] = name
	}
	if description != "" {
		o.descriptionLocalizations[locale] = description
	}
	return o
}

func (o Option) definition() (*dgo.ApplicationCommandOption, error) {
	t, err := o.kind.wireType()
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", o.name, err)
	}

	def := &dgo.ApplicationCommandOption{
		Type:                     t,
		Name:                     o.name,
		NameLocalizations:        o.nameLocalizations,
		Description:              o.description,
		DescriptionLocalizations: o.descriptionLocalizations,
		ChannelTypes:             o.channelTypes,
		Required:                 o.required,
		Autocomplete:             o.autocomplete != nil,
		MinValue:                 o.minValue,
		MinLength:                o.minLength,
	}
	if o.maxValue != nil {
		def.MaxValue = *o.maxValue
	}
	if o.maxLength != nil {
		def.MaxLength = *o.maxLength
	}
	for _, c := range o.choices {
		def.Choices = append(def.Choices, &dgo.ApplicationCommandOptionChoice{
			Name:              c.Name,
			NameLocalizations: c.NameLocalizations,
			Value:             c.Value,
		})
	}

	return def, nil
}
