package commands

import (
	"testing"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionMethodsReturnCopies(t *testing.T) {
	base := String("text", "Text").Choices(Choice{Name: "a", Value: "a"})

	required := base.Required()
	more := base.Choices(Choice{Name: "b", Value: "b"})

	assert.False(t, base.IsRequired())
	assert.True(t, required.IsRequired())
	assert.Len(t, base.choices, 1)
	assert.Len(t, more.choices, 2)
	assert.Len(t, required.choices, 1)

	localized := base.Localize(dgo.PortugueseBR, "texto", "Texto")
	assert.Nil(t, base.nameLocalizations)
	assert.Equal(t, "texto", localized.nameLocalizations[dgo.PortugueseBR])
}

func TestOptionDefinition(t *testing.T) {
	def, err := Integer("count", "How many").
		Required().
		MinValue(1).
		MaxValue(10).
		definition()
	require.NoError(t, err)

	assert.Equal(t, dgo.ApplicationCommandOptionInteger, def.Type)
	assert.Equal(t, "count", def.Name)
	assert.True(t, def.Required)
	require.NotNil(t, def.MinValue)
	assert.Equal(t, 1.0, *def.MinValue)
	assert.Equal(t, 10.0, def.MaxValue)
	assert.False(t, def.Autocomplete)

	def, err = Channel("where", "Channel").ChannelTypes(dgo.ChannelTypeGuildText).definition()
	require.NoError(t, err)
	assert.Equal(t, []dgo.ChannelType{dgo.ChannelTypeGuildText}, def.ChannelTypes)

	def, err = String("q", "Query").MinLength(2).MaxLength(20).Autocomplete(nil).definition()
	require.NoError(t, err)
	require.NotNil(t, def.MinLength)
	assert.Equal(t, 2, *def.MinLength)
	assert.Equal(t, 20, def.MaxLength)
}

func TestOptionDefinitionRejectsInvalidKind(t *testing.T) {
	_, err := Option{name: "broken", description: "Broken"}.definition()
	require.ErrorIs(t, err, ErrUnsupportedOptionType)
}

func TestOptionKindString(t *testing.T) {
	assert.Equal(t, "mentionable", KindMentionable.String())
	assert.Equal(t, "OptionKind(0)", OptionKind(0).String())
}

func TestCandidatesAreSortedByName(t *testing.T) {
	cs := Candidates(map[string]any{"b": 2, "a": 1, "c": 3})
	require.Len(t, cs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{cs[0].Name, cs[1].Name, cs[2].Name})
	assert.Equal(t, 1, cs[0].Value)
}
