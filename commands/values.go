package commands

import (
	dgo "github.com/bwmarrin/discordgo"
)

// MentionableValue is the value of a mentionable option: exactly one of User
// or Role is set.
type MentionableValue struct {
	User *dgo.User
	Role *dgo.Role
}

// Values holds the extracted option values of one invocation, keyed by
// option name. Optional options the user left empty are absent.
type Values map[string]any

// Value returns the value of the named option if it is present and of type T.
func Value[T any](v Values, name string) (T, bool) {
	raw, ok := v[name]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := raw.(T)
	return t, ok
}

func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

func (v Values) StringValue(name string) string {
	s, _ := Value[string](v, name)
	return s
}

func (v Values) IntValue(name string) int64 {
	i, _ := Value[int64](v, name)
	return i
}

func (v Values) FloatValue(name string) float64 {
	f, _ := Value[float64](v, name)
	return f
}

func (v Values) BoolValue(name string) bool {
	b, _ := Value[bool](v, name)
	return b
}

func (v Values) UserValue(name string) *dgo.User {
	u, _ := Value[*dgo.User](v, name)
	return u
}

func (v Values) ChannelValue(name string) *dgo.Channel {
	c, _ := Value[*dgo.Channel](v, name)
	return c
}

func (v Values) RoleValue(name string) *dgo.Role {
	r, _ := Value[*dgo.Role](v, name)
	return r
}

func (v Values) MentionableValue(name string) MentionableValue {
	m, _ := Value[MentionableValue](v, name)
	return m
}

func (v Values) AttachmentValue(name string) *dgo.MessageAttachment {
	a, _ := Value[*dgo.MessageAttachment](v, name)
	return a
}
