package commands

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	dgo "github.com/bwmarrin/discordgo"
)

type rawOptions = map[string]*dgo.ApplicationCommandInteractionDataOption

func getOptions(opts []*dgo.ApplicationCommandInteractionDataOption) rawOptions {
	m := make(rawOptions, len(opts))

	for _, opt := range opts {
		if opt != nil {
			m[opt.Name] = opt
		}
	}

	return m
}

// extract reads the value of o from the raw interaction options. An absent
// option is reported as not present; required options, choices and ranges
// are validated by Discord before the interaction reaches us.
func extract(o Option, raw rawOptions, res *dgo.ApplicationCommandInteractionDataResolved) (any, bool, error) {
	r, ok := raw[o.name]
	if !ok || r.Value == nil {
		return nil, false, nil
	}

	want, err := o.kind.wireType()
	if err != nil {
		return nil, false, err
	}
	if r.Type != want {
		return nil, false, fmt.Errorf("%w: option %q has type %v, declared %s", ErrOptionTypeMismatch, o.name, r.Type, o.kind)
	}

	mismatch := func() error {
		return fmt.Errorf("%w: option %q has value %#v, declared %s", ErrOptionTypeMismatch, o.name, r.Value, o.kind)
	}

	switch o.kind {
	case KindString:
		s, ok := r.Value.(string)
		if !ok {
			return nil, false, mismatch()
		}
		return s, true, nil

	case KindBoolean:
		b, ok := r.Value.(bool)
		if !ok {
			return nil, false, mismatch()
		}
		return b, true, nil

	case KindInteger:
		i, ok := toInt64(r.Value)
		if !ok {
			return nil, false, mismatch()
		}
		return i, true, nil

	case KindNumber:
		f, ok := toFloat64(r.Value)
		if !ok {
			return nil, false, mismatch()
		}
		return f, true, nil
	}

	id, ok := r.Value.(string)
	if !ok {
		return nil, false, mismatch()
	}
	if res == nil {
		res = &dgo.ApplicationCommandInteractionDataResolved{}
	}

	switch o.kind {
	case KindUser:
		return resolveUser(res, id), true, nil

	case KindChannel:
		if c, ok := res.Channels[id]; ok && c != nil {
			return c, true, nil
		}
		return &dgo.Channel{ID: id}, true, nil

	case KindRole:
		return resolveRole(res, id), true, nil

	case KindMentionable:
		if _, ok := res.Roles[id]; ok {
			return MentionableValue{Role: resolveRole(res, id)}, true, nil
		}
		return MentionableValue{User: resolveUser(res, id)}, true, nil

	case KindAttachment:
		if a, ok := res.Attachments[id]; ok && a != nil {
			return a, true, nil
		}
		return &dgo.MessageAttachment{ID: id}, true, nil
	}

	return nil, false, fmt.Errorf("%w: %s", ErrUnsupportedOptionType, o.kind)
}

func extractAll(opts []Option, raw rawOptions, res *dgo.ApplicationCommandInteractionDataResolved) (Values, error) {
	values := make(Values, len(opts))
	for _, o := range opts {
		v, ok, err := extract(o, raw, res)
		if err != nil {
			return nil, err
		}
		if ok {
			values[o.name] = v
		}
	}
	return values, nil
}

func resolveUser(res *dgo.ApplicationCommandInteractionDataResolved, id string) *dgo.User {
	if u, ok := res.Users[id]; ok && u != nil {
		return u
	}
	if m, ok := res.Members[id]; ok && m != nil && m.User != nil {
		return m.User
	}
	return &dgo.User{ID: id}
}

func resolveRole(res *dgo.ApplicationCommandInteractionDataResolved, id string) *dgo.Role {
	if r, ok := res.Roles[id]; ok && r != nil {
		return r
	}
	return &dgo.Role{ID: id}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
