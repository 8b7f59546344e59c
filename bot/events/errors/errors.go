package errors

import (
	e "errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"

	"forge.capytal.company/capytal/slashkit/db"

	"github.com/google/uuid"
)

var ErrPanic = e.New("Handler panicked")

// EventErr is a failure while serving one gateway event. The event
// wrapper logs it, sends it to the report store and replies to the user.
type EventErr interface {
	error
	ID() string
	Unwrap() []error
	Log()
	Send() error
	Reply() error
}

// ReportStore persists error reports.
type ReportStore interface {
	CreateReport(db.Report) error
}

type defaultEventErr[E any] struct {
	id      string
	message string
	data    map[string]any
	logger  *slog.Logger
	errs    []error
}

func newDefaultEventErr[E any](message string, data map[string]any, logger *slog.Logger) *defaultEventErr[E] {
	if logger == nil {
		logger = slog.Default()
	}
	if data == nil {
		data = map[string]any{}
	}
	return &defaultEventErr[E]{
		id:      uuid.NewString(),
		message: message,
		data:    data,
		logger:  logger,
	}
}

// join returns a copy of d holding the non-nil errs, or nil if there are
// none.
func (d *defaultEventErr[E]) join(errs ...error) *defaultEventErr[E] {
	errs = slices.DeleteFunc(slices.Clone(errs), func(err error) bool { return err == nil })
	if len(errs) == 0 {
		return nil
	}
	return &defaultEventErr[E]{
		id:      d.id,
		message: d.message,
		data:    maps.Clone(d.data),
		logger:  d.logger,
		errs:    append(slices.Clone(d.errs), errs...),
	}
}

func (d *defaultEventErr[E]) ID() string {
	return d.id
}

func (d *defaultEventErr[E]) Unwrap() []error {
	return d.errs
}

func (d *defaultEventErr[E]) Error() string {
	var data []string
	for _, k := range slices.Sorted(maps.Keys(d.data)) {
		data = append(data, slog.Any(k, d.data[k]).String())
	}

	var s strings.Builder
	if d.message != "" {
		fmt.Fprintf(&s, "%s-ERRO(%s): %s %s", d.Event(), d.id, d.message, strings.Join(data, " "))
	} else {
		fmt.Fprintf(&s, "%s-ERRO(%s): %s", d.Event(), d.id, strings.Join(data, " "))
	}
	for _, err := range d.errs {
		s.WriteString("\n" + err.Error())
	}
	return s.String()
}

// Event names the gateway event type, e.g. "INTERACTIONCREATE".
func (d *defaultEventErr[E]) Event() string {
	t := reflect.TypeFor[E]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return strings.ToUpper(t.Name())
}

func (d *defaultEventErr[E]) Log() {
	args := []any{
		slog.String("report_id", d.id),
		slog.String("event", d.Event()),
	}
	for _, k := range slices.Sorted(maps.Keys(d.data)) {
		args = append(args, slog.Any(k, d.data[k]))
	}
	args = append(args, slog.Any("error", e.Join(d.errs...)))

	msg := d.message
	if msg == "" {
		msg = "Failed to handle event"
	}
	d.logger.Error(msg, args...)
}

func (d *defaultEventErr[E]) AddData(key string, v any) {
	d.data[key] = v
}

func (d *defaultEventErr[E]) report() db.Report {
	str := func(k string) string {
		s, _ := d.data[k].(string)
		return s
	}
	var msg string
	if err := e.Join(d.errs...); err != nil {
		msg = err.Error()
	}
	return db.Report{
		ID:        d.id,
		GuildID:   str("guild_id"),
		ChannelID: str("channel_id"),
		UserID:    str("user_id"),
		Command:   str("command"),
		Kind:      d.Event(),
		Message:   msg,
	}
}
