package errors

import (
	"log/slog"

	dgo "github.com/bwmarrin/discordgo"
)

type ReadyErr struct {
	*defaultEventErr[*dgo.Ready]
	store ReportStore
}

func NewReadyErr(ev *dgo.Ready, store ReportStore, log *slog.Logger) *ReadyErr {
	data := map[string]any{
		"session_id": ev.SessionID,
	}
	if ev.User != nil {
		data["user_id"] = ev.User.ID
	}
	return &ReadyErr{
		defaultEventErr: newDefaultEventErr[*dgo.Ready]("Failed to publish commands", data, log),
		store:           store,
	}
}

func (d *ReadyErr) Join(errs ...error) EventErr {
	joined := d.defaultEventErr.join(errs...)
	if joined == nil {
		return nil
	}
	return &ReadyErr{defaultEventErr: joined, store: d.store}
}

func (d *ReadyErr) Send() error {
	if d.store == nil {
		return nil
	}
	return d.store.CreateReport(d.report())
}

// Reply is a no-op: there is no user to answer on Ready.
func (d *ReadyErr) Reply() error {
	return nil
}
