// Package builtin holds the commands every slashkit bot ships with.
package builtin

import (
	"context"
	"time"

	"forge.capytal.company/capytal/slashkit/commands"
	"forge.capytal.company/capytal/slashkit/db"

	"github.com/hashicorp/go-multierror"
)

// ReportStore reads back the error reports saved by the event handlers.
type ReportStore interface {
	Report(id string) (db.Report, error)
	Reports(guildID string, limit int) ([]db.Report, error)
	ReportIDs(guildID, prefix string, limit int) ([]string, error)
}

// Syncer republishes the registry on demand.
type Syncer interface {
	Sync(ctx context.Context) error
	Scopes() []string
}

type Deps struct {
	Reports   ReportStore
	Syncer    Syncer
	StartedAt func() time.Time
}

// Register adds the builtin commands to registry and their component
// handlers to components.
func Register(registry *commands.Registry, components *commands.Components, deps Deps) error {
	var errs *multierror.Error

	add := func(name string, cmd commands.Command) {
		if err := registry.Add(name, cmd); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	handle := func(prefix string, fn commands.ComponentHandlerFunc) {
		if err := components.Handle(prefix, fn); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	add("ping", ping(deps.StartedAt))
	add("echo", echo())
	handle(echoDeleteID, echoDelete)
	add("roll", roll(nil))
	add(userInfoName, userInfo())
	if deps.Reports != nil && deps.Syncer != nil {
		add("admin", newAdmin(registry, deps.Syncer, deps.Reports))
	}

	return errs.ErrorOrNil()
}
