package builtin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"forge.capytal.company/capytal/slashkit/commands"
	"forge.capytal.company/capytal/slashkit/db"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

const (
	defaultReportsLimit = 10
	maxMessageLen       = 2000
)

type admin struct {
	registry *commands.Registry
	syncer   Syncer
	reports  ReportStore
}

func newAdmin(registry *commands.Registry, syncer Syncer, reports ReportStore) commands.Command {
	a := admin{registry, syncer, reports}

	return commands.New("Bot administration").
		DefaultMemberPermissions(dgo.PermissionAdministrator).
		DMPermission(false).
		SubcommandGroups(map[string]commands.SubcommandGroup{
			"commands": commands.Group("Published commands", map[string]commands.Subcommand{
				"list": commands.Sub("Lists every command and its ID").Handler(a.listCommands),
				"sync": commands.Sub("Republishes every command now").Handler(a.sync),
			}),
			"errors": commands.Group("Error reports", map[string]commands.Subcommand{
				"list": commands.Sub("Lists the latest error reports of this server").
					Options(commands.Integer("limit", "How many reports to show").MinValue(1).MaxValue(25)).
					Handler(a.listReports),
				"show": commands.Sub("Shows one error report").
					Options(commands.String("id", "Report ID").Required().Autocomplete(a.completeReportID)).
					Handler(a.showReport),
			}),
		})
}

func (a admin) listCommands(_ context.Context, ev *commands.Event) error {
	var s strings.Builder
	for _, name := range a.registry.Names() {
		if id, ok := a.registry.ID(name); ok {
			fmt.Fprintf(&s, "- `%s` `%s`\n", name, id)
		} else {
			fmt.Fprintf(&s, "- `%s` *not published*\n", name)
		}
	}

	scopes := make([]string, 0, len(a.syncer.Scopes()))
	for _, sc := range a.syncer.Scopes() {
		if sc == "" {
			sc = "global"
		}
		scopes = append(scopes, sc)
	}
	fmt.Fprintf(&s, "Scopes: %s", strings.Join(scopes, ", "))

	return ev.RespondEphemeral(truncate(s.String(), maxMessageLen))
}

func (a admin) sync(ctx context.Context, ev *commands.Event) error {
	if err := ev.Defer(true); err != nil {
		return err
	}

	if err := a.syncer.Sync(ctx); err != nil {
		if eerr := ev.Edit("Failed to republish commands."); eerr != nil {
			return errors.Join(err, eerr)
		}
		return err
	}

	return ev.Edit(fmt.Sprintf("Republished %d commands to %d scopes.",
		a.registry.Len(), len(a.syncer.Scopes())))
}

func (a admin) listReports(_ context.Context, ev *commands.Event, opts commands.Values) error {
	limit := defaultReportsLimit
	if opts.Has("limit") {
		limit = int(opts.IntValue("limit"))
	}

	reports, err := a.reports.Reports(ev.GuildID, limit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return ev.RespondEphemeral("No error reports.")
	}

	var s strings.Builder
	for _, r := range reports {
		line, _, _ := strings.Cut(r.Message, "\n")
		fmt.Fprintf(&s, "- `%s` %s `%s` %s\n",
			r.ID, humanize.Time(r.CreatedAt), r.Command, truncate(line, 80))
	}

	return ev.RespondEphemeral(truncate(s.String(), maxMessageLen))
}

func (a admin) showReport(_ context.Context, ev *commands.Event, opts commands.Values) error {
	id := strings.TrimSpace(opts.StringValue("id"))

	r, err := a.reports.Report(id)
	if errors.Is(err, db.ErrNotFound) || (err == nil && r.GuildID != ev.GuildID) {
		return ev.RespondEphemeral(fmt.Sprintf("No report with ID `%s`.", id))
	} else if err != nil {
		return err
	}

	header := fmt.Sprintf("Report `%s`, %s\nCommand: `%s` User: `%s` Channel: `%s`\n",
		r.ID, humanize.Time(r.CreatedAt), r.Command, r.UserID, r.ChannelID)
	body := "```\n" + truncate(r.Message, maxMessageLen-len(header)-len("```\n\n```")) + "\n```"

	return ev.RespondEphemeral(header + body)
}

func (a admin) completeReportID(_ context.Context, ev *commands.Event, partial string, _ commands.Values) ([]commands.Choice, error) {
	ids, err := a.reports.ReportIDs(ev.GuildID, strings.TrimSpace(partial), 25)
	if err != nil {
		return nil, err
	}

	choices := make([]commands.Choice, 0, len(ids))
	for _, id := range ids {
		choices = append(choices, commands.Choice{Name: id, Value: id})
	}
	return choices, nil
}

// truncate cuts s to at most limit bytes, on a rune boundary.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	const ellipsis = "…"
	cut := limit - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
