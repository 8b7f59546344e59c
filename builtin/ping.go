package builtin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forge.capytal.company/capytal/slashkit/commands"

	"github.com/dustin/go-humanize"
)

func ping(startedAt func() time.Time) commands.Command {
	return commands.New("Shows the bot latency and uptime").
		Handler(func(_ context.Context, ev *commands.Event) error {
			var s strings.Builder
			s.WriteString("Pong!")

			if sess, ok := ev.Session(); ok {
				fmt.Fprintf(&s, " Gateway latency: %s.", sess.HeartbeatLatency().Round(time.Millisecond))
			}
			if startedAt != nil {
				if t := startedAt(); !t.IsZero() {
					fmt.Fprintf(&s, " Connected %s.", humanize.Time(t))
				}
			}

			return ev.RespondEphemeral(s.String())
		})
}
