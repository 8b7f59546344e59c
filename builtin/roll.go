package builtin

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"forge.capytal.company/capytal/slashkit/commands"
)

var dice = []int{4, 6, 8, 10, 12, 20}

// roll builds the dice command. intn returns a number in [0, n); nil uses
// math/rand.
func roll(intn func(n int) int) commands.Command {
	if intn == nil {
		intn = rand.IntN
	}

	choices := make([]commands.Choice, 0, len(dice))
	for _, d := range dice {
		choices = append(choices, commands.Choice{Name: fmt.Sprintf("d%d", d), Value: d})
	}

	return commands.New("Rolls some dice").
		Options(
			commands.Integer("sides", "Which die to roll").Required().Choices(choices...),
			commands.Integer("count", "How many dice, 1 by default").MinValue(1).MaxValue(10),
		).
		Handler(func(_ context.Context, ev *commands.Event, opts commands.Values) error {
			sides := int(opts.IntValue("sides"))
			count := 1
			if opts.Has("count") {
				count = int(opts.IntValue("count"))
			}
			if sides < 1 || count < 1 || count > 10 {
				return ev.RespondEphemeral("That is not a roll I can make.")
			}

			rolls := make([]string, count)
			total := 0
			for i := range rolls {
				n := intn(sides) + 1
				total += n
				rolls[i] = fmt.Sprint(n)
			}

			msg := fmt.Sprintf("🎲 %dd%d: **%d**", count, sides, total)
			if count > 1 {
				msg += fmt.Sprintf(" (%s)", strings.Join(rolls, ", "))
			}
			return ev.Respond(msg)
		})
}
