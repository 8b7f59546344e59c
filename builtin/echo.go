package builtin

import (
	"context"

	"forge.capytal.company/capytal/slashkit/commands"

	dgo "github.com/bwmarrin/discordgo"
)

const echoDeleteID = "echo-delete"

func echo() commands.Command {
	return commands.New("Repeats what you say").
		Options(
			commands.String("text", "What to repeat").Required().MaxLength(2000),
			commands.Boolean("ephemeral", "Only show the answer to you"),
		).
		Handler(func(_ context.Context, ev *commands.Event, opts commands.Values) error {
			data := &dgo.InteractionResponseData{
				Content:         opts.StringValue("text"),
				AllowedMentions: &dgo.MessageAllowedMentions{},
			}

			if opts.BoolValue("ephemeral") {
				data.Flags = dgo.MessageFlagsEphemeral
				return ev.RespondData(data)
			}

			if u := ev.Author(); u != nil {
				data.Components = []dgo.MessageComponent{dgo.ActionsRow{
					Components: []dgo.MessageComponent{dgo.Button{
						Label:    "Delete",
						Style:    dgo.DangerButton,
						CustomID: commands.CustomID(echoDeleteID, u.ID),
					}},
				}}
			}
			return ev.RespondData(data)
		})
}

type messageDeleter interface {
	ChannelMessageDelete(channelID, messageID string, options ...dgo.RequestOption) error
}

// echoDelete handles the Delete button of an echoed message. args is the ID
// of the user who may delete it.
func echoDelete(_ context.Context, ev *commands.Event, args string) error {
	if u := ev.Author(); u == nil || u.ID != args {
		return ev.RespondEphemeral("Only the person who used the command can delete this message.")
	}

	if d, ok := ev.Responder.(messageDeleter); ok && ev.Message != nil {
		if err := d.ChannelMessageDelete(ev.ChannelID, ev.Message.ID); err != nil {
			return err
		}
		return ev.RespondEphemeral("Message deleted.")
	}

	return ev.RespondUpdate(&dgo.InteractionResponseData{
		Content:    "*Message deleted.*",
		Components: []dgo.MessageComponent{},
	})
}
