package builtin

import (
	"context"
	"fmt"
	"strings"

	"forge.capytal.company/capytal/slashkit/commands"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

const userInfoName = "User Info"

func userInfo() commands.Command {
	return commands.UserCommand(func(_ context.Context, ev *commands.Event) error {
		u := ev.TargetUser()
		if u == nil {
			return ev.RespondEphemeral("No user selected.")
		}

		embed := &dgo.MessageEmbed{
			Title: u.Username,
			Fields: []*dgo.MessageEmbedField{
				{Name: "ID", Value: fmt.Sprintf("`%s`", u.ID), Inline: true},
				{Name: "Bot", Value: fmt.Sprint(u.Bot), Inline: true},
			},
		}
		if u.Username == "" {
			embed.Title = u.Mention()
		}
		if u.GlobalName != "" {
			embed.Description = u.GlobalName
		}
		if u.Avatar != "" {
			embed.Thumbnail = &dgo.MessageEmbedThumbnail{URL: u.AvatarURL("128")}
		}
		if created, err := dgo.SnowflakeTimestamp(u.ID); err == nil {
			embed.Fields = append(embed.Fields, &dgo.MessageEmbedField{
				Name:  "Account created",
				Value: humanize.Time(created),
			})
		}

		if m := ev.TargetMember(); m != nil {
			if !m.JoinedAt.IsZero() {
				embed.Fields = append(embed.Fields, &dgo.MessageEmbedField{
					Name:  "Joined server",
					Value: humanize.Time(m.JoinedAt),
				})
			}
			if len(m.Roles) > 0 {
				roles := make([]string, 0, len(m.Roles))
				for _, r := range m.Roles {
					roles = append(roles, "<@&"+r+">")
				}
				embed.Fields = append(embed.Fields, &dgo.MessageEmbedField{
					Name:  fmt.Sprintf("Roles (%d)", len(m.Roles)),
					Value: strings.Join(roles, " "),
				})
			}
		}

		return ev.RespondData(&dgo.InteractionResponseData{
			Embeds: []*dgo.MessageEmbed{embed},
			Flags:  dgo.MessageFlagsEphemeral,
		})
	})
}
