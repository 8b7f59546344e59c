package commands

import (
	"fmt"

	dgo "github.com/bwmarrin/discordgo"
)

func localized(m map[dgo.Locale]string) *map[dgo.Locale]string {
	if len(m) == 0 {
		return nil
	}
	return &m
}

// Definition serializes the command into the form published to Discord.
// Subcommands and groups are emitted sorted by name.
func (c Command) Definition() (*dgo.ApplicationCommand, error) {
	def := &dgo.ApplicationCommand{
		Name:                     c.name,
		NameLocalizations:        localized(c.meta.names),
		Type:                     c.kind,
		DefaultMemberPermissions: c.meta.permissions,
		DMPermission:             c.meta.dmPermission,
		NSFW:                     c.meta.nsfw,
	}
	if c.kind == dgo.ChatApplicationCommand {
		def.Description = c.description
		def.DescriptionLocalizations = localized(c.meta.descriptions)
	}

	var err error
	switch b := c.body.(type) {
	case optionsBody:
		def.Options, err = optionDefinitions(b.options)

	case subcommandsBody:
		def.Options, err = subcommandDefinitions(b.subcommands)

	case groupsBody:
		for _, name := range sortedKeys(b.groups) {
			g := b.groups[name]
			subs, serr := subcommandDefinitions(g.subcommands)
			if serr != nil {
				err = fmt.Errorf("group %q: %w", name, serr)
				break
			}
			def.Options = append(def.Options, &dgo.ApplicationCommandOption{
				Type:                     dgo.ApplicationCommandOptionSubCommandGroup,
				Name:                     name,
				NameLocalizations:        g.loc.names,
				Description:              g.description,
				DescriptionLocalizations: g.loc.descriptions,
				Options:                  subs,
			})
		}
	}
	if err != nil {
		return nil, &DefinitionError{Path: commandPath(c.name), Err: err}
	}

	return def, nil
}

func subcommandDefinitions(subs map[string]Subcommand) ([]*dgo.ApplicationCommandOption, error) {
	defs := make([]*dgo.ApplicationCommandOption, 0, len(subs))
	for _, name := range sortedKeys(subs) {
		s := subs[name]
		def := &dgo.ApplicationCommandOption{
			Type:                     dgo.ApplicationCommandOptionSubCommand,
			Name:                     name,
			NameLocalizations:        s.loc.names,
			Description:              s.description,
			DescriptionLocalizations: s.loc.descriptions,
		}
		if b, ok := s.body.(optionsBody); ok {
			opts, err := optionDefinitions(b.options)
			if err != nil {
				return nil, fmt.Errorf("subcommand %q: %w", name, err)
			}
			def.Options = opts
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func optionDefinitions(opts []Option) ([]*dgo.ApplicationCommandOption, error) {
	defs := make([]*dgo.ApplicationCommandOption, 0, len(opts))
	for _, o := range opts {
		def, err := o.definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
