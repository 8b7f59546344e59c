package db

import (
	"time"
)

// PublishedCommand is a command as last published to one scope. GuildID is
// empty for global commands.
type PublishedCommand struct {
	GuildID     string
	Name        string
	ID          string
	Hash        string
	PublishedAt time.Time
}

const publishedCommandsCreate = `
CREATE TABLE IF NOT EXISTS published_commands (
	GuildID     text    NOT NULL,
	Name        text    NOT NULL,
	ID          text    NOT NULL,
	Hash        text    NOT NULL,
	PublishedAt integer NOT NULL,
	PRIMARY KEY(GuildID, Name)
);
`

const selectPublishedCommands = `
SELECT GuildID, Name, ID, Hash, PublishedAt FROM published_commands
	WHERE GuildID = ?
	ORDER BY Name;
`

func (q *Queries) PublishedCommands(guildID string) ([]PublishedCommand, error) {
	rows, err := q.query(selectPublishedCommands, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cmds []PublishedCommand
	for rows.Next() {
		var (
			c  PublishedCommand
			at int64
		)
		if err := rows.Scan(&c.GuildID, &c.Name, &c.ID, &c.Hash, &at); err != nil {
			return nil, err
		}
		c.PublishedAt = time.UnixMilli(at)
		cmds = append(cmds, c)
	}

	return cmds, rows.Err()
}

const deletePublishedCommands = `
DELETE FROM published_commands WHERE GuildID = ?;
`

const insertPublishedCommand = `
INSERT INTO published_commands (GuildID, Name, ID, Hash, PublishedAt)
	VALUES (?, ?, ?, ?, ?);
`

// ReplacePublishedCommands replaces every row of the scope with cmds, all
// stamped with hash.
func (q *Queries) ReplacePublishedCommands(guildID, hash string, cmds []PublishedCommand) error {
	now := time.Now().UnixMilli()

	return q.inTx(func(q *Queries) error {
		if _, err := q.exec(deletePublishedCommands, guildID); err != nil {
			return err
		}
		for _, c := range cmds {
			if _, err := q.exec(insertPublishedCommand, guildID, c.Name, c.ID, hash, now); err != nil {
				return err
			}
		}
		return nil
	})
}
