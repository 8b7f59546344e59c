package db

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Report is a failure recorded while handling an interaction.
type Report struct {
	ID        string
	GuildID   string
	ChannelID string
	UserID    string
	Command   string
	Kind      string
	Message   string
	CreatedAt time.Time
}

const errorReportsCreate = `
CREATE TABLE IF NOT EXISTS error_reports (
	ID        text    NOT NULL,
	GuildID   text    NOT NULL,
	ChannelID text    NOT NULL,
	UserID    text    NOT NULL,
	Command   text    NOT NULL,
	Kind      text    NOT NULL,
	Message   text    NOT NULL,
	CreatedAt integer NOT NULL,
	PRIMARY KEY(ID)
);
`

const errorReportsIndex = `
CREATE INDEX IF NOT EXISTS error_reports_guild ON error_reports (GuildID, CreatedAt);
`

const insertReport = `
INSERT INTO error_reports (ID, GuildID, ChannelID, UserID, Command, Kind, Message, CreatedAt)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`

func (q *Queries) CreateReport(r Report) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := q.exec(insertReport,
		r.ID, r.GuildID, r.ChannelID, r.UserID, r.Command, r.Kind, r.Message, r.CreatedAt.UnixMilli())
	return err
}

const reportColumns = `ID, GuildID, ChannelID, UserID, Command, Kind, Message, CreatedAt`

const selectReport = `
SELECT ` + reportColumns + ` FROM error_reports WHERE ID = ?;
`

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (Report, error) {
	var (
		r  Report
		at int64
	)
	if err := row.Scan(&r.ID, &r.GuildID, &r.ChannelID, &r.UserID, &r.Command, &r.Kind, &r.Message, &at); err != nil {
		return Report{}, err
	}
	r.CreatedAt = time.UnixMilli(at)
	return r, nil
}

func (q *Queries) Report(id string) (Report, error) {
	r, err := scanReport(q.queryRow(selectReport, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	return r, err
}

const selectReports = `
SELECT ` + reportColumns + ` FROM error_reports
	WHERE GuildID = ?
	ORDER BY CreatedAt DESC, ID
	LIMIT ?;
`

// Reports returns the latest reports of a guild, newest first.
func (q *Queries) Reports(guildID string, limit int) ([]Report, error) {
	rows, err := q.query(selectReports, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

const selectReportIDs = `
SELECT ID FROM error_reports
	WHERE GuildID = ? AND ID LIKE ? || '%' ESCAPE '\'
	ORDER BY CreatedAt DESC, ID
	LIMIT ?;
`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ReportIDs returns IDs of a guild's reports starting with prefix. The
// prefix is matched literally.
func (q *Queries) ReportIDs(guildID, prefix string, limit int) ([]string, error) {
	rows, err := q.query(selectReportIDs, guildID, likeEscaper.Replace(prefix), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
