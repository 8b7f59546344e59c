package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("Row not found")

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type beginner interface {
	BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
}

type Queries struct {
	db  DBTX
	ctx context.Context
}

func New(db DBTX, ctx ...context.Context) *Queries {
	var c context.Context
	if len(ctx) > 0 {
		c = ctx[0]
	} else {
		c = context.Background()
	}

	return &Queries{db, c}
}

// Prepare creates the tables if they do not exist yet.
func Prepare(db DBTX, ctx ...context.Context) (*Queries, error) {
	q := New(db, ctx...)

	for _, stmt := range []string{publishedCommandsCreate, errorReportsCreate, errorReportsIndex} {
		if _, err := q.exec(stmt); err != nil {
			return nil, fmt.Errorf("Failed to prepare database: %w", err)
		}
	}

	return q, nil
}

func (q *Queries) WithTx(tx *sql.Tx, ctx ...context.Context) *Queries {
	if len(ctx) == 0 {
		ctx = []context.Context{q.ctx}
	}
	return New(tx, ctx...)
}

func (q *Queries) WithContext(ctx context.Context) *Queries {
	return New(q.db, ctx)
}

// inTx runs fn inside a transaction when the underlying handle can start
// one, and directly otherwise (e.g. when q already wraps a *sql.Tx).
func (q *Queries) inTx(fn func(*Queries) error) error {
	b, ok := q.db.(beginner)
	if !ok {
		return fn(q)
	}

	tx, err := b.BeginTx(q.ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(q.WithTx(tx)); err != nil {
		return errors.Join(err, tx.Rollback())
	}

	return tx.Commit()
}

func (q *Queries) exec(query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(q.ctx, query, args...)
}

func (q *Queries) query(query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(q.ctx, query, args...)
}

func (q *Queries) queryRow(query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(q.ctx, query, args...)
}
