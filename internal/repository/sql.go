package repository

import (
	"context"
	"database/sql"
	"strings"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction, committing on success.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Page selects a slice of a listing.  Page is zero based.
type Page struct {
	Number int
	Limit  int
}

func (p Page) normalized() Page {
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	return p
}

// likePattern turns a `*` wildcard filter into a SQL LIKE pattern.  An
// empty filter matches everything.
func likePattern(filter string) string {
	if filter == "" {
		return "%"
	}
	return strings.ReplaceAll(filter, "*", "%")
}
