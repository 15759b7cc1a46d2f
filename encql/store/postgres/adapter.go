// Package postgres executes resolved encql conditions against a PostgreSQL
// database through the pgx stdlib driver. The searchable-encryption support
// functions are installed out of band by the encryption engine's migration
// bundle; this adapter only verifies they exist and runs queries.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

type Adapter struct {
	DSN string
}

func New(dsn string) *Adapter {
	return &Adapter{DSN: dsn}
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(a.DSN)
	if err != nil {
		return nil, err
	}
	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// VerifySupport checks that every support function the condition layer emits
// is present, so misconfigured databases fail at startup rather than at the
// first encrypted query.
func (a *Adapter) VerifySupport(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx,
		`SELECT proname FROM pg_proc WHERE proname = ANY($1)`, supportFunctionArray())
	if err != nil {
		return err
	}
	defer rows.Close()

	found := make(map[string]bool, len(supportFunctions))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, fn := range supportFunctions {
		if !found[fn] {
			missing = append(missing, fn)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing searchable-encryption support functions: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Select runs SELECT columns FROM table WHERE where ORDER BY orderBy with
// dollar placeholders. A nil where selects everything.
func (a *Adapter) Select(ctx context.Context, db *sql.DB, table string, columns []string, where sq.Sqlizer, orderBy ...sq.Sqlizer) (*sql.Rows, error) {
	b := sq.Select(columns...).From(table).PlaceholderFormat(sq.Dollar)
	if where != nil {
		b = b.Where(where)
	}
	for _, ob := range orderBy {
		obSQL, obArgs, err := ob.ToSql()
		if err != nil {
			return nil, err
		}
		b = b.OrderByClause(obSQL, obArgs...)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, query, args...)
}
