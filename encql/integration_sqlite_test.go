package encql_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/encql/encql/encql"
)

// The plain-fallback path emits ordinary SQL that any database can run; this
// exercises it end to end against a real sqlite file. No encryption backend
// is configured, so every condition must resolve without one.

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE users (name TEXT, age INTEGER, note TEXT)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	seed := []struct {
		name string
		age  int
		note any
	}{
		{"alice", 34, "gopher"},
		{"bob", 17, "student"},
		{"carol", 52, "gopher emeritus"},
		{"dave", 29, nil},
	}
	for _, r := range seed {
		if _, err := db.Exec(`INSERT INTO users (name, age, note) VALUES (?, ?, ?)`, r.name, r.age, r.note); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return db
}

func plainTable() (*encql.Table, *encql.Column, *encql.Column, *encql.Column) {
	tbl := encql.NewTable("users")
	name := tbl.Column("name", encql.IndexConfig{})
	age := tbl.Column("age", encql.IndexConfig{CastAs: encql.CastNumber})
	note := tbl.Column("note", encql.IndexConfig{})
	return tbl, name, age, note
}

func queryNames(t *testing.T, db *sql.DB, cond sq.Sqlizer) []string {
	t.Helper()
	query := sq.Select("name").From("users").OrderBy("name")
	if cond != nil {
		query = query.Where(cond)
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		t.Fatalf("query %q: %v", sqlStr, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	return out
}

func TestPlainFallbackAgainstSQLite(t *testing.T) {
	db := openDB(t)
	_, name, age, note := plainTable()
	_ = name
	q := encql.NewQuerier(nil)
	ctx := context.Background()

	cond, err := q.And(ctx,
		encql.Gt(age, 21),
		encql.Like(note, "%gopher%"),
	)
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	got := queryNames(t, db, cond)
	want := []string{"alice", "carol"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPlainFallbackOrTreeAgainstSQLite(t *testing.T) {
	db := openDB(t)
	_, name, age, _ := plainTable()
	q := encql.NewQuerier(nil)
	ctx := context.Background()

	cond, err := q.Resolve(ctx, encql.Or(
		encql.Eq(name, "bob"),
		encql.And(
			encql.Gte(age, 50),
			encql.Lt(age, 60),
		),
	))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got := queryNames(t, db, cond)
	if len(got) != 2 || got[0] != "bob" || got[1] != "carol" {
		t.Fatalf("got %v", got)
	}
}

func TestPlainFallbackNullHandlingAgainstSQLite(t *testing.T) {
	db := openDB(t)
	_, _, _, note := plainTable()
	q := encql.NewQuerier(nil)
	ctx := context.Background()

	cond, err := q.And(ctx, encql.IsNull(note))
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	got := queryNames(t, db, cond)
	if len(got) != 1 || got[0] != "dave" {
		t.Fatalf("got %v", got)
	}
}

func TestPlainFallbackNotInArrayAgainstSQLite(t *testing.T) {
	db := openDB(t)
	_, name, _, _ := plainTable()
	q := encql.NewQuerier(nil)
	ctx := context.Background()

	cond, err := q.And(ctx, encql.NotInArray(name, []any{"alice", "bob"}))
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	got := queryNames(t, db, cond)
	if len(got) != 2 || got[0] != "carol" || got[1] != "dave" {
		t.Fatalf("got %v", got)
	}
}

func TestPlainFallbackBetweenAgainstSQLite(t *testing.T) {
	db := openDB(t)
	_, _, age, _ := plainTable()
	q := encql.NewQuerier(nil)
	ctx := context.Background()

	cond, err := q.And(ctx, encql.Between(age, 18, 40))
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	got := queryNames(t, db, cond)
	if len(got) != 2 || got[0] != "alice" || got[1] != "dave" {
		t.Fatalf("got %v", got)
	}
}
