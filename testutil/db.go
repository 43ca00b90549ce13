// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	bundb "github.com/randomracing/fantasyapi/db"
)

// GetEmptyTestDB returns an in-memory sqlite bun.DB with the full
// schema created. The pool is pinned to one connection so every query
// sees the same in-memory database.
func GetEmptyTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("failed to create in-memory db:", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := bundb.CreateTables(context.Background(), db); err != nil {
		t.Fatal("failed to create tables:", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}
