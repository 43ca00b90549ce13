package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/randomracing/fantasyapi/config"
	"github.com/randomracing/fantasyapi/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Admin)(nil),
		(*models.Schedule)(nil),
		(*models.Team)(nil),
		(*models.Driver)(nil),
		(*models.Race)(nil),
		(*models.User)(nil),
		(*models.Result)(nil),
		(*models.Pick)(nil),
		(*models.FAQ)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	// Unique indexes rather than ALTER TABLE constraints: sqlite accepts
	// these too, so the test schema enforces the same invariants.
	constraints := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS picks_no_dupes ON picks (user_id, race_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS results_driver_no_dupes ON results (race_id, driver_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS results_position_no_dupes ON results (race_id, position)`,
		`CREATE INDEX IF NOT EXISTS races_by_date ON races (date)`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	return nil
}
