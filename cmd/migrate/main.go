// cmd/migrate/main.go
// Migrates data from the legacy Django MySQL database into the local
// PostgreSQL database.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/fantasy_racing?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/randomracing/fantasyapi/config"
	bundb "github.com/randomracing/fantasyapi/db"
	"github.com/randomracing/fantasyapi/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/fantasy_racing?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	// Disable FK enforcement so we can load in bulk without strict ordering
	if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'replica'"); err != nil {
		log.Fatalf("disable FK: %v", err)
	}
	defer func() {
		if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'origin'"); err != nil {
			log.Printf("re-enable FK: %v", err)
		}
	}()

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"schedules", func() (int, error) { return migrateSchedules(ctx, myDB, pgDB) }},
		{"teams", func() (int, error) { return migrateTeams(ctx, myDB, pgDB) }},
		{"drivers", func() (int, error) { return migrateDrivers(ctx, myDB, pgDB) }},
		{"races", func() (int, error) { return migrateRaces(ctx, myDB, pgDB) }},
		{"users", func() (int, error) { return migrateUsers(ctx, myDB, pgDB) }},
		{"results", func() (int, error) { return migrateResults(ctx, myDB, pgDB) }},
		{"picks", func() (int, error) { return migratePicks(ctx, myDB, pgDB) }},
		{"faqs", func() (int, error) { return migrateFAQs(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-10s  %d rows migrated", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("migration complete")
}

// --- helpers ---

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func fmtDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// copyRows streams a query result into the new schema in batches.
func copyRows[T any](ctx context.Context, myDB *sql.DB, pgDB *bun.DB, query string, scan func(*sql.Rows) (T, error)) (int, error) {
	rows, err := myDB.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []T
	total := 0
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

// --- per-table migrations ---

func migrateSchedules(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	return copyRows(ctx, myDB, pgDB,
		"SELECT id, year FROM picks_schedule",
		func(rows *sql.Rows) (models.Schedule, error) {
			var r models.Schedule
			err := rows.Scan(&r.ScheduleID, &r.Year)
			return r, err
		})
}

func migrateTeams(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	return copyRows(ctx, myDB, pgDB,
		"SELECT id, name FROM picks_raceteam",
		func(rows *sql.Rows) (models.Team, error) {
			var r models.Team
			err := rows.Scan(&r.TeamID, &r.Name)
			return r, err
		})
}

func migrateDrivers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	return copyRows(ctx, myDB, pgDB,
		`SELECT id, first_name, last_name, default_number, default_team_id, is_active
		 FROM picks_racedriver`,
		func(rows *sql.Rows) (models.Driver, error) {
			var r models.Driver
			err := rows.Scan(&r.DriverID, &r.FirstName, &r.LastName,
				&r.DefaultNumber, &r.DefaultTeamID, &r.IsActive)
			return r, err
		})
}

func migrateRaces(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	return copyRows(ctx, myDB, pgDB,
		"SELECT id, schedule_id, track, date, submit_by FROM picks_race",
		func(rows *sql.Rows) (models.Race, error) {
			var (
				r    models.Race
				date time.Time
			)
			err := rows.Scan(&r.RaceID, &r.ScheduleID, &r.Track, &date, &r.SubmitBy)
			r.Date = fmtDate(date)
			return r, err
		})
}

func migrateUsers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	return copyRows(ctx, myDB, pgDB,
		"SELECT id, username, name, profile_img FROM picks_twitteruser",
		func(rows *sql.Rows) (models.User, error) {
			var r models.User
			err := rows.Scan(&r.UserID, &r.Username, &r.Name, &r.ProfileImg)
			return r, err
		})
}

func migrateResults(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	return copyRows(ctx, myDB, pgDB,
		"SELECT id, race_id, driver_id, position, points FROM picks_raceresult",
		func(rows *sql.Rows) (models.Result, error) {
			var r models.Result
			err := rows.Scan(&r.ResultID, &r.RaceID, &r.DriverID, &r.Position, &r.Points)
			return r, err
		})
}

func migratePicks(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	return copyRows(ctx, myDB, pgDB,
		"SELECT id, user_id, race_id, driver_id, tweet_id, result_id FROM picks_racepick",
		func(rows *sql.Rows) (models.Pick, error) {
			var (
				r        models.Pick
				resultID sql.NullInt64
			)
			err := rows.Scan(&r.PickID, &r.UserID, &r.RaceID, &r.DriverID, &r.TweetID, &resultID)
			r.ResultID = nullInt(resultID)
			return r, err
		})
}

func migrateFAQs(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	return copyRows(ctx, myDB, pgDB,
		"SELECT id, question, answer, `order` FROM picks_faq",
		func(rows *sql.Rows) (models.FAQ, error) {
			var r models.FAQ
			err := rows.Scan(&r.FAQID, &r.Question, &r.Answer, &r.DisplayOrder)
			return r, err
		})
}

// resetSequences moves each autoincrement sequence past the migrated ids.
func resetSequences(ctx context.Context, pgDB *bun.DB) {
	seqs := []struct{ table, column string }{
		{"schedules", "schedule_id"},
		{"teams", "team_id"},
		{"drivers", "driver_id"},
		{"races", "race_id"},
		{"results", "result_id"},
		{"picks", "pick_id"},
		{"faqs", "faq_id"},
	}
	for _, s := range seqs {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE(MAX(%s), 1)) FROM %s",
			s.table, s.column, s.column, s.table)
		if _, err := pgDB.ExecContext(ctx, stmt); err != nil {
			log.Printf("reset sequence %s: %v", s.table, err)
		}
	}
}
