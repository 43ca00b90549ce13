package racing

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/randomracing/fantasyapi/models"
)

// RecordResult inserts a finalized result and links every matching pick
// to it in one transaction, so a reader never observes a result whose
// picks are not yet linked. The insert conflicts with the
// results_driver_no_dupes or results_position_no_dupes index when a
// result already exists for the same driver or finishing position in
// the race, in which case nothing is written and ErrDuplicateResult is
// returned. The linking update matches on (race, driver) for all users
// at once and is safe to re-run.
func RecordResult(ctx context.Context, db *bun.DB, result *models.Result) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().Model(result).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrDuplicateResult
		}

		if result.ResultID == 0 {
			// Some drivers do not report last-insert ids; read the row back.
			if err := tx.NewSelect().Model(result).
				Where("race_id = ?", result.RaceID).
				Where("driver_id = ?", result.DriverID).
				Scan(ctx); err != nil {
				return err
			}
		}

		_, err = tx.NewUpdate().Model((*models.Pick)(nil)).
			Set("result_id = ?", result.ResultID).
			Where("race_id = ?", result.RaceID).
			Where("driver_id = ?", result.DriverID).
			Exec(ctx)
		return err
	})
}

// Statistics aggregates a user's picks. AvgFinish is 0.0 until at
// least one pick has a linked result; a season with no scored races
// reports zeroes rather than an undefined average.
type Statistics struct {
	Starts    int     `bun:"starts" json:"starts"`
	Wins      int     `bun:"wins" json:"wins"`
	Podiums   int     `bun:"podiums" json:"podiums"`
	Top10s    int     `bun:"top_10s" json:"top10s"`
	AvgFinish float64 `bun:"avg_finish" json:"avgFinish"`
	Points    int     `bun:"points" json:"points"`
}

// StatsColumnsSQL computes the Statistics aggregate columns over a
// query aliasing picks as p and their linked results as r. The avg
// fallback must stay 0.0: an integer 0 makes sqlite return int64 for
// the column, which cannot scan into the float64 field.
const StatsColumnsSQL = `
	COUNT(p.pick_id) AS starts,
	COALESCE(SUM(CASE WHEN r.position = 1 THEN 1 ELSE 0 END), 0) AS wins,
	COALESCE(SUM(CASE WHEN r.position <= 3 THEN 1 ELSE 0 END), 0) AS podiums,
	COALESCE(SUM(CASE WHEN r.position <= 10 THEN 1 ELSE 0 END), 0) AS top_10s,
	COALESCE(AVG(r.position), 0.0) AS avg_finish,
	COALESCE(SUM(r.points), 0) AS points`

// UserStatistics computes a user's aggregate statistics over all picks,
// or only the picks of one schedule when scheduleID is non-zero.
func UserStatistics(ctx context.Context, db bun.IDB, userID int64, scheduleID int) (*Statistics, error) {
	q := `SELECT` + StatsColumnsSQL + `
		FROM picks p
		LEFT JOIN results r ON r.result_id = p.result_id
		WHERE p.user_id = ?`
	args := []any{userID}
	if scheduleID != 0 {
		q += ` AND p.race_id IN (SELECT race_id FROM races WHERE schedule_id = ?)`
		args = append(args, scheduleID)
	}

	stats := new(Statistics)
	if err := db.NewRaw(q, args...).Scan(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Standing is one row of a season's standings table.
type Standing struct {
	UserID     int64  `bun:"user_id" json:"userID,string"`
	Username   string `bun:"username" json:"username"`
	Name       string `bun:"name" json:"name"`
	ProfileImg string `bun:"profile_img" json:"profileImg"`
	Statistics `json:"statistics"`
	// FirstPickID orders ties: whoever started playing first ranks higher.
	FirstPickID int `bun:"first_pick_id" json:"-"`
}

const standingsJoinSQL = `
	FROM users u
	INNER JOIN picks p   ON p.user_id = u.user_id
	INNER JOIN races rc  ON rc.race_id = p.race_id
	LEFT JOIN results r  ON r.result_id = p.result_id`

// Standings returns every participating user's statistics for a
// schedule, ordered by total points descending. Equal point totals are
// broken by earliest first pick, which keeps the ordering stable.
func Standings(ctx context.Context, db bun.IDB, scheduleID int) ([]Standing, error) {
	q := `SELECT u.user_id, u.username, u.name, u.profile_img,` + StatsColumnsSQL + `,
		MIN(p.pick_id) AS first_pick_id` +
		standingsJoinSQL + `
	WHERE rc.schedule_id = ?
	GROUP BY u.user_id, u.username, u.name, u.profile_img
	ORDER BY points DESC, first_pick_id ASC`

	var standings []Standing
	if err := db.NewRaw(q, scheduleID).Scan(ctx, &standings); err != nil {
		return nil, err
	}
	return standings, nil
}

// ParticipatingUsers returns the users with at least one pick in the
// schedule. An empty season yields an empty slice, not an error.
func ParticipatingUsers(ctx context.Context, db bun.IDB, scheduleID int) ([]models.User, error) {
	var users []models.User
	err := db.NewSelect().Model(&users).
		Distinct().
		Join("INNER JOIN picks p ON p.user_id = u.user_id").
		Join("INNER JOIN races rc ON rc.race_id = p.race_id").
		Where("rc.schedule_id = ?", scheduleID).
		OrderExpr("u.username ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// PickRow is a race's pick joined with its user, driver and result for
// display.
type PickRow struct {
	PickID     int    `bun:"pick_id" json:"pickID"`
	UserID     int64  `bun:"user_id" json:"userID,string"`
	Username   string `bun:"username" json:"username"`
	ProfileImg string `bun:"profile_img" json:"profileImg"`
	FirstName  string `bun:"first_name" json:"firstName"`
	LastName   string `bun:"last_name" json:"lastName"`
	TweetID    string `bun:"tweet_id" json:"tweetID"`
	Position   *int   `bun:"position" json:"position,omitempty"`
	Points     *int   `bun:"points" json:"points,omitempty"`
}

// RacePicks lists all picks for a race with user, driver and any
// result attached, winners first once results are in.
func RacePicks(ctx context.Context, db bun.IDB, raceID int) ([]PickRow, error) {
	q := `SELECT p.pick_id, u.user_id, u.username, u.profile_img,
		d.first_name, d.last_name, p.tweet_id, r.position, r.points
	FROM picks p
	INNER JOIN users u   ON u.user_id = p.user_id
	INNER JOIN drivers d ON d.driver_id = p.driver_id
	LEFT JOIN results r  ON r.result_id = p.result_id
	WHERE p.race_id = ?
	ORDER BY r.position IS NULL, r.position ASC, p.pick_id ASC`

	var rows []PickRow
	if err := db.NewRaw(q, raceID).Scan(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
