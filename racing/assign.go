package racing

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/randomracing/fantasyapi/models"
)

// AssignPick ensures the user has exactly one pick for the race,
// assigning a uniformly random active driver when none exists yet. It
// reports created=false when the pick already existed, including when a
// concurrent request won the insert: the picks_no_dupes index makes the
// insert a no-op and the loser reads back the winner's row. Selection
// is with replacement – the same driver may be handed to any number of
// users in a race, and to the same user across races.
func AssignPick(ctx context.Context, db bun.IDB, userID int64, raceID int, tweetID string) (*models.Pick, bool, error) {
	exists, err := db.NewSelect().Model((*models.Race)(nil)).
		Where("race_id = ?", raceID).
		Exists(ctx)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, ErrNotFound
	}

	exists, err = db.NewSelect().Model((*models.User)(nil)).
		Where("user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, ErrNotFound
	}

	if pick, err := getPick(ctx, db, userID, raceID); err == nil {
		return pick, false, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	driver, err := randomActiveDriver(ctx, db)
	if err != nil {
		return nil, false, err
	}

	pick := &models.Pick{
		UserID:   userID,
		RaceID:   raceID,
		DriverID: driver.DriverID,
		TweetID:  tweetID,
	}
	res, err := db.NewInsert().Model(pick).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, false, err
	}

	created := true
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Lost the race to a concurrent assignment for the same
		// (user, race); the read below returns the surviving pick.
		created = false
	}

	pick, err = getPick(ctx, db, userID, raceID)
	if err != nil {
		return nil, false, err
	}
	return pick, created, nil
}

// GetPick fetches the user's pick for a race, ErrNotFound if absent.
func GetPick(ctx context.Context, db bun.IDB, userID int64, raceID int) (*models.Pick, error) {
	pick, err := getPick(ctx, db, userID, raceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return pick, err
}

func getPick(ctx context.Context, db bun.IDB, userID int64, raceID int) (*models.Pick, error) {
	pick := new(models.Pick)
	err := db.NewSelect().Model(pick).
		Where("user_id = ?", userID).
		Where("race_id = ?", raceID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return pick, nil
}

// randomActiveDriver samples one driver uniformly from the active set.
// ORDER BY RANDOM() keeps the draw inside the database, so it works the
// same under PostgreSQL and the sqlite test database.
func randomActiveDriver(ctx context.Context, db bun.IDB) (*models.Driver, error) {
	driver := new(models.Driver)
	err := db.NewSelect().Model(driver).
		Where("is_active").
		OrderExpr("RANDOM()").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoEligibleDriver
	}
	if err != nil {
		return nil, err
	}
	return driver, nil
}
