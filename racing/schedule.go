package racing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/randomracing/fantasyapi/models"
)

// DateFormat is the ISO layout race dates are stored in.
const DateFormat = "2006-01-02"

// Today truncates t (normally time.Now().UTC()) to its stored date form.
func Today(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// CurrentRace returns the earliest race, across all schedules, whose
// date is today or later. It returns nil with no error when the season
// is over or nothing is scheduled yet.
func CurrentRace(ctx context.Context, db bun.IDB, today string) (*models.Race, error) {
	race := new(models.Race)
	err := db.NewSelect().Model(race).
		Where("date >= ?", today).
		OrderExpr("date ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return race, nil
}

// CurrentRaceInSchedule restricts CurrentRace to one schedule.
func CurrentRaceInSchedule(ctx context.Context, db bun.IDB, scheduleID int, today string) (*models.Race, error) {
	race := new(models.Race)
	err := db.NewSelect().Model(race).
		Where("schedule_id = ?", scheduleID).
		Where("date >= ?", today).
		OrderExpr("date ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return race, nil
}

// ViewableRaces returns the races in a schedule that are already
// decided or in progress: every race dated on or before the current
// race. When no current race exists nothing is viewable; "no current
// race" means "nothing decided yet", not "everything viewable".
func ViewableRaces(ctx context.Context, db bun.IDB, scheduleID int, today string) ([]models.Race, error) {
	current, err := CurrentRace(ctx, db, today)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return []models.Race{}, nil
	}

	var races []models.Race
	err = db.NewSelect().Model(&races).
		Where("schedule_id = ?", scheduleID).
		Where("date <= ?", current.Date).
		OrderExpr("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return races, nil
}

// IsCurrent reports whether race is its own schedule's current race.
// At most one race per schedule can be current at any instant.
func IsCurrent(ctx context.Context, db bun.IDB, race *models.Race, today string) (bool, error) {
	current, err := CurrentRaceInSchedule(ctx, db, race.ScheduleID, today)
	if err != nil {
		return false, err
	}
	return current != nil && current.RaceID == race.RaceID, nil
}

// RaceIndex returns the race's zero-based position within its
// schedule's date-ordered races.
func RaceIndex(ctx context.Context, db bun.IDB, race *models.Race) (int, error) {
	n, err := db.NewSelect().Model((*models.Race)(nil)).
		Where("schedule_id = ?", race.ScheduleID).
		Where("date < ?", race.Date).
		Count(ctx)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// RacesComplete counts the schedule's races dated on or before today.
func RacesComplete(ctx context.Context, db bun.IDB, scheduleID int, today string) (int, error) {
	return db.NewSelect().Model((*models.Race)(nil)).
		Where("schedule_id = ?", scheduleID).
		Where("date <= ?", today).
		Count(ctx)
}

// CheckRaceYear validates the race-date/schedule-year invariant before
// a race row is written.
func CheckRaceYear(scheduleYear int, date string) error {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return err
	}
	if t.Year() != scheduleYear {
		return ErrYearMismatch
	}
	return nil
}
