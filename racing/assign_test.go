package racing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randomracing/fantasyapi/models"
	"github.com/randomracing/fantasyapi/racing"
	"github.com/randomracing/fantasyapi/testutil"
)

func TestAssignPickIdempotent(t *testing.T) {
	db := testutil.GetEmptyTestDB(t)
	ctx := context.Background()

	sched := seedSchedule(t, db, 2022)
	race := seedRace(t, db, sched.ScheduleID, "Monaco", "2022-05-29")
	team := seedTeam(t, db, "Red Bull")
	active := seedDriver(t, db, team.TeamID, "Max", "Verstappen", 1, true)
	seedDriver(t, db, team.TeamID, "Sebastian", "Vettel", 5, false)
	user := seedUser(t, db, 44, "lewis")

	pick, created, err := racing.AssignPick(ctx, db, user.UserID, race.RaceID, "tw1")
	require.NoError(t, err)
	require.True(t, created)
	require.NotZero(t, pick.PickID)
	require.Equal(t, user.UserID, pick.UserID)
	require.Equal(t, race.RaceID, pick.RaceID)
	require.Nil(t, pick.ResultID)
	// Only active drivers are eligible.
	require.Equal(t, active.DriverID, pick.DriverID)

	// A second call returns the same pick and never re-rolls the driver.
	again, created, err := racing.AssignPick(ctx, db, user.UserID, race.RaceID, "tw2")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, pick.PickID, again.PickID)
	require.Equal(t, pick.DriverID, again.DriverID)
	require.Equal(t, "tw1", again.TweetID)

	n, err := db.NewSelect().Model((*models.Pick)(nil)).Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestAssignPickNoEligibleDriver(t *testing.T) {
	db := testutil.GetEmptyTestDB(t)
	ctx := context.Background()

	sched := seedSchedule(t, db, 2022)
	race := seedRace(t, db, sched.ScheduleID, "Monaco", "2022-05-29")
	team := seedTeam(t, db, "Williams")
	inactive := seedDriver(t, db, team.TeamID, "Nicholas", "Latifi", 6, false)
	user := seedUser(t, db, 44, "lewis")

	// The inactive flag must survive the insert as written.
	got := new(models.Driver)
	err := db.NewSelect().Model(got).
		Where("driver_id = ?", inactive.DriverID).
		Scan(ctx)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	_, _, err = racing.AssignPick(ctx, db, user.UserID, race.RaceID, "tw1")
	require.True(t, errors.Is(err, racing.ErrNoEligibleDriver))

	// A failed assignment must not leave a partial pick behind.
	n, err := db.NewSelect().Model((*models.Pick)(nil)).Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestAssignPickUnknownRaceOrUser(t *testing.T) {
	db := testutil.GetEmptyTestDB(t)
	ctx := context.Background()

	sched := seedSchedule(t, db, 2022)
	race := seedRace(t, db, sched.ScheduleID, "Monaco", "2022-05-29")
	user := seedUser(t, db, 44, "lewis")

	_, _, err := racing.AssignPick(ctx, db, user.UserID, 999, "tw1")
	require.True(t, errors.Is(err, racing.ErrNotFound))

	_, _, err = racing.AssignPick(ctx, db, 999, race.RaceID, "tw1")
	require.True(t, errors.Is(err, racing.ErrNotFound))
}

func TestGetPick(t *testing.T) {
	db := testutil.GetEmptyTestDB(t)
	ctx := context.Background()

	sched := seedSchedule(t, db, 2022)
	race := seedRace(t, db, sched.ScheduleID, "Monaco", "2022-05-29")
	team := seedTeam(t, db, "Ferrari")
	driver := seedDriver(t, db, team.TeamID, "Charles", "Leclerc", 16, true)
	user := seedUser(t, db, 44, "lewis")

	_, err := racing.GetPick(ctx, db, user.UserID, race.RaceID)
	require.True(t, errors.Is(err, racing.ErrNotFound))

	seeded := seedPick(t, db, user.UserID, race.RaceID, driver.DriverID, "tw1")

	pick, err := racing.GetPick(ctx, db, user.UserID, race.RaceID)
	require.NoError(t, err)
	require.Equal(t, seeded.PickID, pick.PickID)
}
