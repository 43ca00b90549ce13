package racing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/randomracing/fantasyapi/models"
)

func seedSchedule(t *testing.T, db *bun.DB, year int) *models.Schedule {
	t.Helper()
	s := &models.Schedule{Year: year}
	_, err := db.NewInsert().Model(s).Exec(context.Background())
	require.NoError(t, err)
	return s
}

func seedRace(t *testing.T, db *bun.DB, scheduleID int, track, date string) *models.Race {
	t.Helper()
	submitBy, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	r := &models.Race{
		ScheduleID: scheduleID,
		Track:      track,
		Date:       date,
		SubmitBy:   submitBy,
	}
	_, err = db.NewInsert().Model(r).Exec(context.Background())
	require.NoError(t, err)
	return r
}

func seedTeam(t *testing.T, db *bun.DB, name string) *models.Team {
	t.Helper()
	team := &models.Team{Name: name}
	_, err := db.NewInsert().Model(team).Exec(context.Background())
	require.NoError(t, err)
	return team
}

func seedDriver(t *testing.T, db *bun.DB, teamID int, first, last string, number int, active bool) *models.Driver {
	t.Helper()
	d := &models.Driver{
		FirstName:     first,
		LastName:      last,
		DefaultNumber: number,
		DefaultTeamID: teamID,
		IsActive:      active,
	}
	_, err := db.NewInsert().Model(d).Exec(context.Background())
	require.NoError(t, err)
	return d
}

func seedUser(t *testing.T, db *bun.DB, id int64, username string) *models.User {
	t.Helper()
	u := &models.User{UserID: id, Username: username, Name: username}
	_, err := db.NewInsert().Model(u).Exec(context.Background())
	require.NoError(t, err)
	return u
}

func seedPick(t *testing.T, db *bun.DB, userID int64, raceID, driverID int, tweetID string) *models.Pick {
	t.Helper()
	p := &models.Pick{
		UserID:   userID,
		RaceID:   raceID,
		DriverID: driverID,
		TweetID:  tweetID,
	}
	_, err := db.NewInsert().Model(p).Exec(context.Background())
	require.NoError(t, err)
	return p
}
