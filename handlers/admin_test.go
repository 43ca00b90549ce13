package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/randomracing/fantasyapi/models"
)

func TestCreateSchedule(t *testing.T) {
	h := newTestHandler(t, time.Now().UTC())

	c, rec := newRequest(http.MethodPost, "/admin/schedules", `{"year":2022}`)
	require.NoError(t, h.CreateSchedule(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Schedule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ScheduleID)
	require.Equal(t, 2022, created.Year)

	c, _ = newRequest(http.MethodPost, "/admin/schedules", `{"year":2022}`)
	requireHTTPError(t, h.CreateSchedule(c), http.StatusConflict)

	c, _ = newRequest(http.MethodPost, "/admin/schedules", `{"year":0}`)
	requireHTTPError(t, h.CreateSchedule(c), http.StatusBadRequest)
}

func TestCreateRace(t *testing.T) {
	h := newTestHandler(t, time.Now().UTC())
	sched := seedScheduleRow(t, h.db, 2022)

	c, rec := newRequest(http.MethodPost, "/admin/races",
		`{"scheduleID":`+itoa(sched.ScheduleID)+`,"track":"Monaco","date":"2022-05-29","submitBy":"2022-05-29T13:00:00Z"}`)
	require.NoError(t, h.CreateRace(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// A race date outside the schedule's year is rejected.
	c, _ = newRequest(http.MethodPost, "/admin/races",
		`{"scheduleID":`+itoa(sched.ScheduleID)+`,"track":"Monaco","date":"2023-05-28","submitBy":"2023-05-28T13:00:00Z"}`)
	requireHTTPError(t, h.CreateRace(c), http.StatusBadRequest)

	c, _ = newRequest(http.MethodPost, "/admin/races",
		`{"scheduleID":999,"track":"Monaco","date":"2022-05-29","submitBy":"2022-05-29T13:00:00Z"}`)
	requireHTTPError(t, h.CreateRace(c), http.StatusNotFound)
}

func TestSetDriverActive(t *testing.T) {
	h := newTestHandler(t, time.Now().UTC())
	team := seedTeamRow(t, h.db, "Alpine")
	driver := seedDriverRow(t, h.db, team.TeamID, "Fernando", "Alonso", true)

	c, rec := newRequest(http.MethodPut, "/admin/drivers/x/active", `{"isActive":false}`)
	c.SetParamNames("id")
	c.SetParamValues(itoa(driver.DriverID))
	require.NoError(t, h.SetDriverActive(c))
	require.Equal(t, http.StatusOK, rec.Code)

	got := new(models.Driver)
	err := h.db.NewSelect().Model(got).
		Where("driver_id = ?", driver.DriverID).
		Scan(context.Background())
	require.NoError(t, err)
	require.False(t, got.IsActive)

	c, _ = newRequest(http.MethodPut, "/admin/drivers/x/active", `{"isActive":true}`)
	c.SetParamNames("id")
	c.SetParamValues("999")
	requireHTTPError(t, h.SetDriverActive(c), http.StatusNotFound)
}

func TestCreateResult(t *testing.T) {
	h := newTestHandler(t, time.Now().UTC())
	sched := seedScheduleRow(t, h.db, 2022)
	race := seedRaceRow(t, h.db, sched.ScheduleID, "Monaco", "2022-05-29")
	team := seedTeamRow(t, h.db, "Red Bull")
	driver := seedDriverRow(t, h.db, team.TeamID, "Sergio", "Perez", true)
	rival := seedDriverRow(t, h.db, team.TeamID, "Max", "Verstappen", true)

	body := `{"raceID":` + itoa(race.RaceID) + `,"driverID":` + itoa(driver.DriverID) + `,"position":1,"points":25}`
	c, rec := newRequest(http.MethodPost, "/admin/results", body)
	require.NoError(t, h.CreateResult(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Re-posting the same driver's result conflicts.
	c, _ = newRequest(http.MethodPost, "/admin/results", body)
	requireHTTPError(t, h.CreateResult(c), http.StatusConflict)

	// So does reusing the finishing position for another driver.
	c, _ = newRequest(http.MethodPost, "/admin/results",
		`{"raceID":`+itoa(race.RaceID)+`,"driverID":`+itoa(rival.DriverID)+`,"position":1,"points":25}`)
	requireHTTPError(t, h.CreateResult(c), http.StatusConflict)

	c, _ = newRequest(http.MethodPost, "/admin/results",
		`{"raceID":999,"driverID":`+itoa(driver.DriverID)+`,"position":2,"points":18}`)
	requireHTTPError(t, h.CreateResult(c), http.StatusNotFound)

	c, _ = newRequest(http.MethodPost, "/admin/results",
		`{"raceID":`+itoa(race.RaceID)+`,"driverID":`+itoa(rival.DriverID)+`,"position":0,"points":0}`)
	requireHTTPError(t, h.CreateResult(c), http.StatusBadRequest)
}
