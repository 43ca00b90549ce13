package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchedule(t *testing.T) {
	h := newTestHandler(t, mustDate(t, "2022-05-29"))

	seedScheduleRow(t, h.db, 2021)
	sched := seedScheduleRow(t, h.db, 2022)
	seedRaceRow(t, h.db, sched.ScheduleID, "Miami", "2022-05-08")
	seedRaceRow(t, h.db, sched.ScheduleID, "Monaco", "2022-05-29")
	seedRaceRow(t, h.db, sched.ScheduleID, "Baku", "2022-06-12")

	// No year parameter serves the latest schedule.
	c, rec := newRequest(http.MethodGet, "/schedule", "")
	require.NoError(t, h.Schedule(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Year  int `json:"year"`
		Races []struct {
			Track      string `json:"track"`
			Index      int    `json:"index"`
			IsCurrent  bool   `json:"isCurrent"`
			IsViewable bool   `json:"isViewable"`
		} `json:"races"`
		RacesComplete int   `json:"racesComplete"`
		Years         []int `json:"years"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2022, resp.Year)
	require.Equal(t, []int{2021, 2022}, resp.Years)
	require.Equal(t, 2, resp.RacesComplete)
	require.Len(t, resp.Races, 3)

	require.Equal(t, "Miami", resp.Races[0].Track)
	require.False(t, resp.Races[0].IsCurrent)
	require.True(t, resp.Races[0].IsViewable)

	require.Equal(t, "Monaco", resp.Races[1].Track)
	require.True(t, resp.Races[1].IsCurrent)
	require.True(t, resp.Races[1].IsViewable)

	require.Equal(t, "Baku", resp.Races[2].Track)
	require.False(t, resp.Races[2].IsCurrent)
	require.False(t, resp.Races[2].IsViewable)
	require.Equal(t, 2, resp.Races[2].Index)
}

func TestScheduleByYear(t *testing.T) {
	h := newTestHandler(t, mustDate(t, "2022-05-29"))
	seedScheduleRow(t, h.db, 2021)
	seedScheduleRow(t, h.db, 2022)

	c, rec := newRequest(http.MethodGet, "/schedule/2021", "")
	c.SetParamNames("year")
	c.SetParamValues("2021")
	require.NoError(t, h.Schedule(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Year int `json:"year"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2021, resp.Year)

	c, _ = newRequest(http.MethodGet, "/schedule/1999", "")
	c.SetParamNames("year")
	c.SetParamValues("1999")
	requireHTTPError(t, h.Schedule(c), http.StatusNotFound)

	c, _ = newRequest(http.MethodGet, "/schedule/bogus", "")
	c.SetParamNames("year")
	c.SetParamValues("bogus")
	requireHTTPError(t, h.Schedule(c), http.StatusBadRequest)
}
