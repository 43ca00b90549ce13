package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/randomracing/fantasyapi/models"
	"github.com/randomracing/fantasyapi/racing"
)

type raceData struct {
	models.Race
	Index      int  `json:"index"`
	IsCurrent  bool `json:"isCurrent"`
	IsViewable bool `json:"isViewable"`
}

type scheduleData struct {
	models.Schedule
	Races         []raceData `json:"races"`
	RacesComplete int        `json:"racesComplete"`
	Years         []int      `json:"years"`
}

// Schedule returns one season's race list with derived flags. With no
// year parameter the latest schedule is served.
func (h *Handler) Schedule(c echo.Context) error {
	ctx := c.Request().Context()

	schedule, err := h.scheduleFromParam(c)
	if err != nil {
		return err
	}

	var races []models.Race
	err = h.db.NewSelect().Model(&races).
		Where("schedule_id = ?", schedule.ScheduleID).
		OrderExpr("date ASC").
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	today := h.today()
	current, err := racing.CurrentRaceInSchedule(ctx, h.db, schedule.ScheduleID, today)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	viewable, err := racing.ViewableRaces(ctx, h.db, schedule.ScheduleID, today)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	viewableIDs := make(map[int]bool, len(viewable))
	for _, r := range viewable {
		viewableIDs[r.RaceID] = true
	}

	data := make([]raceData, len(races))
	for i, r := range races {
		data[i] = raceData{
			Race:       r,
			Index:      i,
			IsCurrent:  current != nil && current.RaceID == r.RaceID,
			IsViewable: viewableIDs[r.RaceID],
		}
	}

	complete, err := racing.RacesComplete(ctx, h.db, schedule.ScheduleID, today)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	years, err := h.scheduleYears(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, scheduleData{
		Schedule:      *schedule,
		Races:         data,
		RacesComplete: complete,
		Years:         years,
	})
}

func (h *Handler) scheduleYears(c echo.Context) ([]int, error) {
	var years []int
	err := h.db.NewSelect().Model((*models.Schedule)(nil)).
		ColumnExpr("year").
		OrderExpr("year ASC").
		Scan(c.Request().Context(), &years)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return years, nil
}

// scheduleFromParam resolves the :year path parameter, falling back to
// the latest schedule when absent.
func (h *Handler) scheduleFromParam(c echo.Context) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	q := h.db.NewSelect().Model(schedule)

	if yearParam := c.Param("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		q = q.Where("year = ?", year)
	} else {
		q = q.OrderExpr("year DESC").Limit(1)
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "schedule not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return schedule, nil
}
