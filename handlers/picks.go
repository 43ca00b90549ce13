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

// RacePicks returns all picks for one race with users, drivers and any
// results. Without an :id parameter it serves the current race; with no
// current race there is nothing to show.
func (h *Handler) RacePicks(c echo.Context) error {
	ctx := c.Request().Context()

	var race *models.Race
	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.Atoi(idParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid race id")
		}

		race = &models.Race{}
		err = h.db.NewSelect().Model(race).
			Where("race_id = ?", id).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "race not found")
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		var err error
		race, err = racing.CurrentRace(ctx, h.db, h.today())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if race == nil {
			return echo.NewHTTPError(http.StatusNotFound, "no current race")
		}
	}

	picks, err := racing.RacePicks(ctx, h.db, race.RaceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"race":  race,
		"picks": picks,
	})
}
