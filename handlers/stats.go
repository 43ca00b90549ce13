package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/randomracing/fantasyapi/models"
	"github.com/randomracing/fantasyapi/racing"
)

type singleStat struct {
	Title string `json:"title"`
	Value any    `json:"value"`
}

type driverPickCount struct {
	DriverID  int    `bun:"driver_id" json:"driverID"`
	FirstName string `bun:"first_name" json:"firstName"`
	LastName  string `bun:"last_name" json:"lastName"`
	NumPicks  int    `bun:"num_picks" json:"numPicks"`
}

type userWinCount struct {
	UserID   int64  `bun:"user_id" json:"userID,string"`
	Username string `bun:"username" json:"username"`
	NumWins  int    `bun:"num_wins" json:"numWins"`
}

type userStartCount struct {
	UserID    int64  `bun:"user_id" json:"userID,string"`
	Username  string `bun:"username" json:"username"`
	NumStarts int    `bun:"num_starts" json:"numStarts"`
}

// Statistics returns site-wide numbers: totals, the most common pick,
// winning picks, overall average finish, plus top-25 tables.
func (h *Handler) Statistics(c echo.Context) error {
	ctx := c.Request().Context()

	totalPlayers, err := h.db.NewSelect().Model((*models.User)(nil)).Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPicks, err := h.db.NewSelect().Model((*models.Pick)(nil)).Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	winningPicks, err := h.db.NewSelect().Model((*models.Pick)(nil)).
		Join("INNER JOIN results r ON r.result_id = p.result_id").
		Where("r.position = 1").
		Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var avgFinish float64
	err = h.db.NewRaw(
		`SELECT COALESCE(AVG(r.position), 0.0)
		 FROM picks p
		 INNER JOIN results r ON r.result_id = p.result_id`,
	).Scan(ctx, &avgFinish)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var commonPicks []driverPickCount
	err = h.db.NewRaw(
		`SELECT d.driver_id, d.first_name, d.last_name, COUNT(p.pick_id) AS num_picks
		 FROM drivers d
		 LEFT JOIN picks p ON p.driver_id = d.driver_id
		 GROUP BY d.driver_id, d.first_name, d.last_name
		 ORDER BY num_picks DESC
		 LIMIT 25`,
	).Scan(ctx, &commonPicks)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var topStarts []userStartCount
	err = h.db.NewRaw(
		`SELECT u.user_id, u.username, COUNT(p.pick_id) AS num_starts
		 FROM users u
		 LEFT JOIN picks p ON p.user_id = u.user_id
		 GROUP BY u.user_id, u.username
		 ORDER BY num_starts DESC
		 LIMIT 25`,
	).Scan(ctx, &topStarts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var mostWins []userWinCount
	err = h.db.NewRaw(
		`SELECT u.user_id, u.username,
		        COALESCE(SUM(CASE WHEN r.position = 1 THEN 1 ELSE 0 END), 0) AS num_wins
		 FROM users u
		 LEFT JOIN picks p   ON p.user_id = u.user_id
		 LEFT JOIN results r ON r.result_id = p.result_id
		 GROUP BY u.user_id, u.username
		 ORDER BY num_wins DESC
		 LIMIT 25`,
	).Scan(ctx, &mostWins)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Races already run or in progress, across all schedules.
	totalRaces := 0
	if current, err := racing.CurrentRace(ctx, h.db, h.today()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	} else if current != nil {
		totalRaces, err = h.db.NewSelect().Model((*models.Race)(nil)).
			Where("date <= ?", current.Date).
			Count(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	singles := []singleStat{
		{Title: "Total Players", Value: totalPlayers},
		{Title: "Total Picks", Value: totalPicks},
		{Title: "Winning Picks", Value: winningPicks},
		{Title: "Total Races", Value: totalRaces},
		{Title: "Average Finish", Value: avgFinish},
	}
	if len(commonPicks) > 0 && commonPicks[0].NumPicks > 0 {
		singles = append(singles, singleStat{Title: "Most Common Pick", Value: commonPicks[0].LastName})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"singleStats": singles,
		"commonPicks": commonPicks,
		"topStarts":   topStarts,
		"mostWins":    mostWins,
	})
}
