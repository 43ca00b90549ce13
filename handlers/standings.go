package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/randomracing/fantasyapi/models"
	"github.com/randomracing/fantasyapi/racing"
)

// Standings returns a season's table ordered by points, leader first.
func (h *Handler) Standings(c echo.Context) error {
	ctx := c.Request().Context()

	schedule, err := h.scheduleFromParam(c)
	if err != nil {
		return err
	}

	standings, err := racing.Standings(ctx, h.db, schedule.ScheduleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	leaderPoints := 0
	if len(standings) > 0 {
		leaderPoints = standings[0].Points
	}

	return c.JSON(http.StatusOK, map[string]any{
		"schedule":     schedule,
		"standings":    standings,
		"leaderPoints": leaderPoints,
	})
}

type playerSeason struct {
	Year int `json:"year"`
	racing.Statistics
}

type playerData struct {
	models.User
	Career  racing.Statistics `json:"career"`
	Seasons []playerSeason    `json:"seasons"`
}

// Player returns a user's career statistics plus a per-season
// breakdown of the seasons they actually played.
func (h *Handler) Player(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userByUsername(c)
	if err != nil {
		return err
	}

	career, err := racing.UserStatistics(ctx, h.db, user.UserID, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	seasons, err := h.playerSeasons(c, user.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, playerData{
		User:    *user,
		Career:  *career,
		Seasons: seasons,
	})
}

// PlayerSeason returns one user's statistics and picks for one season.
func (h *Handler) PlayerSeason(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userByUsername(c)
	if err != nil {
		return err
	}

	schedule, err := h.scheduleFromParam(c)
	if err != nil {
		return err
	}

	stats, err := racing.UserStatistics(ctx, h.db, user.UserID, schedule.ScheduleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var picks []models.Pick
	err = h.db.NewSelect().Model(&picks).
		Join("INNER JOIN races rc ON rc.race_id = p.race_id").
		Where("p.user_id = ?", user.UserID).
		Where("rc.schedule_id = ?", schedule.ScheduleID).
		OrderExpr("rc.date ASC").
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":       user,
		"schedule":   schedule,
		"statistics": stats,
		"picks":      picks,
	})
}

// Players lists all users with career statistics, most starts first and
// best average finish breaking ties.
func (h *Handler) Players(c echo.Context) error {
	q := `SELECT u.user_id, u.username, u.name, u.profile_img,` + racing.StatsColumnsSQL + `
	FROM users u
	LEFT JOIN picks p   ON p.user_id = u.user_id
	LEFT JOIN results r ON r.result_id = p.result_id
	GROUP BY u.user_id, u.username, u.name, u.profile_img
	ORDER BY starts DESC, avg_finish ASC`

	var players []racing.Standing
	if err := h.db.NewRaw(q).Scan(c.Request().Context(), &players); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, players)
}

func (h *Handler) playerSeasons(c echo.Context, userID int64) ([]playerSeason, error) {
	ctx := c.Request().Context()

	var schedules []models.Schedule
	err := h.db.NewSelect().Model(&schedules).
		OrderExpr("year DESC").
		Scan(ctx)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	seasons := []playerSeason{}
	for _, sched := range schedules {
		stats, err := racing.UserStatistics(ctx, h.db, userID, sched.ScheduleID)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if stats.Starts == 0 {
			continue
		}
		seasons = append(seasons, playerSeason{Year: sched.Year, Statistics: *stats})
	}
	return seasons, nil
}

func (h *Handler) userByUsername(c echo.Context) (*models.User, error) {
	user := &models.User{}
	err := h.db.NewSelect().Model(user).
		Where("username = ?", c.Param("username")).
		Scan(c.Request().Context())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "player not found")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}
