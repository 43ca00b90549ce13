package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/randomracing/fantasyapi/models"
	"github.com/randomracing/fantasyapi/racing"
)

// CreateSchedule inserts a new season.
func (h *Handler) CreateSchedule(c echo.Context) error {
	var req struct {
		Year int `json:"year"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Year < 1950 {
		return echo.NewHTTPError(http.StatusBadRequest, "year is required")
	}

	schedule := &models.Schedule{Year: req.Year}
	if _, err := h.db.NewInsert().Model(schedule).Exec(c.Request().Context()); err != nil {
		if isUniqueViolation(err) {
			return echo.NewHTTPError(http.StatusConflict, "schedule already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, schedule)
}

// CreateRace inserts a race into a schedule. The race date must fall
// in the schedule's year.
func (h *Handler) CreateRace(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		ScheduleID int    `json:"scheduleID"`
		Track      string `json:"track"`
		Date       string `json:"date"`
		SubmitBy   string `json:"submitBy"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.Track = strings.TrimSpace(req.Track)
	if req.Track == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "track is required")
	}

	schedule := &models.Schedule{}
	err := h.db.NewSelect().Model(schedule).
		Where("schedule_id = ?", req.ScheduleID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "schedule not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := racing.CheckRaceYear(schedule.Year, req.Date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	submitBy, err := timeFromRFC3339(req.SubmitBy)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "submitBy must be RFC 3339")
	}

	race := &models.Race{
		ScheduleID: schedule.ScheduleID,
		Track:      req.Track,
		Date:       req.Date,
		SubmitBy:   submitBy,
	}
	if _, err := h.db.NewInsert().Model(race).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, race)
}

// CreateTeam inserts a race team.
func (h *Handler) CreateTeam(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	team := &models.Team{Name: req.Name}
	if _, err := h.db.NewInsert().Model(team).Exec(c.Request().Context()); err != nil {
		if isUniqueViolation(err) {
			return echo.NewHTTPError(http.StatusConflict, "team already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, team)
}

// CreateDriver inserts a driver, active by default.
func (h *Handler) CreateDriver(c echo.Context) error {
	var req struct {
		FirstName     string `json:"firstName"`
		LastName      string `json:"lastName"`
		DefaultNumber int    `json:"defaultNumber"`
		DefaultTeamID int    `json:"defaultTeamID"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "first and last name are required")
	}

	exists, err := h.db.NewSelect().Model((*models.Team)(nil)).
		Where("team_id = ?", req.DefaultTeamID).
		Exists(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "team not found")
	}

	driver := &models.Driver{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DefaultNumber: req.DefaultNumber,
		DefaultTeamID: req.DefaultTeamID,
		IsActive:      true,
	}
	if _, err := h.db.NewInsert().Model(driver).Exec(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, driver)
}

// SetDriverActive flips a driver's eligibility for random assignment.
func (h *Handler) SetDriverActive(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid driver id")
	}

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.db.NewUpdate().Model((*models.Driver)(nil)).
		Set("is_active = ?", req.IsActive).
		Where("driver_id = ?", id).
		Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "driver not found")
	}

	return c.NoContent(http.StatusOK)
}

// CreateResult records a race result and links the matching picks.
func (h *Handler) CreateResult(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RaceID   int `json:"raceID"`
		DriverID int `json:"driverID"`
		Position int `json:"position"`
		Points   int `json:"points"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Position < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "position must be a positive integer")
	}

	raceExists, err := h.db.NewSelect().Model((*models.Race)(nil)).
		Where("race_id = ?", req.RaceID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	driverExists, err := h.db.NewSelect().Model((*models.Driver)(nil)).
		Where("driver_id = ?", req.DriverID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !raceExists || !driverExists {
		return echo.NewHTTPError(http.StatusNotFound, "race or driver not found")
	}

	result := &models.Result{
		RaceID:   req.RaceID,
		DriverID: req.DriverID,
		Position: req.Position,
		Points:   req.Points,
	}
	err = racing.RecordResult(ctx, h.db, result)
	if errors.Is(err, racing.ErrDuplicateResult) {
		return echo.NewHTTPError(http.StatusConflict, "result already recorded for this driver or position")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	zap.L().Info("result recorded",
		zap.Int("raceID", result.RaceID),
		zap.Int("driverID", result.DriverID),
		zap.Int("position", result.Position))

	return c.JSON(http.StatusCreated, result)
}

// CreateFAQ inserts an about-page entry.
func (h *Handler) CreateFAQ(c echo.Context) error {
	var req struct {
		Question     string `json:"question"`
		Answer       string `json:"answer"`
		DisplayOrder int    `json:"displayOrder"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question and answer are required")
	}

	faq := &models.FAQ{
		Question:     req.Question,
		Answer:       req.Answer,
		DisplayOrder: req.DisplayOrder,
	}
	if _, err := h.db.NewInsert().Model(faq).Exec(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, faq)
}

func timeFromRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(s))
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique constraint")
}
