package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/randomracing/fantasyapi/models"
	"github.com/randomracing/fantasyapi/racing"
	"github.com/randomracing/fantasyapi/twitter"
)

const oauthSessionName = "fr_oauth"

// The pinned tweet players quote when sharing their pick.
const announcementTweetID = "1490491780520943620"

// Play starts the Twitter sign-in handshake: generates state and a
// PKCE verifier, stores them in the cookie session and redirects to
// Twitter's authorize page.
func (h *Handler) Play(c echo.Context) error {
	state := twitter.NewVerifier()
	verifier := twitter.NewVerifier()

	sess, _ := h.sessions.Get(c.Request(), oauthSessionName)
	sess.Options.MaxAge = 600
	sess.Options.HttpOnly = true
	sess.Values["state"] = state
	sess.Values["verifier"] = verifier
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, h.social.AuthCodeURL(state, verifier))
}

// PickCallback finishes the handshake and assigns the signed-in user a
// random driver for the current race. First-time sign-ins create the
// user row; returning users get their profile refreshed. With no
// current race there is nothing to pick and the endpoint 404s.
func (h *Handler) PickCallback(c echo.Context) error {
	ctx := c.Request().Context()

	race, err := racing.CurrentRace(ctx, h.db, h.today())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if race == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no current race")
	}

	sess, _ := h.sessions.Get(c.Request(), oauthSessionName)
	state, _ := sess.Values["state"].(string)
	verifier, _ := sess.Values["verifier"].(string)
	if state == "" || verifier == "" || c.QueryParam("state") != state {
		// Stale or tampered session (often a page refresh); restart.
		return c.Redirect(http.StatusFound, "/play")
	}

	// The handshake values are single use.
	sess.Options.MaxAge = -1
	_ = sess.Save(c.Request(), c.Response())

	token, err := h.social.Exchange(ctx, c.QueryParam("code"), verifier)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authorization code exchange failed")
	}

	ident, err := h.social.Me(ctx, token)
	if err != nil {
		zap.L().Error("twitter profile lookup failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "unable to fetch twitter profile")
	}

	user := &models.User{
		UserID:     ident.ID,
		Username:   ident.Username,
		Name:       ident.Name,
		ProfileImg: ident.ProfileImg,
	}
	returning, err := h.db.NewSelect().Model((*models.User)(nil)).
		Where("user_id = ?", user.UserID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	_, err = h.db.NewInsert().Model(user).
		On("CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username, name = EXCLUDED.name, profile_img = EXCLUDED.profile_img").
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !returning {
		zap.L().Info("user joined for the first time", zap.String("username", user.Username))
	}

	pick, created, err := racing.AssignPick(ctx, h.db, user.UserID, race.RaceID, announcementTweetID)
	switch {
	case errors.Is(err, racing.ErrNoEligibleDriver):
		return echo.NewHTTPError(http.StatusConflict, "no active drivers to assign")
	case errors.Is(err, racing.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "race not found")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if created {
		zap.L().Info("pick assigned",
			zap.String("username", user.Username),
			zap.String("track", race.Track),
			zap.Int("driverID", pick.DriverID))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"race":    race,
		"user":    user,
		"pick":    pick,
		"created": created,
	})
}
