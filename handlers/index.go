package handlers

import (
	"math/rand"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/randomracing/fantasyapi/models"
	"github.com/randomracing/fantasyapi/racing"
)

var headlines = []string{
	"The fantasy racing game where you don't get to pick who wins.",
	"Why spend money on fantasy racing?",
	"Spinning a prize wheel meets fantasy Formula 1 racing.",
	"Fantasy racing that's not considered gambling.",
	"Fantasy racing crossed with a random number generator.",
}

// Index returns the landing payload: the current race, if any, and a
// rotating headline.
func (h *Handler) Index(c echo.Context) error {
	race, err := racing.CurrentRace(c.Request().Context(), h.db, h.today())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"race":     race,
		"headline": headlines[rand.Intn(len(headlines))],
	})
}

// About returns the FAQ list, highest display order first.
func (h *Handler) About(c echo.Context) error {
	var faqs []models.FAQ
	err := h.db.NewSelect().Model(&faqs).
		OrderExpr("display_order DESC, faq_id ASC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, faqs)
}
