package handlers

import (
	"context"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/oauth2"

	"github.com/randomracing/fantasyapi/models"
	"github.com/randomracing/fantasyapi/testutil"
	"github.com/randomracing/fantasyapi/twitter"
)

// newTestHandler builds a Handler over an in-memory database with a
// frozen clock, so "today" is whatever the test says it is.
func newTestHandler(t *testing.T, now time.Time) *Handler {
	t.Helper()
	return &Handler{
		db:       testutil.GetEmptyTestDB(t),
		jwtKey:   []byte("test-signing-key"),
		sessions: sessions.NewCookieStore([]byte("test-session-key")),
		now:      func() time.Time { return now },
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func mustDate(t *testing.T, date string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return ts
}

// newRequest builds an echo context around a recorder. body is sent as
// JSON when non-empty.
func newRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, code, httpErr.Code)
}

// stubSocial replaces the Twitter handshake with canned responses.
type stubSocial struct {
	ident       *twitter.Identity
	exchangeErr error
}

func (s *stubSocial) AuthCodeURL(state, verifier string) string {
	return "https://twitter.example/authorize?state=" + state
}

func (s *stubSocial) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	return &oauth2.Token{AccessToken: "stub-token"}, nil
}

func (s *stubSocial) Me(ctx context.Context, token *oauth2.Token) (*twitter.Identity, error) {
	return s.ident, nil
}

func seedScheduleRow(t *testing.T, db *bun.DB, year int) *models.Schedule {
	t.Helper()
	s := &models.Schedule{Year: year}
	_, err := db.NewInsert().Model(s).Exec(context.Background())
	require.NoError(t, err)
	return s
}

func seedRaceRow(t *testing.T, db *bun.DB, scheduleID int, track, date string) *models.Race {
	t.Helper()
	r := &models.Race{
		ScheduleID: scheduleID,
		Track:      track,
		Date:       date,
		SubmitBy:   mustDate(t, date),
	}
	_, err := db.NewInsert().Model(r).Exec(context.Background())
	require.NoError(t, err)
	return r
}

func seedTeamRow(t *testing.T, db *bun.DB, name string) *models.Team {
	t.Helper()
	team := &models.Team{Name: name}
	_, err := db.NewInsert().Model(team).Exec(context.Background())
	require.NoError(t, err)
	return team
}

func seedDriverRow(t *testing.T, db *bun.DB, teamID int, first, last string, active bool) *models.Driver {
	t.Helper()
	d := &models.Driver{
		FirstName:     first,
		LastName:      last,
		DefaultNumber: 1,
		DefaultTeamID: teamID,
		IsActive:      active,
	}
	_, err := db.NewInsert().Model(d).Exec(context.Background())
	require.NoError(t, err)
	return d
}
