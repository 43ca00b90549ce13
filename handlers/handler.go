package handlers

import (
	"context"
	"time"

	"github.com/gorilla/sessions"
	"github.com/uptrace/bun"
	"golang.org/x/oauth2"

	"github.com/randomracing/fantasyapi/config"
	"github.com/randomracing/fantasyapi/racing"
	"github.com/randomracing/fantasyapi/twitter"
)

// SocialClient is the slice of the Twitter client the handlers use,
// kept as an interface so tests can stub the handshake.
type SocialClient interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error)
	Me(ctx context.Context, token *oauth2.Token) (*twitter.Identity, error)
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db       *bun.DB
	jwtKey   []byte
	sessions sessions.Store
	social   SocialClient
	now      func() time.Time
}

// New creates a Handler with the given database connection and config.
func New(db *bun.DB, cfg *config.Config) *Handler {
	return &Handler{
		db:       db,
		jwtKey:   cfg.JWTKey(),
		sessions: sessions.NewCookieStore([]byte(cfg.SessionSecret)),
		social:   twitter.New(cfg.TwitterClientID, cfg.TwitterClientSecret, cfg.TwitterCallback),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) today() string {
	return racing.Today(h.now())
}
