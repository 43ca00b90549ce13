// Package twitter wraps the Twitter OAuth2 sign-in handshake and the
// single profile lookup the game needs. The rest of the application
// only ever sees a verified Identity.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
)

const meURL = "https://api.twitter.com/2/users/me?user.fields=profile_image_url"

// Endpoint is Twitter's OAuth2 authorization endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://twitter.com/i/oauth2/authorize",
	TokenURL: "https://api.twitter.com/2/oauth2/token",
}

// Identity is a verified Twitter account as delivered by the API.
type Identity struct {
	ID         int64
	Username   string
	Name       string
	ProfileImg string
}

// Client performs the OAuth2 code flow with PKCE, which Twitter
// requires for confidential clients.
type Client struct {
	oauth *oauth2.Config
}

// New builds a Client from application credentials and the registered
// callback URL.
func New(clientID, clientSecret, callback string) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callback,
			Scopes:       []string{"tweet.read", "users.read"},
			Endpoint:     Endpoint,
		},
	}
}

// NewVerifier returns a fresh PKCE code verifier. The caller keeps it
// in the session between AuthCodeURL and Exchange.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL returns the URL to send the user to, binding the given
// state and PKCE verifier.
func (c *Client) AuthCodeURL(state, verifier string) string {
	return c.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange swaps the authorization code for an access token.
func (c *Client) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	return c.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
}

// Me fetches the signed-in account's profile.
func (c *Client) Me(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	resp, err := c.oauth.Client(ctx, token).Get(meURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("twitter: users/me returned %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Data struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			Username        string `json:"username"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("twitter: decoding users/me: %w", err)
	}

	id, err := strconv.ParseInt(payload.Data.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("twitter: non-numeric user id %q", payload.Data.ID)
	}

	return &Identity{
		ID:         id,
		Username:   payload.Data.Username,
		Name:       payload.Data.Name,
		ProfileImg: payload.Data.ProfileImageURL,
	}, nil
}
