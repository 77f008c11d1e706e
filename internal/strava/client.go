package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tazhibayda/hop-service/internal/domain"
)

const (
	authURL      = "https://www.strava.com/oauth/authorize"
	tokenURL     = "https://www.strava.com/oauth/token"
	apiBase      = "https://www.strava.com/api/v3"
	oauthScopes  = "read_all,profile:read_all,activity:read_all"
	exchangePath = "/api/exchange_token"
)

// Client talks to Strava: the OAuth token endpoint and the v3 API.
// No local state beyond credentials; safe for concurrent use.
type Client struct {
	ClientID     string
	ClientSecret string
	HTTP         *http.Client

	// overridable in tests
	TokenURL string
	APIBase  string
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTP:         &http.Client{Timeout: 10 * time.Second},
		TokenURL:     tokenURL,
		APIBase:      apiBase,
	}
}

// AuthCodeURL builds the authorization URL the participant is sent to.
// baseURL is this service's externally visible origin.
func (c *Client) AuthCodeURL(baseURL, state string) string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", baseURL+exchangePath)
	q.Set("response_type", "code")
	q.Set("approval_prompt", "force")
	q.Set("scope", oauthScopes)
	q.Set("state", state)
	return authURL + "?" + q.Encode()
}

type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type TokenResult struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresAt    int64   `json:"expires_at"` // epoch seconds
	Athlete      Athlete `json:"athlete"`
}

// Exchange trades a single-use authorization code for a token pair plus the
// athlete profile. Strava is the source of truth for code validity; no local
// validation happens here. A non-2xx status yields ErrUpstreamAuth carrying
// the provider's raw error payload.
func (c *Client) Exchange(ctx context.Context, code string) (*TokenResult, error) {
	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamAuth, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr TokenResult
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("%w: decode token response: %v", domain.ErrUpstreamAuth, err)
	}
	if tr.AccessToken == "" || tr.Athlete.ID == 0 {
		return nil, fmt.Errorf("%w: incomplete token response", domain.ErrUpstreamAuth)
	}
	return &tr, nil
}
