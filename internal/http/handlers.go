package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/hop-service/internal/config"
	"github.com/tazhibayda/hop-service/internal/domain"
	"github.com/tazhibayda/hop-service/internal/hop"
	"github.com/tazhibayda/hop-service/internal/log"
	"github.com/tazhibayda/hop-service/internal/queue"
	"github.com/tazhibayda/hop-service/internal/repo"
	"github.com/tazhibayda/hop-service/internal/strava"
)

const (
	stateTTL        = 10 * time.Minute
	pickerDateCount = 5
	dateLayout      = "2006-01-02"
)

// UserStore is the slice of repo.Store the handlers depend on.
type UserStore interface {
	UpsertUser(ctx context.Context, u domain.User) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteAllUsers(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Exchanger is the token-exchange slice of the Strava client.
type Exchanger interface {
	AuthCodeURL(baseURL, state string) string
	Exchange(ctx context.Context, code string) (*strava.TokenResult, error)
}

type Leaderboard interface {
	Leaders(ctx context.Context, day *time.Time) ([]domain.LeaderboardEntry, error)
}

type Handler struct {
	Cfg    config.Config
	Store  UserStore // nil when the store is unconfigured; checked once per request
	Strava Exchanger
	Board  Leaderboard
	Redis  *repo.Redis
	Events queue.Publisher
}

func NewHandler(cfg config.Config, store UserStore, sc Exchanger, board Leaderboard, rds *repo.Redis, pub queue.Publisher) *Handler {
	return &Handler{Cfg: cfg, Store: store, Strava: sc, Board: board, Redis: rds, Events: pub}
}

// Register godoc
// @Summary Build the Strava authorization URL
// @Tags registration
// @Produce json
// @Success 200 {object} map[string]string
// @Router /register [get]
func (h *Handler) Register(c *gin.Context) {
	state, err := strava.MakeState(h.Cfg.StateSecret, stateTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "state generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": h.Strava.AuthCodeURL(h.Cfg.BaseURL, state)})
}

// ExchangeToken godoc
// @Summary OAuth callback: exchange code, upsert user
// @Tags registration
// @Param state query string true "signed state"
// @Param code query string true "authorization code"
// @Param scope query string false "granted scopes"
// @Success 302
// @Failure 400 {object} map[string]string
// @Failure 502 {string} string
// @Router /api/exchange_token [get]
func (h *Handler) ExchangeToken(c *gin.Context) {
	ctx := c.Request.Context()

	if err := strava.VerifyState(h.Cfg.StateSecret, c.Query("state")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}

	tr, err := h.Strava.Exchange(ctx, code)
	if err != nil {
		log.WithDD(ctx, log.L).Error("token exchange failed", zap.Error(err))
		// provider's raw payload travels in the error per the exchange contract
		c.String(http.StatusBadGateway, "error registering with Strava: %v", err)
		return
	}

	u := domain.User{
		ID:           strconv.FormatInt(tr.Athlete.ID, 10),
		Kind:         domain.KindUser,
		Name:         tr.Athlete.Username,
		Firstname:    tr.Athlete.Firstname,
		Lastname:     tr.Athlete.Lastname,
		AccessToken:  tr.AccessToken,
		ExpiresAt:    tr.ExpiresAt,
		RefreshToken: tr.RefreshToken,
	}
	stored, err := h.Store.UpsertUser(ctx, u)
	if err != nil {
		log.WithDD(ctx, log.L).Error("user upsert failed", zap.String("user_id", u.ID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}

	reqID := c.GetString(requestIDKey)
	go func() {
		if err := h.Events.Publish(context.Background(), queue.Exchange, queue.KeyUserRegistered,
			queue.UserRegistered{
				UserID:    stored.ID,
				Name:      stored.Name,
				Firstname: stored.Firstname,
				Refreshed: !stored.CreatedAt.Equal(stored.UpdatedAt),
			}, reqID); err != nil {
			log.L.Warn("publish user.registered failed", zap.Error(err))
		}
	}()

	c.Redirect(http.StatusFound, "/register-result?user="+url.QueryEscape(stored.Firstname))
}

// RegisterResult closes the OAuth loop; the static page renders it.
func (h *Handler) RegisterResult(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": c.Query("user"), "registered": true})
}

type resultsResponse struct {
	Date    string                    `json:"date"` // "all-time" when unscoped
	Entries []domain.LeaderboardEntry `json:"entries"`
	Dates   []string                  `json:"dates"` // recent hop dates for the picker
}

// Results godoc
// @Summary Leaderboard for a hop date, or all-time
// @Tags leaderboard
// @Param date query string false "YYYY-MM-DD; absent = all-time"
// @Produce json
// @Success 200 {object} resultsResponse
// @Failure 400 {object} map[string]string
// @Router /results [get]
func (h *Handler) Results(c *gin.Context) {
	ctx := c.Request.Context()

	day, label, ok := parseDate(c)
	if !ok {
		return
	}

	cacheKey := "hop:leaderboard:" + label
	if b := h.Redis.GetCache(ctx, cacheKey); b != nil {
		c.Data(http.StatusOK, "application/json", b)
		return
	}

	entries, err := h.Board.Leaders(ctx, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard build failed"})
		return
	}

	dates := hop.RecentEventDates(time.Now(), h.Cfg.HopWeekday, pickerDateCount)
	out := resultsResponse{Date: label, Entries: entries, Dates: formatDates(dates)}

	c.JSON(http.StatusOK, out)
	if body, err := jsonBody(out); err == nil {
		h.Redis.SetCache(ctx, cacheKey, body, time.Minute)
	}
}

// Activities godoc
// @Summary Matching efforts for a date
// @Tags leaderboard
// @Param date query string true "YYYY-MM-DD"
// @Produce json
// @Success 200 {array} domain.Effort
// @Router /activities [get]
func (h *Handler) Activities(c *gin.Context) {
	ctx := c.Request.Context()

	if h.Store == nil {
		c.JSON(http.StatusOK, []domain.Effort{})
		return
	}
	day, _, ok := parseDate(c)
	if !ok {
		return
	}

	entries, err := h.Board.Leaders(ctx, day)
	if err != nil {
		c.JSON(http.StatusOK, []domain.Effort{})
		return
	}
	efforts := make([]domain.Effort, 0, len(entries))
	for _, e := range entries {
		efforts = append(efforts, e.Effort)
	}
	c.JSON(http.StatusOK, efforts)
}

type userView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Expired   bool   `json:"expired"`
}

// Users godoc
// @Summary Registered users
// @Tags users
// @Param firstname query string false "filter by first name"
// @Produce json
// @Success 200 {array} userView
// @Router /users [get]
func (h *Handler) Users(c *gin.Context) {
	ctx := c.Request.Context()

	if h.Store == nil {
		c.JSON(http.StatusOK, []userView{})
		return
	}
	users, err := h.Store.ListUsers(ctx)
	if err != nil {
		log.WithDD(ctx, log.L).Error("list users failed", zap.Error(err))
		c.JSON(http.StatusOK, []userView{})
		return
	}

	filter := strings.ToLower(strings.TrimSpace(c.Query("firstname")))
	now := time.Now()
	out := make([]userView, 0, len(users))
	for _, u := range users {
		if filter != "" && strings.ToLower(u.Firstname) != filter {
			continue
		}
		out = append(out, userView{
			ID:        u.ID,
			Name:      u.Name,
			Firstname: u.Firstname,
			Lastname:  u.Lastname,
			Expired:   !u.TokenUsable(now),
		})
	}
	c.JSON(http.StatusOK, out)
}

// DeleteUsers wipes every registered user. Admin endpoint.
func (h *Handler) DeleteUsers(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}
	n, err := h.Store.DeleteAllUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "store unconfigured"})
		return
	}
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseDate reads ?date=; absent means all-time (nil day). A malformed date
// writes a 400 and reports !ok.
func parseDate(c *gin.Context) (day *time.Time, label string, ok bool) {
	raw := c.Query("date")
	if raw == "" {
		return nil, "all-time", true
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return nil, "", false
	}
	return &d, raw, true
}

func formatDates(in []time.Time) []string {
	out := make([]string, len(in))
	for i, d := range in {
		out[i] = d.Format(dateLayout)
	}
	return out
}

func jsonBody(v any) ([]byte, error) { return json.Marshal(v) }
