package strava

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"context"

	"github.com/tazhibayda/hop-service/internal/domain"
)

// effort mirrors the segment_efforts wire shape; only the fields we rank on.
type effort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ElapsedTime int    `json:"elapsed_time"`
	StartLocal  string `json:"start_date_local"`
	Segment     struct {
		ID int64 `json:"id"`
	} `json:"segment"`
	Activity struct {
		ID int64 `json:"id"`
	} `json:"activity"`
	Athlete struct {
		ID int64 `json:"id"`
	} `json:"athlete"`
}

// SegmentEfforts lists the authenticated athlete's efforts on segmentID.
// A non-nil day scopes the listing to that calendar date (local); nil means
// all-time. Auth rejection and transient provider failures both come back as
// ErrUpstreamQuery; callers treat either as "no result for this user".
func (c *Client) SegmentEfforts(ctx context.Context, accessToken string, segmentID int64, day *time.Time) ([]domain.Effort, error) {
	q := url.Values{}
	q.Set("segment_id", strconv.FormatInt(segmentID, 10))
	q.Set("per_page", "200")
	if day != nil {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		q.Set("start_date_local", start.Format("2006-01-02T15:04:05Z"))
		q.Set("end_date_local", start.AddDate(0, 0, 1).Format("2006-01-02T15:04:05Z"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBase+"/segment_efforts?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamQuery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamQuery, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw []effort
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode efforts: %v", domain.ErrUpstreamQuery, err)
	}

	out := make([]domain.Effort, 0, len(raw))
	for _, e := range raw {
		if e.Segment.ID != segmentID {
			continue
		}
		st, err := time.Parse("2006-01-02T15:04:05Z", e.StartLocal)
		if err != nil {
			continue
		}
		out = append(out, domain.Effort{
			ID:          e.ID,
			SegmentID:   e.Segment.ID,
			ActivityID:  e.Activity.ID,
			AthleteID:   strconv.FormatInt(e.Athlete.ID, 10),
			Name:        e.Name,
			StartLocal:  st,
			ElapsedSecs: e.ElapsedTime,
		})
	}
	return out, nil
}
