package hop

import (
	"context"
	"fmt"
	"time"

	"github.com/tazhibayda/hop-service/internal/domain"
)

// EffortLister is the slice of the Strava client the activity service needs.
type EffortLister interface {
	SegmentEfforts(ctx context.Context, accessToken string, segmentID int64, day *time.Time) ([]domain.Effort, error)
}

// ActivityService fetches a user's matching effort on the target segment.
// It refuses to query with an expired token: no refresh flow exists, so a
// stale credential surfaces as ErrStaleCredential instead of a dead query.
type ActivityService struct {
	Strava    EffortLister
	SegmentID int64
	Now       func() time.Time
}

func NewActivityService(strava EffortLister, segmentID int64) *ActivityService {
	return &ActivityService{Strava: strava, SegmentID: segmentID, Now: time.Now}
}

// BestEffort returns the user's best (minimum elapsed time) effort on the
// target segment for the given day, or all-time when day is nil. A nil effort
// with nil error means no match.
func (a *ActivityService) BestEffort(ctx context.Context, u domain.User, day *time.Time) (*domain.Effort, error) {
	if !u.TokenUsable(a.Now()) {
		return nil, fmt.Errorf("%w: user %s token expired at %d", domain.ErrStaleCredential, u.ID, u.ExpiresAt)
	}

	efforts, err := a.Strava.SegmentEfforts(ctx, u.AccessToken, a.SegmentID, day)
	if err != nil {
		return nil, err
	}

	var best *domain.Effort
	for i := range efforts {
		e := efforts[i]
		if e.SegmentID != a.SegmentID {
			continue
		}
		if day != nil && !e.OnDate(*day) {
			continue
		}
		if best == nil || e.ElapsedSecs < best.ElapsedSecs {
			best = &e
		}
	}
	return best, nil
}
