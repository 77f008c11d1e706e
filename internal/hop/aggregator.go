package hop

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tazhibayda/hop-service/internal/domain"
	"github.com/tazhibayda/hop-service/internal/log"
	"github.com/tazhibayda/hop-service/internal/metrics"
)

type UserLister interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type EffortFetcher interface {
	BestEffort(ctx context.Context, u domain.User, day *time.Time) (*domain.Effort, error)
}

// Aggregator builds ranked leaderboards: one Strava query per registered user,
// fanned out with bounded parallelism, sorted deterministically at the end.
// Read-only; never mutates stored state.
type Aggregator struct {
	Users   UserLister
	Efforts EffortFetcher

	Parallel     int           // max concurrent per-user fetches
	FetchTimeout time.Duration // cap per fetch so one slow user cannot stall the build
}

func NewAggregator(users UserLister, efforts EffortFetcher, parallel int, fetchTimeout time.Duration) *Aggregator {
	if parallel <= 0 {
		parallel = 4
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
	}
	return &Aggregator{Users: users, Efforts: efforts, Parallel: parallel, FetchTimeout: fetchTimeout}
}

// Leaders returns the ranked entries for day, or all-time when day is nil.
// Users with no matching effort are omitted. A single user's fetch failure
// (stale token, provider error, timeout) skips that user only.
func (a *Aggregator) Leaders(ctx context.Context, day *time.Time) ([]domain.LeaderboardEntry, error) {
	users, err := a.Users.ListUsers(ctx)
	if err != nil {
		// degraded read path: an unreachable store yields an empty board
		log.WithDD(ctx, log.L).Error("list users failed, serving empty leaderboard", zap.Error(err))
		return []domain.LeaderboardEntry{}, nil
	}

	entries := make([]domain.LeaderboardEntry, 0, len(users))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.Parallel)

	for _, u := range users {
		wg.Add(1)
		go func(u domain.User) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			fctx, cancel := context.WithTimeout(ctx, a.FetchTimeout)
			defer cancel()

			eff, err := a.Efforts.BestEffort(fctx, u, day)
			switch {
			case errors.Is(err, domain.ErrStaleCredential):
				metrics.EffortFetches.WithLabelValues("stale").Inc()
				log.WithDD(ctx, log.L).Warn("skip user: stale credential", zap.String("user_id", u.ID))
				return
			case err != nil:
				metrics.EffortFetches.WithLabelValues("error").Inc()
				log.WithDD(ctx, log.L).Warn("skip user: effort fetch failed",
					zap.String("user_id", u.ID), zap.Error(err))
				return
			case eff == nil:
				metrics.EffortFetches.WithLabelValues("none").Inc()
				return
			}
			metrics.EffortFetches.WithLabelValues("ok").Inc()

			mu.Lock()
			entries = append(entries, domain.LeaderboardEntry{
				UserID:    u.ID,
				Name:      u.Name,
				Firstname: u.Firstname,
				Lastname:  u.Lastname,
				Effort:    *eff,
			})
			mu.Unlock()
		}(u)
	}
	wg.Wait()

	// deterministic regardless of fetch completion order: elapsed asc, then id asc
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Effort.ElapsedSecs != entries[j].Effort.ElapsedSecs {
			return entries[i].Effort.ElapsedSecs < entries[j].Effort.ElapsedSecs
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	metrics.LeaderboardSize.Observe(float64(len(entries)))
	return entries, nil
}
