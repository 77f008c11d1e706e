package hop_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tazhibayda/hop-service/internal/domain"
	"github.com/tazhibayda/hop-service/internal/hop"
)

type fakeUsers struct {
	users []domain.User
	err   error
}

func (f fakeUsers) ListUsers(ctx context.Context) ([]domain.User, error) { return f.users, f.err }

// fakeEfforts maps user id -> elapsed seconds; missing id means no match,
// an entry in fail means that user's fetch errors.
type fakeEfforts struct {
	elapsed map[string]int
	fail    map[string]error
}

func (f fakeEfforts) BestEffort(ctx context.Context, u domain.User, day *time.Time) (*domain.Effort, error) {
	if err, ok := f.fail[u.ID]; ok {
		return nil, err
	}
	secs, ok := f.elapsed[u.ID]
	if !ok {
		return nil, nil
	}
	return &domain.Effort{AthleteID: u.ID, ElapsedSecs: secs, SegmentID: 1}, nil
}

func user(id string) domain.User {
	return domain.User{ID: id, Kind: domain.KindUser, Name: "u" + id, AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour).Unix()}
}

func TestLeaders_OrderingAndOmission(t *testing.T) {
	agg := hop.NewAggregator(
		fakeUsers{users: []domain.User{user("1"), user("2"), user("3")}},
		fakeEfforts{elapsed: map[string]int{"1": 100, "2": 90}},
		2, time.Second,
	)

	got, err := agg.Leaders(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 entries, got %d", len(got))
	}
	if got[0].UserID != "2" || got[1].UserID != "1" {
		t.Fatalf("want [2 1], got [%s %s]", got[0].UserID, got[1].UserID)
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Fatalf("ranks wrong: %d %d", got[0].Rank, got[1].Rank)
	}
}

func TestLeaders_TieBreakByUserID(t *testing.T) {
	agg := hop.NewAggregator(
		fakeUsers{users: []domain.User{user("20"), user("10")}},
		fakeEfforts{elapsed: map[string]int{"10": 55, "20": 55}},
		2, time.Second,
	)
	got, err := agg.Leaders(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].UserID != "10" || got[1].UserID != "20" {
		t.Fatalf("tie-break: want [10 20], got [%s %s]", got[0].UserID, got[1].UserID)
	}
}

func TestLeaders_FailureIsolation(t *testing.T) {
	users := make([]domain.User, 0, 5)
	elapsed := map[string]int{}
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("%d", i)
		users = append(users, user(id))
		elapsed[id] = 100 + i
	}
	agg := hop.NewAggregator(
		fakeUsers{users: users},
		fakeEfforts{
			elapsed: elapsed,
			fail:    map[string]error{"3": fmt.Errorf("%w: 429", domain.ErrUpstreamQuery)},
		},
		3, time.Second,
	)
	got, err := agg.Leaders(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("one failing user must not abort the rest: want 4, got %d", len(got))
	}
	for _, e := range got {
		if e.UserID == "3" {
			t.Fatal("failed user leaked into the board")
		}
	}
}

func TestLeaders_StaleCredentialSkipped(t *testing.T) {
	agg := hop.NewAggregator(
		fakeUsers{users: []domain.User{user("1"), user("2")}},
		fakeEfforts{
			elapsed: map[string]int{"1": 80},
			fail:    map[string]error{"2": fmt.Errorf("%w: expired", domain.ErrStaleCredential)},
		},
		2, time.Second,
	)
	got, err := agg.Leaders(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].UserID != "1" {
		t.Fatalf("stale user must be skipped, got %+v", got)
	}
}

func TestLeaders_StoreUnavailableDegradesToEmpty(t *testing.T) {
	agg := hop.NewAggregator(
		fakeUsers{err: fmt.Errorf("%w: down", domain.ErrStorageUnavailable)},
		fakeEfforts{},
		2, time.Second,
	)
	got, err := agg.Leaders(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty board, got %d entries", len(got))
	}
}

// slowEfforts blocks until the per-fetch context is cancelled.
type slowEfforts struct{}

func (slowEfforts) BestEffort(ctx context.Context, u domain.User, day *time.Time) (*domain.Effort, error) {
	<-ctx.Done()
	return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamQuery, ctx.Err())
}

func TestLeaders_SlowFetchIsBounded(t *testing.T) {
	agg := hop.NewAggregator(
		fakeUsers{users: []domain.User{user("1")}},
		slowEfforts{},
		1, 20*time.Millisecond,
	)
	start := time.Now()
	got, err := agg.Leaders(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("timed-out fetch must count as no match, got %d", len(got))
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("fetch timeout not enforced")
	}
}
