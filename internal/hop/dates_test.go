package hop_test

import (
	"testing"
	"time"

	"github.com/tazhibayda/hop-service/internal/hop"
)

func TestRecentEventDates_WeekApartMostRecentFirst(t *testing.T) {
	// Wednesday 2024-06-12; hop runs on Saturdays
	now := time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)
	got := hop.RecentEventDates(now, time.Saturday, 5)

	if len(got) != 5 {
		t.Fatalf("want 5 dates, got %d", len(got))
	}
	if got[0].Format("2006-01-02") != "2024-06-08" {
		t.Fatalf("most recent saturday: want 2024-06-08, got %s", got[0].Format("2006-01-02"))
	}
	for i, d := range got {
		if d.Weekday() != time.Saturday {
			t.Fatalf("date %d not a saturday: %s", i, d)
		}
		if i > 0 && got[i-1].Sub(d) != 7*24*time.Hour {
			t.Fatalf("dates %d/%d not 7 days apart: %s %s", i-1, i, got[i-1], d)
		}
	}
}

func TestRecentEventDates_EventDayItself(t *testing.T) {
	// a Saturday counts as its own most recent occurrence
	now := time.Date(2024, 6, 8, 9, 0, 0, 0, time.UTC)
	got := hop.RecentEventDates(now, time.Saturday, 1)
	if got[0].Format("2006-01-02") != "2024-06-08" {
		t.Fatalf("want 2024-06-08, got %s", got[0].Format("2006-01-02"))
	}
}

func TestRecentEventDates_DeterministicWithinDay(t *testing.T) {
	morning := time.Date(2024, 6, 12, 0, 1, 0, 0, time.UTC)
	evening := time.Date(2024, 6, 12, 23, 59, 0, 0, time.UTC)
	a := hop.RecentEventDates(morning, time.Saturday, 5)
	b := hop.RecentEventDates(evening, time.Saturday, 5)
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("dates differ within the same day at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestRecentEventDates_ZeroCount(t *testing.T) {
	if got := hop.RecentEventDates(time.Now(), time.Saturday, 0); got != nil {
		t.Fatalf("want nil for count 0, got %v", got)
	}
}
