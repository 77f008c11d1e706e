package hop

import "time"

// RecentEventDates returns count hop dates, one per week, most recent first.
// The most recent date is the last occurrence of weekday on or before now.
// Pure function of its inputs.
func RecentEventDates(now time.Time, weekday time.Weekday, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	back := (int(day.Weekday()) - int(weekday) + 7) % 7
	day = day.AddDate(0, 0, -back)

	out := make([]time.Time, count)
	for i := range out {
		out[i] = day.AddDate(0, 0, -7*i)
	}
	return out
}
