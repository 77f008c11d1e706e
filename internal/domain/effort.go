package domain

import "time"

// Effort is one traversal of the target segment, fetched live from Strava.
// Not persisted.
type Effort struct {
	ID          int64     `json:"id"`
	SegmentID   int64     `json:"segment_id"`
	ActivityID  int64     `json:"activity_id"`
	AthleteID   string    `json:"athlete_id"`
	Name        string    `json:"name"`
	StartLocal  time.Time `json:"start_date_local"`
	ElapsedSecs int       `json:"elapsed_time"` // ranking key, lower is better
}

// OnDate reports whether the effort happened on the given calendar day
// (local time of the activity).
func (e Effort) OnDate(day time.Time) bool {
	y1, m1, d1 := e.StartLocal.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Effort    Effort `json:"effort"`
}
