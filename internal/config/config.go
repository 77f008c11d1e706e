package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	BaseURL  string
	MongoURI string
	MongoDB  string

	StravaClientID     string
	StravaClientSecret string
	SegmentID          int64
	HopWeekday         time.Weekday

	StateSecret     string
	RedisAddr       string
	RabbitURL       string
	RateLimitPerMin int
	FetchTimeout    time.Duration
	FetchParallel   int
}

func Load() Config {
	return Config{
		Port:               getenv("APP_PORT", "8080"),
		BaseURL:            getenv("BASE_URL", "http://localhost:8080"),
		MongoURI:           getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getenv("MONGO_DB", "hop_db"),
		StravaClientID:     getenv("STRAVA_CLIENT_ID", ""),
		StravaClientSecret: getenv("STRAVA_CLIENT_SECRET", ""),
		SegmentID:          int64(atoi(getenv("STRAVA_SEGMENT_ID", "0"))),
		HopWeekday:         weekday(getenv("HOP_WEEKDAY", "saturday")),
		StateSecret:        getenv("STATE_SECRET", "default_state_key"),
		RedisAddr:          getenv("REDIS_ADDR", ""),
		RabbitURL:          getenv("RABBIT_URL", ""),
		RateLimitPerMin:    atoi(getenv("RATE_LIMIT_PER_MIN", "10")),
		FetchTimeout:       time.Duration(atoi(getenv("FETCH_TIMEOUT_MS", "5000"))) * time.Millisecond,
		FetchParallel:      atoi(getenv("FETCH_PARALLEL", "4")),
	}
}

func weekday(s string) time.Weekday {
	switch strings.ToLower(s) {
	case "sunday":
		return time.Sunday
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	default:
		return time.Saturday
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
