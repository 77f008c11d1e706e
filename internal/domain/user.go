package domain

import (
	"errors"
	"time"
)

// KindUser tags user documents; other document types may share the collection.
const KindUser = "user"

type User struct {
	ID           string `bson:"_id"           json:"id"` // Strava athlete id, immutable
	Kind         string `bson:"kind"          json:"-"`
	Name         string `bson:"name"          json:"name"`
	Firstname    string `bson:"firstname"     json:"firstname"`
	Lastname     string `bson:"lastname"      json:"lastname"`
	AccessToken  string `bson:"access_token"  json:"-"`
	ExpiresAt    int64  `bson:"expires_at"    json:"expires_at"` // epoch seconds
	RefreshToken string `bson:"refresh_token" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TokenUsable reports whether the stored access token is still valid at now.
// expires_at == now counts as expired.
func (u User) TokenUsable(now time.Time) bool {
	return now.Unix() < u.ExpiresAt
}

// Validate rejects documents that lost required fields; callers quarantine
// (skip and log) rather than trusting the stored shape.
func (u User) Validate() error {
	if u.ID == "" {
		return errors.New("user missing _id")
	}
	if u.AccessToken == "" {
		return errors.New("user missing access_token")
	}
	if u.ExpiresAt == 0 {
		return errors.New("user missing expires_at")
	}
	return nil
}
