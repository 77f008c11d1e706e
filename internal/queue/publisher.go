package queue

import (
	"context"
)

const (
	Exchange          = "hop.events"
	KeyUserRegistered = "user.registered"
)

type Publisher interface {
	Publish(ctx context.Context, exchange, key string, event any, reqID string) error
	Close() error
}

// NoopPub stands in when no broker is configured.
type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, exchange, key string, event any, reqID string) error {
	return nil
}
func (NoopPub) Close() error { return nil }

// UserRegistered is published after a successful token exchange and upsert.
type UserRegistered struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	// true when the athlete already had a profile and this was a re-registration
	Refreshed bool `json:"refreshed"`
}
