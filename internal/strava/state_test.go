package strava_test

import (
	"testing"
	"time"

	"github.com/tazhibayda/hop-service/internal/strava"
)

func TestState_RoundTrip(t *testing.T) {
	s, err := strava.MakeState("k1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if err := strava.VerifyState("k1", s); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestState_WrongKey(t *testing.T) {
	s, _ := strava.MakeState("k1", time.Minute)
	if err := strava.VerifyState("k2", s); err == nil {
		t.Fatal("state signed with another key must not verify")
	}
}

func TestState_Expired(t *testing.T) {
	s, _ := strava.MakeState("k1", -time.Minute)
	if err := strava.VerifyState("k1", s); err == nil {
		t.Fatal("expired state must not verify")
	}
}

func TestState_Garbage(t *testing.T) {
	if err := strava.VerifyState("k1", "not-a-jwt"); err == nil {
		t.Fatal("garbage must not verify")
	}
}
