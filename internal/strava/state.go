package strava

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OAuth state parameter, signed so the callback can reject forged redirects.
// Short-lived HS256 token; no claims beyond issuance and expiry.

func MakeState(secret string, ttl time.Duration) (string, error) {
	c := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

func VerifyState(secret, state string) error {
	t, err := jwt.Parse(state, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return err
	}
	if !t.Valid {
		return errors.New("invalid state")
	}
	return nil
}
