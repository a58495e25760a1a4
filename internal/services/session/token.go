package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errTokenExpired = errors.New("token expired")

// tokenExpiry reads the exp claim of an upstream token without verifying its
// signature; the backend does that on every call. Tokens without exp are
// rejected, as are tokens that expired at or before now.
func tokenExpiry(token string, now time.Time) (time.Time, error) {
	if token == "" {
		return time.Time{}, errors.New("token missing")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("token exp: %w", err)
	}
	if exp == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	if !exp.After(now) {
		return time.Time{}, errTokenExpired
	}
	return exp.Time, nil
}
