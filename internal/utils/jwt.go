package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned by [TokenExpiry] when the token carries no exp claim.
var ErrNoExpiry = errors.New("token has no exp claim")

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The agent is not the audience that validates the token; it only needs to
// know when to renew it.
//
// Returns an error when tokenString is not a JWT or has no exp claim.
//
// Example usage:
//
//	exp, err := utils.TokenExpiry(session.IDToken)
//	if err != nil {
//	    exp = session.IssuedAt.Add(models.DefaultSessionTTL)
//	}
func TokenExpiry(tokenString string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("error occurred parsing token: %w", err)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("error occurred reading exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}

	return exp.Time, nil
}
