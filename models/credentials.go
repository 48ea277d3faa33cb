// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DefaultSessionTTL is the validity window of an ID token when the token
// itself carries no readable expiry.
const DefaultSessionTTL = 60 * time.Minute

// Credentials are the long-lived account credentials exchanged for a
// [Session]. They are consumed by a single login call and never stored.
type Credentials struct {
	UserID   string `json:"UserID"`
	Password string `json:"Password"`
}

// Session is the result of a successful login or renewal.
type Session struct {
	// UserID is the account identifier echoed back by the login service.
	// It is required to renew the session.
	UserID string

	// IDToken is the bearer credential attached to every data request.
	IDToken string

	// RefreshToken mints a new IDToken without resending the password.
	RefreshToken string

	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the ID token is expired at now shifted forward by
// margin. A zero ExpiresAt is treated as expired.
func (s Session) IsExpired(now time.Time, margin time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return true
	}
	return !now.Add(margin).Before(s.ExpiresAt)
}

// Valid reports whether the session carries both tokens.
func (s Session) Valid() bool {
	return s.IDToken != "" && s.RefreshToken != ""
}
