// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the data-publish API.
//
// [AuthAdapter] covers the login service and [DataPublishAdapter] the paged
// data-publish endpoints; both are implemented over HTTP/REST by [HTTPAdapter].
//
// Error values defined in errors.go are mapped from HTTP status codes and
// transport failures by mapHTTPError and mapRequestError so that callers can
// use [errors.Is] for protocol-agnostic error handling (e.g. [ErrAuthExpired]
// for 401/403, [ErrTransport] for connection failures).
package adapter

import (
	"context"

	"github.com/MKhiriev/data-publish-agent/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// AuthAdapter exchanges credentials for sessions.
type AuthAdapter interface {
	// Login authenticates with the account credentials and returns a fresh
	// session. The credentials are not retained. Any rejection, including
	// an interactive challenge, is reported as [ErrAuth]. Login never
	// retries.
	Login(ctx context.Context, creds models.Credentials) (models.Session, error)

	// Renew obtains a new ID token using the session's refresh token,
	// without resending the password. Returns [ErrAuth] if the refresh
	// token is rejected.
	Renew(ctx context.Context, session models.Session) (models.Session, error)
}

// DataPublishAdapter reads pages of updates from the data-publish API.
type DataPublishAdapter interface {
	// FetchPage reads one page of collection updates under scope, starting
	// at cursor, authorised by token. It is read-only and idempotent.
	//
	// Errors: [ErrAuthExpired] when the token is rejected, [ErrTransport]
	// on connectivity failure or timeout, [ErrFetch] for any other
	// non-success response or malformed body.
	FetchPage(ctx context.Context, collection models.Collection, scope models.Scope, cursor models.SyncCursor, token string) (models.Page, error)
}
