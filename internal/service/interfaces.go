// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/data-publish-agent/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=FetcherWrapper

// AuthService owns the session of the agent. It is safe for concurrent use:
// readers share the current ID token and renewals go through a single path.
type AuthService interface {
	// Login exchanges creds for a session. The credentials are not kept.
	Login(ctx context.Context, creds models.Credentials) error

	// Token returns the current ID token, renewing it first when it is
	// about to expire.
	Token(ctx context.Context) (string, error)

	// Refresh renews the session after staleToken was rejected. Callers
	// presenting the same stale token share one renewal; a caller whose
	// stale token was already replaced gets the current token back.
	Refresh(ctx context.Context, staleToken string) (string, error)
}

// Fetcher reads one page of a collection with an authorised request.
type Fetcher interface {
	// Fetch returns the page at cursor. A rejected token is renewed once
	// and the same cursor is retried; a second rejection yields
	// [ErrSessionExpired]. Transport failures are retried with backoff.
	Fetch(ctx context.Context, collection models.Collection, scope models.Scope, cursor models.SyncCursor) (models.Page, error)
}

// FetcherWrapper decorates a Fetcher with extra behaviour.
type FetcherWrapper interface {
	Wrap(Fetcher) Fetcher
}

// SyncDriver runs the sync of the whole collection tree.
type SyncDriver interface {
	// Run performs one sync run. The returned error joins every collection
	// failure; fatal errors (session expired, cancellation) are returned
	// as is.
	Run(ctx context.Context) (models.SyncReport, error)

	// LastReport returns the report of the latest finished run.
	LastReport() (models.SyncReport, bool)
}
