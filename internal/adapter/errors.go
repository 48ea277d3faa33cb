package adapter

import "errors"

var (
	// ErrAuth indicates rejected credentials, a rejected refresh token or a
	// malformed login response.
	ErrAuth = errors.New("authentication failed")
	// ErrAuthExpired indicates the bearer token was rejected by a data
	// endpoint and must be renewed.
	ErrAuthExpired = errors.New("authorization expired")
	// ErrFetch indicates a non-success response or a malformed page body.
	ErrFetch = errors.New("fetch failed")
	// ErrTransport indicates a connectivity failure or a timeout. It is
	// safe to retry.
	ErrTransport = errors.New("transport failure")
)
