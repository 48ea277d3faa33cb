package server

import "context"

// Server defines the lifecycle of the status server.
type Server interface {
	// RunServer serves requests until ctx is done or the listener fails.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server.
	Shutdown(ctx context.Context) error
}
