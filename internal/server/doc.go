// Package server runs the optional status endpoint of the agent.
//
// It owns the HTTP listener lifecycle: startup, stop on context
// cancellation and graceful shutdown.
package server
