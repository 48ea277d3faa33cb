// Package http implements the status endpoint of the agent.
//
// It exposes liveness, the report of the latest sync run and build
// information. Request tracing, access logging and response compression are
// handled by middleware before a request reaches a handler.
package http
