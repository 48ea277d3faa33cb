// Package config provides configuration loading, merging, and validation
// facilities for the agent.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. JSON config file
//  3. Environment variables (TRIVA_DPA_*), seeded from an optional .env file
//  4. Command-line flags
//
// The main entry points are [GetStructuredConfig] for the raw merged
// configuration and [GetAgentConfig] for the resolved agent view.
package config
