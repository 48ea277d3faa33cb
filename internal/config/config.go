// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// EnvPrefix is prepended to every environment variable name read by the
// agent (e.g. TRIVA_DPA_ACCOUNTID).
const EnvPrefix = "TRIVA_DPA_"

// StructuredConfig is the top-level configuration container for the agent.
// It is populated by merging defaults, an optional JSON file, environment
// variables (optionally seeded from a .env file) and command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-level settings.
	App App `envPrefix:"APP_"`

	// Account holds the data-publish login credentials.
	Account Account

	// Adapter holds the remote API location and transport settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds the sync run settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds the repeat scheduler settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Server holds the optional status endpoint settings.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via TRIVA_DPA_CONFIG or the --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds process-level settings.
type App struct {
	// LogLevel is the minimal zerolog level ("debug", "info", ...).
	// Env: TRIVA_DPA_APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Account holds the data-publish account credentials.
type Account struct {
	// UserID is the login of the account.
	// Env: TRIVA_DPA_ACCOUNTID
	UserID string `env:"ACCOUNTID"`

	// Password is the password of the account.
	// Env: TRIVA_DPA_TRIVAPWD
	Password string `env:"TRIVAPWD"`
}

// Adapter holds the remote API settings.
type Adapter struct {
	// Environment selects the API gateway (apigw-<environment>).
	// Env: TRIVA_DPA_ADAPTER_ENVIRONMENT or TRIVA_DPA_ENVIRONMENT
	Environment string `env:"ENVIRONMENT"`

	// BaseURL overrides the gateway URL derived from Environment.
	// Env: TRIVA_DPA_ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds every single HTTP call.
	// Env: TRIVA_DPA_ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// PageSize overrides the per collection page size when positive.
	// Env: TRIVA_DPA_ADAPTER_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE"`
}

// Storage groups the local persistence settings.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local database.
type DB struct {
	// Driver is "sqlite3" or "pgx". When empty it is derived from DSN.
	// Env: TRIVA_DPA_STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is a SQLite file path or a PostgreSQL connection URL.
	// Env: TRIVA_DPA_STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Sync holds the sync run settings.
type Sync struct {
	// ClientIDs limits the fan-out to the given clients.
	// Env: TRIVA_DPA_SYNC_CLIENTIDS or TRIVA_DPA_CLIENTIDS (comma separated)
	ClientIDs []string `env:"CLIENTIDS" envSeparator:","`

	// ProjectIDs limits the fan-out to the given projects.
	// Env: TRIVA_DPA_SYNC_PROJECTIDS or TRIVA_DPA_PROJECTIDS (comma separated)
	ProjectIDs []string `env:"PROJECTIDS" envSeparator:","`

	// Collections lists the child collections to sync besides clients and
	// projects. Empty means all of them.
	// Env: TRIVA_DPA_SYNC_COLLECTIONS (comma separated)
	Collections []string `env:"COLLECTIONS" envSeparator:","`

	// Concurrency is the number of clients synced in parallel.
	// Env: TRIVA_DPA_SYNC_CONCURRENCY
	Concurrency int `env:"CONCURRENCY"`

	// RetryMax is the transport retry budget per page.
	// Env: TRIVA_DPA_SYNC_RETRY_MAX
	RetryMax int `env:"RETRY_MAX"`

	// RetryWait is the first backoff interval between transport retries.
	// Env: TRIVA_DPA_SYNC_RETRY_WAIT
	RetryWait time.Duration `env:"RETRY_WAIT"`

	// RenewBefore is how long before the ID token expiry it is renewed.
	// Env: TRIVA_DPA_SYNC_RENEW_BEFORE
	RenewBefore time.Duration `env:"RENEW_BEFORE"`
}

// Workers holds the repeat scheduler settings.
type Workers struct {
	// RepeatMinutes repeats the update every N minutes (minimum 15).
	// Zero runs a single update.
	// Env: TRIVA_DPA_WORKERS_REPEAT or TRIVA_DPA_REPEAT
	RepeatMinutes int `env:"REPEAT"`
}

// Server holds the status endpoint settings.
type Server struct {
	// Address is the host:port the status endpoint listens on. Empty
	// disables the endpoint.
	// Env: TRIVA_DPA_SERVER_ADDRESS
	Address string `env:"ADDRESS"`
}

// defaults returns the lowest-priority configuration layer.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App:     App{LogLevel: "info"},
		Adapter: Adapter{Environment: "prod", RequestTimeout: 30 * time.Second},
		Storage: Storage{DB: DB{DSN: "triva-dpa.db"}},
		Sync: Sync{
			Concurrency: 1,
			RetryMax:    3,
			RetryWait:   500 * time.Millisecond,
			RenewBefore: 5 * time.Minute,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all sources in increasing priority:
//  1. built-in defaults
//  2. JSON file (path resolved from environment and flags)
//  3. environment variables, after loading an optional .env file
//  4. command-line flags
//
// flags may be nil when the caller registered no flags.
func GetStructuredConfig(flags *Flags) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withDotEnv(".env").
		withEnv().
		withFlags(flags).
		withJSON().
		build()
}
