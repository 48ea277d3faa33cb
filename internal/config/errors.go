package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid API settings
	// (for example, a malformed base URL or a zero page size).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates an empty DSN or an unknown driver.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAccountConfigs indicates missing login credentials.
	ErrInvalidAccountConfigs = errors.New("invalid account configuration: TRIVA_DPA_ACCOUNTID and TRIVA_DPA_TRIVAPWD are required")
	// ErrInvalidSyncConfigs indicates invalid sync run settings.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidWorkerConfigs indicates a negative repeat interval.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
