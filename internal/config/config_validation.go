// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate rejects merged configurations that can never work regardless of
// the command being run.
func (cfg *StructuredConfig) validate() error {
	if cfg.Workers.RepeatMinutes < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *AgentConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Storage.DB.Driver {
	case "sqlite3", "pgx":
	default:
		return ErrInvalidStorageConfigs
	}

	if !strings.HasPrefix(cfg.Adapter.LoginURL, "http") || cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.PageSize < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.Concurrency <= 0 || cfg.Sync.RetryMax < 0 || cfg.Sync.RenewBefore < 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

// ValidateAccount reports [ErrInvalidAccountConfigs] when the login or the
// password is missing. Only commands that talk to the API need them.
func (cfg *AgentConfig) ValidateAccount() error {
	if strings.TrimSpace(cfg.Account.UserID) == "" || cfg.Account.Password == "" {
		return ErrInvalidAccountConfigs
	}

	return nil
}
