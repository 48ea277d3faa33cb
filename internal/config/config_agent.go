// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	minRepeat = 15 * time.Minute

	loginPath       = "/mobile-methods/login"
	dataPublishPath = "/DataPublish"
)

// AgentAccount holds the credentials used by the update command.
type AgentAccount struct {
	UserID   string
	Password string
}

// AgentAdapter holds resolved endpoint URLs and transport settings.
type AgentAdapter struct {
	// LoginURL is the base of the login service (…/mobile-methods/login).
	LoginURL string
	// DataURL is the base of the data-publish API (…/DataPublish).
	DataURL string
	// RequestTimeout bounds every HTTP call.
	RequestTimeout time.Duration
	// PageSize, when positive, overrides the page size of every collection.
	PageSize int
}

// AgentDB holds resolved database settings.
type AgentDB struct {
	// Driver is the database/sql driver name: "sqlite3" or "pgx".
	Driver string
	DSN    string
}

// AgentStorage groups storage backend settings.
type AgentStorage struct {
	DB AgentDB
}

// AgentSync holds the settings of a sync run.
type AgentSync struct {
	ClientIDs   []string
	ProjectIDs  []string
	Collections []string
	Concurrency int
	RetryMax    int
	RetryWait   time.Duration
	RenewBefore time.Duration
}

// AgentWorkers holds the repeat scheduler settings.
type AgentWorkers struct {
	// RepeatInterval is zero for a single run.
	RepeatInterval time.Duration
}

// AgentServer holds status endpoint settings.
type AgentServer struct {
	Address string
}

// AgentConfig is the resolved view of [StructuredConfig] used by the agent.
type AgentConfig struct {
	App     App
	Account AgentAccount
	Adapter AgentAdapter
	Storage AgentStorage
	Sync    AgentSync
	Workers AgentWorkers
	Server  AgentServer
}

// GetAgentConfig builds and validates the agent configuration.
//
// It loads the merged configuration via [GetStructuredConfig], resolves the
// API URLs and the database driver, clamps the repeat interval and validates
// the result. Credentials are validated separately by
// [AgentConfig.ValidateAccount] since only the update command needs them.
func GetAgentConfig(flags *Flags) (*AgentConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	agentCfg := newAgentConfig(cfg)
	return agentCfg, agentCfg.validate()
}

func newAgentConfig(cfg *StructuredConfig) *AgentConfig {
	baseURL := resolveBaseURL(cfg.Adapter)

	return &AgentConfig{
		App: cfg.App,
		Account: AgentAccount{
			UserID:   cfg.Account.UserID,
			Password: cfg.Account.Password,
		},
		Adapter: AgentAdapter{
			LoginURL:       baseURL + loginPath,
			DataURL:        baseURL + dataPublishPath,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			PageSize:       cfg.Adapter.PageSize,
		},
		Storage: AgentStorage{
			DB: AgentDB{
				Driver: resolveDriver(cfg.Storage.DB),
				DSN:    cfg.Storage.DB.DSN,
			},
		},
		Sync: AgentSync{
			ClientIDs:   trimAll(cfg.Sync.ClientIDs),
			ProjectIDs:  trimAll(cfg.Sync.ProjectIDs),
			Collections: trimAll(cfg.Sync.Collections),
			Concurrency: cfg.Sync.Concurrency,
			RetryMax:    cfg.Sync.RetryMax,
			RetryWait:   cfg.Sync.RetryWait,
			RenewBefore: cfg.Sync.RenewBefore,
		},
		Workers: AgentWorkers{RepeatInterval: repeatInterval(cfg.Workers.RepeatMinutes)},
		Server:  AgentServer{Address: cfg.Server.Address},
	}
}

func resolveBaseURL(a Adapter) string {
	if a.BaseURL != "" {
		return strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	}
	env := strings.TrimSpace(a.Environment)
	if env == "" {
		env = "prod"
	}
	return fmt.Sprintf("https://apigw-%s.api.triva.xyz", env)
}

func resolveDriver(db DB) string {
	if db.Driver != "" {
		return db.Driver
	}
	dsn := strings.ToLower(db.DSN)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite3"
}

func repeatInterval(minutes int) time.Duration {
	if minutes <= 0 {
		return 0
	}
	d := time.Duration(minutes) * time.Minute
	if d < minRepeat {
		return minRepeat
	}
	return d
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
