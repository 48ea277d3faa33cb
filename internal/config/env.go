// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv populates cfg from TRIVA_DPA_* environment variables using the
// caarlos0/env library. Struct fields are mapped via their `env` and
// `envPrefix` tags defined on [StructuredConfig] and its nested types.
func parseEnv(cfg any) error {
	err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}

// legacyEnv holds the unsectioned variable names older deployments set,
// e.g. TRIVA_DPA_CLIENTIDS instead of TRIVA_DPA_SYNC_CLIENTIDS.
type legacyEnv struct {
	Environment   string   `env:"ENVIRONMENT"`
	ClientIDs     []string `env:"CLIENTIDS" envSeparator:","`
	ProjectIDs    []string `env:"PROJECTIDS" envSeparator:","`
	RepeatMinutes int      `env:"REPEAT"`
}

func (l legacyEnv) config() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{Environment: l.Environment},
		Sync:    Sync{ClientIDs: l.ClientIDs, ProjectIDs: l.ProjectIDs},
		Workers: Workers{RepeatMinutes: l.RepeatMinutes},
	}
}

// parseEnvWithLegacy populates cfg like [parseEnv] and then fills the fields
// still empty from the unsectioned names. Sectioned names win.
func parseEnvWithLegacy(cfg *StructuredConfig) error {
	if err := parseEnv(cfg); err != nil {
		return err
	}

	var legacy legacyEnv
	if err := parseEnv(&legacy); err != nil {
		return err
	}

	if err := mergo.Merge(cfg, legacy.config()); err != nil {
		return fmt.Errorf("error merging legacy env configs: %w", err)
	}
	return nil
}

// loadDotEnv exports the variables of the .env file at path into the
// process environment without overriding variables that are already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}
