package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"app": { "log_level": "warn" },
		"account": { "account_id": "agent", "password": "secret" },
		"adapter": {
			"environment": "stage",
			"base_url": "http://127.0.0.1:9000",
			"request_timeout": "45s",
			"page_size": 50
		},
		"storage": {
			"db": { "driver": "sqlite3", "dsn": "/var/lib/triva.db" }
		},
		"sync": {
			"client_ids": ["c1"],
			"project_ids": ["p1", "p2"],
			"collections": ["stations"],
			"concurrency": 2,
			"retry_max": 4,
			"retry_wait": "250ms",
			"renew_before": "2m"
		},
		"workers": { "repeat": 60 },
		"server": { "address": ":8081" }
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "agent", cfg.Account.UserID)
	assert.Equal(t, "secret", cfg.Account.Password)

	assert.Equal(t, "stage", cfg.Adapter.Environment)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Adapter.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 50, cfg.Adapter.PageSize)

	assert.Equal(t, "sqlite3", cfg.Storage.DB.Driver)
	assert.Equal(t, "/var/lib/triva.db", cfg.Storage.DB.DSN)

	assert.Equal(t, []string{"c1"}, cfg.Sync.ClientIDs)
	assert.Equal(t, []string{"p1", "p2"}, cfg.Sync.ProjectIDs)
	assert.Equal(t, []string{"stations"}, cfg.Sync.Collections)
	assert.Equal(t, 2, cfg.Sync.Concurrency)
	assert.Equal(t, 4, cfg.Sync.RetryMax)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.RetryWait)
	assert.Equal(t, 2*time.Minute, cfg.Sync.RenewBefore)

	assert.Equal(t, 60, cfg.Workers.RepeatMinutes)
	assert.Equal(t, ":8081", cfg.Server.Address)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	cfg, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"adapter": {`), 0o600))

	cfg, err := parseJSON(p)

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"sync": {"retry_wait": "often"}}`), 0o600))

	cfg, err := parseJSON(p)

	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestParseJSON_NumericDuration(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"adapter": {"request_timeout": 1000000000}}`), 0o600))

	cfg, err := parseJSON(p)

	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Adapter.RequestTimeout)
}

func TestParseJSON_EmptyObject(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{}`), 0o600))

	cfg, err := parseJSON(p)

	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()

	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
