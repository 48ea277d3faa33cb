package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON files.
// Durations accept Go duration strings ("30s") or integer nanoseconds.
type StructuredJSONConfig struct {
	App struct {
		LogLevel string `json:"log_level"`
	} `json:"app,omitempty"`

	Account struct {
		UserID   string `json:"account_id"`
		Password string `json:"password"`
	} `json:"account,omitempty"`

	Adapter struct {
		Environment    string   `json:"environment"`
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
		PageSize       int      `json:"page_size"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Sync struct {
		ClientIDs   []string `json:"client_ids"`
		ProjectIDs  []string `json:"project_ids"`
		Collections []string `json:"collections"`
		Concurrency int      `json:"concurrency"`
		RetryMax    int      `json:"retry_max"`
		RetryWait   Duration `json:"retry_wait"`
		RenewBefore Duration `json:"renew_before"`
	} `json:"sync,omitempty"`

	Workers struct {
		RepeatMinutes int `json:"repeat"`
	} `json:"workers,omitempty"`

	Server struct {
		Address string `json:"address"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{LogLevel: jsonCfg.App.LogLevel},
		Account: Account{
			UserID:   jsonCfg.Account.UserID,
			Password: jsonCfg.Account.Password,
		},
		Adapter: Adapter{
			Environment:    jsonCfg.Adapter.Environment,
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			PageSize:       jsonCfg.Adapter.PageSize,
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Sync: Sync{
			ClientIDs:   jsonCfg.Sync.ClientIDs,
			ProjectIDs:  jsonCfg.Sync.ProjectIDs,
			Collections: jsonCfg.Sync.Collections,
			Concurrency: jsonCfg.Sync.Concurrency,
			RetryMax:    jsonCfg.Sync.RetryMax,
			RetryWait:   time.Duration(jsonCfg.Sync.RetryWait),
			RenewBefore: time.Duration(jsonCfg.Sync.RenewBefore),
		},
		Workers: Workers{RepeatMinutes: jsonCfg.Workers.RepeatMinutes},
		Server:  Server{Address: jsonCfg.Server.Address},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
