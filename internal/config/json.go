package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the on-disk JSON layout.
// Durations are accepted as strings ("15m") or nanosecond numbers.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey string `json:"token_sign_key"`
		TokenIssuer  string `json:"token_issuer"`
		Version      string `json:"version"`
		LogLevel     string `json:"log_level"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			Addr     string `json:"address"`
			Password string `json:"password"`
			DB       int    `json:"db"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		FrontendURL    string   `json:"frontend_url"`
		RateLimit      int      `json:"rate_limit"`
		RateWindow     Duration `json:"rate_window"`
	} `json:"server,omitempty"`

	Adapter struct {
		GitHub struct {
			APIBaseURL string   `json:"api_url"`
			Token      string   `json:"token"`
			Timeout    Duration `json:"timeout"`
		} `json:"github,omitempty"`

		Mail struct {
			Domain    string `json:"domain"`
			APIKey    string `json:"api_key"`
			APIBase   string `json:"api_base"`
			From      string `json:"from"`
			Recipient string `json:"recipient"`
		} `json:"mail,omitempty"`
	} `json:"adapter,omitempty"`

	Workers struct {
		GitHubSyncInterval Duration `json:"github_sync_interval"`
		GitHubSyncBatch    int      `json:"github_sync_batch"`
		GitHubStaleAfter   Duration `json:"github_stale_after"`
	} `json:"workers,omitempty"`
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
		App: App{
			TokenSignKey: jsonCfg.App.TokenSignKey,
			TokenIssuer:  jsonCfg.App.TokenIssuer,
			Version:      jsonCfg.App.Version,
			LogLevel:     jsonCfg.App.LogLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				Addr:     jsonCfg.Storage.Redis.Addr,
				Password: jsonCfg.Storage.Redis.Password,
				DB:       jsonCfg.Storage.Redis.DB,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			FrontendURL:    jsonCfg.Server.FrontendURL,
			RateLimit:      jsonCfg.Server.RateLimit,
			RateWindow:     time.Duration(jsonCfg.Server.RateWindow),
		},
		Adapter: Adapter{
			GitHub: GitHub{
				APIBaseURL: jsonCfg.Adapter.GitHub.APIBaseURL,
				Token:      jsonCfg.Adapter.GitHub.Token,
				Timeout:    time.Duration(jsonCfg.Adapter.GitHub.Timeout),
			},
			Mail: Mail{
				Domain:    jsonCfg.Adapter.Mail.Domain,
				APIKey:    jsonCfg.Adapter.Mail.APIKey,
				APIBase:   jsonCfg.Adapter.Mail.APIBase,
				From:      jsonCfg.Adapter.Mail.From,
				Recipient: jsonCfg.Adapter.Mail.Recipient,
			},
		},
		Workers: Workers{
			GitHubSyncInterval: time.Duration(jsonCfg.Workers.GitHubSyncInterval),
			GitHubSyncBatch:    jsonCfg.Workers.GitHubSyncBatch,
			GitHubStaleAfter:   time.Duration(jsonCfg.Workers.GitHubStaleAfter),
		},
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
