package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON-friendly field
// types: durations are decoded from strings like "1h" or "30s" via
// [Duration].
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		AccountSecret string   `json:"account_secret"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress string `json:"http_address"`
	} `json:"server,omitempty"`

	Client struct {
		ServerAddress    string   `json:"server_address"`
		AccountID        string   `json:"account_id"`
		AccountSecret    string   `json:"account_secret"`
		Passphrase       string   `json:"passphrase"`
		ModelTypes       []string `json:"model_types"`
		PollInterval     Duration `json:"poll_interval"`
		RequestTimeout   Duration `json:"request_timeout"`
		MaxCommitEntries int      `json:"max_commit_entries"`
	} `json:"client,omitempty"`
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
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			AccountSecret: jsonCfg.App.AccountSecret,
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress: jsonCfg.Server.HTTPAddress,
		},
		Client: Client{
			ServerAddress:    jsonCfg.Client.ServerAddress,
			AccountID:        jsonCfg.Client.AccountID,
			AccountSecret:    jsonCfg.Client.AccountSecret,
			Passphrase:       jsonCfg.Client.Passphrase,
			ModelTypes:       jsonCfg.Client.ModelTypes,
			PollInterval:     time.Duration(jsonCfg.Client.PollInterval),
			RequestTimeout:   time.Duration(jsonCfg.Client.RequestTimeout),
			MaxCommitEntries: jsonCfg.Client.MaxCommitEntries,
		},
		JSONFilePath: "",
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
