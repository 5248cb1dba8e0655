package config

import "time"

// StructuredConfig is the top-level configuration container for the sync
// server and client daemon. It is populated by merging values from
// environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters and the shared account secret.
	App App `envPrefix:"APP_"`

	// Storage holds the database connection settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the HTTP listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Client holds the client daemon settings.
	Client Client `envPrefix:"CLIENT_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config
	// flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values controlling the token
// lifecycle and account authentication.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY" json:"token_sign_key"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER" json:"token_issuer"`

	// TokenDuration specifies how long a JWT token remains valid after
	// issuance (e.g. "1h", "30m").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION" json:"token_duration"`

	// AccountSecret is the shared secret accounts present to the token
	// endpoint.
	// Env: APP_ACCOUNT_SECRET
	AccountSecret string `env:"ACCOUNT_SECRET" json:"account_secret"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_" json:"db,omitempty"`
}

// DB holds the database/sql connection settings.
type DB struct {
	// Driver selects the backend: "pgx" for PostgreSQL or "sqlite3".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER" json:"driver"`

	// DSN is the connection string for the selected driver.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN" json:"dsn"`
}

// Server holds the inbound transport settings.
type Server struct {
	// HTTPAddress is the TCP address the HTTP server listens on, in
	// "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS" json:"http_address"`
}

// Client holds the client daemon settings.
type Client struct {
	// ServerAddress is the base URL (or host:port) of the sync server.
	// Env: CLIENT_SERVER_ADDRESS
	ServerAddress string `env:"SERVER_ADDRESS" json:"server_address"`

	// AccountID identifies the account this daemon syncs.
	// Env: CLIENT_ACCOUNT_ID
	AccountID string `env:"ACCOUNT_ID" json:"account_id"`

	// AccountSecret is presented to the server's token endpoint.
	// Env: CLIENT_ACCOUNT_SECRET
	AccountSecret string `env:"ACCOUNT_SECRET" json:"account_secret"`

	// Passphrase derives the encryption key for entity specifics. It
	// never leaves the client.
	// Env: CLIENT_PASSPHRASE
	Passphrase string `env:"PASSPHRASE" json:"passphrase"`

	// ModelTypes lists the data categories to sync, comma-separated in
	// the environment.
	// Env: CLIENT_MODEL_TYPES
	ModelTypes []string `env:"MODEL_TYPES" json:"model_types"`

	// PollInterval is how often a full poll+commit cycle runs.
	// Env: CLIENT_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL" json:"poll_interval"`

	// RequestTimeout bounds every HTTP round trip to the server.
	// Env: CLIENT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`

	// MaxCommitEntries bounds every commit contribution.
	// Env: CLIENT_MAX_COMMIT_ENTRIES
	MaxCommitEntries int `env:"MAX_COMMIT_ENTRIES" json:"max_commit_entries"`
}

// GetConfigs loads the final merged configuration: environment variables
// first, then command-line flags, then the optional JSON file named by
// either of the former.
func GetConfigs() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
