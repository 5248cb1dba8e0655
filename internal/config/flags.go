package config

import (
	"flag"
	"strings"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-d database DSN
//	-driver database driver ("pgx" or "sqlite3")
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-account-secret shared account secret
//	-server-address sync server base URL (client)
//	-account-id account identifier (client)
//	-passphrase encryption passphrase (client)
//	-model-types comma-separated model types to sync (client)
//	-poll-interval poll interval (client, e.g., "1m")
//	-request-timeout request timeout (client, e.g., "30s")
//	-max-commit-entries commit contribution bound (client)
func ParseFlags() *StructuredConfig {
	var listenAddress string
	var databaseDSN string
	var databaseDriver string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var accountSecret string
	var serverAddress string
	var accountID string
	var passphrase string
	var modelTypes string
	var pollInterval time.Duration
	var requestTimeout time.Duration
	var maxCommitEntries int

	flag.StringVar(&listenAddress, "a", "", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&databaseDriver, "driver", "", "Database driver (pgx or sqlite3)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.StringVar(&accountSecret, "account-secret", "", "Shared account secret")
	flag.StringVar(&serverAddress, "server-address", "", "Sync server base URL")
	flag.StringVar(&accountID, "account-id", "", "Account identifier")
	flag.StringVar(&passphrase, "passphrase", "", "Encryption passphrase")
	flag.StringVar(&modelTypes, "model-types", "", "Comma-separated model types to sync")
	flag.DurationVar(&pollInterval, "poll-interval", 0, "Poll interval (e.g., 1m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s)")
	flag.IntVar(&maxCommitEntries, "max-commit-entries", 0, "Max entities per commit contribution")

	flag.Parse()

	var types []string
	if modelTypes != "" {
		for _, t := range strings.Split(modelTypes, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			AccountSecret: accountSecret,
		},
		Storage: Storage{
			DB: DB{
				Driver: databaseDriver,
				DSN:    databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress: listenAddress,
		},
		Client: Client{
			ServerAddress:    serverAddress,
			AccountID:        accountID,
			AccountSecret:    accountSecret,
			Passphrase:       passphrase,
			ModelTypes:       types,
			PollInterval:     pollInterval,
			RequestTimeout:   requestTimeout,
			MaxCommitEntries: maxCommitEntries,
		},
		JSONFilePath: jsonConfigPath,
	}
}
