package config

import (
	"log/slog"
	"os"
	"time"
)

// Server captures process-level configuration for the attestation service.
type Server struct {
	Addr          string
	Environment   string
	LedgerURL     string
	LedgerTimeout time.Duration
	SecretKeyFile string
	PublicKeyFile string
	LogLevel      slog.Level
}

// DefaultLedgerTimeout bounds every ledger node query. A query exceeding it
// fails that single request only.
var DefaultLedgerTimeout = 5 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ATTESTOR_ADDR")
	if addr == "" {
		addr = ":8100"
	}

	env := os.Getenv("ATTESTOR_ENV")
	if env == "" {
		env = "development"
	}

	ledgerURL := os.Getenv("ATTESTOR_LEDGER_URL")
	if ledgerURL == "" {
		ledgerURL = "http://localhost:20000"
	}

	ledgerTimeout := DefaultLedgerTimeout
	if s := os.Getenv("ATTESTOR_LEDGER_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			ledgerTimeout = d
		}
	}

	secretKeyFile := os.Getenv("ATTESTOR_SECRET_KEY_FILE")
	if secretKeyFile == "" {
		secretKeyFile = "secret_key.bin"
	}
	publicKeyFile := os.Getenv("ATTESTOR_PUBLIC_KEY_FILE")
	if publicKeyFile == "" {
		publicKeyFile = "public_key.bin"
	}

	return Server{
		Addr:          addr,
		Environment:   env,
		LedgerURL:     ledgerURL,
		LedgerTimeout: ledgerTimeout,
		SecretKeyFile: secretKeyFile,
		PublicKeyFile: publicKeyFile,
		LogLevel:      parseLogLevel(os.Getenv("ATTESTOR_LOG_LEVEL")),
	}
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
