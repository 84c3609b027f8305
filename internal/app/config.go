package app

import (
	"os"
	"strconv"
	"time"
)

// Config holds application-wide configuration.
type Config struct {
	// Debug enables debug logging and additional diagnostics
	Debug bool

	// StoragePath is the directory where workspaces and settings are stored
	StoragePath string

	// BackendAddr is the address of the Cue generation backend
	BackendAddr string

	// BackendTLS enables TLS on the backend connection
	BackendTLS bool

	// GenerationTimeout bounds a single generation request
	GenerationTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		StoragePath:       "", // Will use DefaultStoragePath() from storage package
		BackendAddr:       "localhost:50051",
		BackendTLS:        false,
		GenerationTimeout: 60 * time.Second,
	}
}

// ConfigFromEnv creates a configuration from environment variables:
// CUE_DEBUG, CUE_STORAGE_PATH, CUE_BACKEND_ADDR, CUE_BACKEND_TLS and
// CUE_TIMEOUT_SECONDS.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if debugStr := os.Getenv("CUE_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			cfg.Debug = debug
		}
	}

	if storagePath := os.Getenv("CUE_STORAGE_PATH"); storagePath != "" {
		cfg.StoragePath = storagePath
	}

	if addr := os.Getenv("CUE_BACKEND_ADDR"); addr != "" {
		cfg.BackendAddr = addr
	}

	if tlsStr := os.Getenv("CUE_BACKEND_TLS"); tlsStr != "" {
		if useTLS, err := strconv.ParseBool(tlsStr); err == nil {
			cfg.BackendTLS = useTLS
		}
	}

	if secsStr := os.Getenv("CUE_TIMEOUT_SECONDS"); secsStr != "" {
		if secs, err := strconv.Atoi(secsStr); err == nil && secs > 0 {
			cfg.GenerationTimeout = time.Duration(secs) * time.Second
		}
	}

	return cfg
}
