package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds everything the binaries read from the environment. The API
// base URL lives here instead of in the call sites: the old frontend had it
// hard-coded (and inconsistent) across files.
type Config struct {
	ServiceName string
	LoggerLevel string

	APIBaseURL  string
	HTTPTimeout time.Duration

	SessionFile string
	LogFile     string

	// Fake server only.
	AppAddr string
	GinMode string
}

// Load reads .env when present, then the process environment.
func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "transrural"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "info"))

	cfg.APIBaseURL = cast.ToString(getOrReturnDefault("TRANSRURAL_API_URL", "http://localhost:8000"))
	cfg.HTTPTimeout = time.Duration(cast.ToInt(getOrReturnDefault("TRANSRURAL_TIMEOUT_SECONDS", 15))) * time.Second

	cfg.SessionFile = cast.ToString(getOrReturnDefault("TRANSRURAL_SESSION_FILE", defaultStateFile("session.json")))
	cfg.LogFile = cast.ToString(getOrReturnDefault("TRANSRURAL_LOG_FILE", defaultStateFile("console.log")))

	cfg.AppAddr = cast.ToString(getOrReturnDefault("APP_ADDR", ":8000"))
	cfg.GinMode = cast.ToString(getOrReturnDefault("GIN_MODE", ""))

	return cfg
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func defaultStateFile(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "transrural", name)
}
