package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env/.env.local into the process environment so that
// ${VAR} expansion in the config file can pick them up. Existing environment
// variables are never overwritten; a missing file is not an error.
func loadEnvFiles() {
	for _, path := range []string{".env", ".env.local"} {
		if err := godotenv.Load(path); err == nil {
			slog.Debug("loaded environment file", "path", path)
			return
		}
	}
}
