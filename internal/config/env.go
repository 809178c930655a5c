package config

import (
	"os"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads the first of .env / .env.local that exists. Values
// already present in the environment are kept.
func loadEnvFiles() {
	for _, p := range []string{".env", ".env.local"} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			return
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvSourceDir); v != "" {
		cfg.SourceDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
}
