package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir      string
	ManifestPath string
	ImageName    string
	BaseAddress  uint64
	Alignment    uint64
}

// Load loads configuration from environment variables
// Automatically loads .env file if present
func Load() *Config {
	// Try to load .env file (fail silently if not present)
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:      getEnv("DATA_DIR", "/var/lib/imagepack"),
		ManifestPath: getEnv("MANIFEST", "manifest.yaml"),
		ImageName:    getEnv("IMAGE_NAME", "kernel-apps"),
		BaseAddress:  getEnvUint("BASE_ADDRESS", 0),
		Alignment:    getEnvUint("ALIGNMENT", 0),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		// Accept hex ("0x80400000") or decimal
		if parsed, err := strconv.ParseUint(value, 0, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
