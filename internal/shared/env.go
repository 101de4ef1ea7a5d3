package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from a dotenv file into the process environment.
//
// A missing file is not an error. Variables already set in the environment win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides configuration values with SANGEET_* environment variables.
func ApplyEnv(c *Config) error {
	strs := []struct {
		key    string
		target *string
	}{
		{"SANGEET_DATABASE_PATH", &c.Database.Path},
		{"SANGEET_SERVER_HOST", &c.Server.Host},
		{"SANGEET_STORAGE_BACKEND", &c.Storage.Backend},
		{"SANGEET_STORAGE_DIR", &c.Storage.Dir},
		{"SANGEET_STORAGE_BASE_URL", &c.Storage.BaseURL},
		{"SANGEET_STORAGE_ENDPOINT", &c.Storage.Endpoint},
		{"SANGEET_IDENTITY_CLIENT_ID", &c.Identity.ClientID},
		{"SANGEET_IDENTITY_CLIENT_SECRET", &c.Identity.ClientSecret},
		{"SANGEET_IDENTITY_SESSION_PATH", &c.Identity.SessionPath},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.key); ok && v != "" {
			*s.target = v
		}
	}

	if v, ok := os.LookupEnv("SANGEET_SERVER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SANGEET_SERVER_PORT=%q", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}

	return nil
}
