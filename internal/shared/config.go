package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Storage backends accepted in [StorageConfig.Backend].
const (
	StorageLocal = "local"
	StorageHTTP  = "http"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Identity  IdentityConfig  `toml:"identity"`
	Dashboard DashboardConfig `toml:"dashboard"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects and configures the object storage backend.
type StorageConfig struct {
	Backend   string  `toml:"backend"`
	Dir       string  `toml:"dir"`
	BaseURL   string  `toml:"base_url"`
	Endpoint  string  `toml:"endpoint"`
	RateLimit float64 `toml:"rate_limit"`
}

// IdentityConfig contains the OAuth2 provider settings used for login.
type IdentityConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	AuthURL      string   `toml:"auth_url"`
	TokenURL     string   `toml:"token_url"`
	RedirectURI  string   `toml:"redirect_uri"`
	Scopes       []string `toml:"scopes"`
	SessionPath  string   `toml:"session_path"`
}

// Configured reports whether enough provider settings are present for an OAuth2 login.
func (i IdentityConfig) Configured() bool {
	return i.ClientID != "" && i.AuthURL != "" && i.TokenURL != ""
}

// ResolveSessionPath returns the session file path, defaulting to ~/.sangeet/session.json.
func (i IdentityConfig) ResolveSessionPath() (string, error) {
	if i.SessionPath != "" {
		return i.SessionPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".sangeet", "session.json"), nil
}

// DashboardConfig contains the sizes of the dashboard's derived track views.
type DashboardConfig struct {
	RecentLimit      int `toml:"recent_limit"`
	RecommendedLimit int `toml:"recommended_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the client cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required for the local backend"))
		}
	case StorageHTTP:
		if c.Storage.Endpoint == "" {
			errs = append(errs, errors.New("storage.endpoint is required for the http backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}

	if c.Dashboard.RecentLimit <= 0 {
		errs = append(errs, errors.New("dashboard.recent_limit must be positive"))
	}
	if c.Dashboard.RecommendedLimit <= 0 {
		errs = append(errs, errors.New("dashboard.recommended_limit must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
