package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eaw-compliance/eaw-cli/pkg/keyring"
	"gopkg.in/yaml.v3"
)

const (
	ServiceName = "eaw-cli"
	TokenKey    = "eaw_token"
	UserKey     = "eaw_user"

	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 30
)

// Output formats understood by the renderer
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type Config struct {
	APIBaseURL string        `yaml:"api_base_url"`
	Timeout    int           `yaml:"timeout"`
	Output     string        `yaml:"output"`
	LogLevel   string        `yaml:"log_level"`
	Keyring    KeyringConfig `yaml:"keyring"`
}

type KeyringConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		APIBaseURL: DefaultBaseURL,
		Timeout:    DefaultTimeout,
		Output:     OutputTable,
		LogLevel:   "warn",
		Keyring: KeyringConfig{
			Backend: string(keyring.BackendAuto),
		},
	}
}

// DefaultPath returns $HOME/.eaw/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".eaw", "config.yaml")
	}
	return filepath.Join(home, ".eaw", "config.yaml")
}

// Load reads the configuration from configFile, writing a default file when none
// exists, then applies environment overrides.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	configDir := filepath.Dir(configFile)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	//nolint:gosec // configFile comes from the --config flag of the invoking user
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err := os.WriteFile(configFile, data, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write default config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("EAW_API_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("EAW_KEYRING_BACKEND"); v != "" {
		c.Keyring.Backend = v
	}
	if v := os.Getenv("EAW_KEYRING_PATH"); v != "" {
		c.Keyring.Path = v
	}
	if v := os.Getenv("EAW_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the values that would otherwise fail late
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %d", c.Timeout)
	}
	switch c.Output {
	case "", OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unsupported output format %q (use table, json or yaml)", c.Output)
	}
	switch keyring.Backend(c.Keyring.Backend) {
	case "", keyring.BackendAuto, keyring.BackendSystem, keyring.BackendFile:
	default:
		return fmt.Errorf("unsupported keyring backend %q (use auto, system or file)", c.Keyring.Backend)
	}
	return nil
}

// BaseURL returns the API base URL with a scheme and without a trailing slash
func (c *Config) BaseURL() string {
	base := strings.TrimRight(c.APIBaseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base
}

// RequestTimeout returns the HTTP timeout; zero disables it
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// KeyringPath returns the file keyring location
func (c *Config) KeyringPath() string {
	if c.Keyring.Path != "" {
		return c.Keyring.Path
	}
	return keyring.GetDefaultKeyringPath()
}

// KeyringBackend returns the configured backend, defaulting to auto
func (c *Config) KeyringBackend() keyring.Backend {
	if c.Keyring.Backend == "" {
		return keyring.BackendAuto
	}
	return keyring.Backend(c.Keyring.Backend)
}
