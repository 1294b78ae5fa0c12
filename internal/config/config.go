package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gitpan/App-dropboxapi/internal/types"
)

const (
	// ConfigFileName is the name of the config file in the home directory
	ConfigFileName = ".dropbox-api.json"
	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "DROPBOX_API_"
	// EnvConfigPath overrides the config file location
	EnvConfigPath = "DROPBOX_API_CONFIG"
)

// Config holds application configuration
type Config struct {
	// AppKey and AppSecret identify the registered application
	AppKey    string `json:"appKey"`
	AppSecret string `json:"appSecret"`

	// AccessToken is the bearer token. Left empty when the token lives in
	// the system keyring instead.
	AccessToken string `json:"accessToken,omitempty"`

	// TokenInKeyring records that setup stored the token in the keyring
	TokenInKeyring bool `json:"tokenInKeyring,omitempty"`

	// APIBase is the metadata/fileops endpoint base URL
	APIBase string `json:"apiBase,omitempty"`

	// ContentBase is the content transfer endpoint base URL
	ContentBase string `json:"contentBase,omitempty"`

	// RequestTimeout is the per-request timeout in seconds
	RequestTimeout int `json:"requestTimeout,omitempty"`

	// DefaultOutputFormat is the default output format (json, table)
	DefaultOutputFormat types.OutputFormat `json:"defaultOutputFormat,omitempty"`

	// ColorOutput enables color in console logging
	ColorOutput bool `json:"colorOutput,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		APIBase:             "https://api.dropbox.com/1",
		ContentBase:         "https://api-content.dropbox.com/1",
		RequestTimeout:      60,
		DefaultOutputFormat: types.OutputFormatTable,
		ColorOutput:         true,
	}
}

// Path returns the config file location, honoring the env override
func Path(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ConfigFileName), nil
}

// Load loads configuration with precedence: env vars > config file > defaults
func Load(pathOverride string) (*Config, error) {
	cfg := DefaultConfig()

	path, err := Path(pathOverride)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv(EnvPrefix + "APP_KEY"); v != "" {
		c.AppKey = v
	}
	if v := os.Getenv(EnvPrefix + "APP_SECRET"); v != "" {
		c.AppSecret = v
	}
	if v := os.Getenv(EnvPrefix + "ACCESS_TOKEN"); v != "" {
		c.AccessToken = v
	}
	if v := os.Getenv(EnvPrefix + "API_BASE"); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv(EnvPrefix + "CONTENT_BASE"); v != "" {
		c.ContentBase = v
	}
	if v := os.Getenv(EnvPrefix + "REQUEST_TIMEOUT"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			c.RequestTimeout = timeout
		}
	}
	if v := os.Getenv(EnvPrefix + "OUTPUT_FORMAT"); v != "" {
		c.DefaultOutputFormat = types.OutputFormat(v)
	}
}

// Save writes the configuration to the config file with restricted
// permissions. The access token is omitted when it lives in the keyring.
func (c *Config) Save(pathOverride string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	path, err := Path(pathOverride)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.DefaultOutputFormat {
	case "", types.OutputFormatJSON, types.OutputFormatTable:
	default:
		return fmt.Errorf("unknown output format %q", c.DefaultOutputFormat)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("requestTimeout must not be negative")
	}
	for _, base := range []string{c.APIBase, c.ContentBase} {
		if base != "" && !strings.HasPrefix(base, "http") {
			return fmt.Errorf("endpoint %q is not an HTTP URL", base)
		}
	}
	return nil
}
