package shared

import (
	_ "embed"
	"fmt"
	"os"

	"favtrax/internal/proxy"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvProxyScheme overrides the configured default proxy scheme pattern when set.
const EnvProxyScheme = "FAVTRAX_PROXY_SCHEME"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Worker   WorkerConfig   `toml:"worker"`
	Database DatabaseConfig `toml:"database"`
	Proxy    ProxyConfig    `toml:"proxy"`
}

// WorkerConfig contains settings for the background search worker.
type WorkerConfig struct {
	RateLimit   float64 `toml:"rate_limit"`   // Search requests per second
	HeadersPath string  `toml:"headers_path"` // Optional cURL file with scraper headers
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ProxyConfig lists the candidate rewrite schemes and which one is active by default.
type ProxyConfig struct {
	Default string         `toml:"default"`
	Schemes []proxy.Scheme `toml:"schemes"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
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

// FindScheme returns the named candidate scheme.
func (c *Config) FindScheme(name string) (proxy.Scheme, error) {
	for _, scheme := range c.Proxy.Schemes {
		if scheme.Name == name {
			return scheme, nil
		}
	}
	return proxy.Scheme{}, fmt.Errorf("%w: %q", ErrSchemeNotFound, name)
}

// ActiveScheme resolves the scheme the worker should start with.
//
// The FAVTRAX_PROXY_SCHEME environment variable takes precedence over the
// configured default, matching the original deployment where the scheme
// arrived through the build environment.
func (c *Config) ActiveScheme() (proxy.Scheme, error) {
	if pattern := os.Getenv(EnvProxyScheme); pattern != "" {
		return proxy.Scheme{Name: "env", Encode: true, Pattern: pattern}, nil
	}

	if c.Proxy.Default == "" {
		return proxy.Scheme{}, fmt.Errorf("%w: no default proxy scheme configured", ErrInvalidConfig)
	}

	return c.FindScheme(c.Proxy.Default)
}
