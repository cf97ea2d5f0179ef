package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the orderhelper API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Sources SourcesConfig `yaml:"sources"`
	Storage StorageConfig `yaml:"storage"`
	Justify JustifyConfig `yaml:"justify"`
	Auth    AuthConfig    `yaml:"auth"`
	Match   MatchConfig   `yaml:"match"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SourcesConfig lists the rule sources merged into the catalog, in order.
// Later sources win id collisions.
type SourcesConfig struct {
	Files     []FileSourceConfig `yaml:"files"`
	URLs      []URLSourceConfig  `yaml:"urls"`
	UseStore  bool               `yaml:"use_store"`
	RebuildOn string             `yaml:"rebuild_on"` // "startup" (default) or "manual"
}

// FileSourceConfig is one rule document on disk.
type FileSourceConfig struct {
	Path         string `yaml:"path"`
	ModalityHint string `yaml:"modality_hint"`
}

// URLSourceConfig is one rule document fetched over HTTP.
type URLSourceConfig struct {
	URL          string `yaml:"url"`
	ModalityHint string `yaml:"modality_hint"`
}

// StorageConfig holds rule store and snapshot cache settings. The store is
// optional; without addresses the service runs on files, URLs, and the
// embedded defaults alone.
type StorageConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	SnapshotTTLSec   int      `yaml:"snapshot_ttl_sec"`
}

// Enabled reports whether a rule store is configured.
func (s StorageConfig) Enabled() bool {
	return len(s.Addrs) > 0
}

// JustifyConfig holds the completion provider settings. Empty api_key
// disables the justify endpoint.
type JustifyConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Enabled reports whether the completion provider is configured.
func (j JustifyConfig) Enabled() bool {
	return j.APIKey != ""
}

// MatchConfig holds the ranking cutoffs. Zero values take the engine
// defaults.
type MatchConfig struct {
	Floor         float64 `yaml:"floor"`
	RegionStrong  float64 `yaml:"region_strong"`
	RegionWeak    float64 `yaml:"region_weak"`
	ContextFuzzy  float64 `yaml:"context_fuzzy"`
	KeywordStrong float64 `yaml:"keyword_strong"`
	KeywordWeak   float64 `yaml:"keyword_weak"`
	MaxCodes      int     `yaml:"max_codes"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Sources.RebuildOn == "" {
		c.Sources.RebuildOn = "startup"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "valkey"
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "orderhelper:"
	}
	if c.Storage.SnapshotTTLSec <= 0 {
		c.Storage.SnapshotTTLSec = 86400
	}
	if c.Match.MaxCodes <= 0 {
		c.Match.MaxCodes = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Sources.RebuildOn {
	case "startup", "manual":
		// ok
	default:
		return fmt.Errorf("sources.rebuild_on must be \"startup\" or \"manual\", got %q", c.Sources.RebuildOn)
	}
	if c.Sources.UseStore && !c.Storage.Enabled() {
		return fmt.Errorf("sources.use_store requires storage.addrs")
	}
	for i, f := range c.Sources.Files {
		if f.Path == "" {
			return fmt.Errorf("sources.files[%d].path is required", i)
		}
	}
	for i, u := range c.Sources.URLs {
		if u.URL == "" {
			return fmt.Errorf("sources.urls[%d].url is required", i)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
