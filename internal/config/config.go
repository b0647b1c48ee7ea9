// Package config provides configuration loading and validation for the intake service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Defaults
const (
	DefaultPort              = 8080
	DefaultMaxUploadBytes    = 5 << 20
	DefaultCaseTokenTTLHours = 168
	DefaultLogLevel          = "info"
)

// DefaultAllowedUploadTypes are the MIME types accepted for uploads.
var DefaultAllowedUploadTypes = []string{"application/pdf"}

// Config represents the service configuration. It can be loaded from a JSON file
// and from the environment. All fields are optional; a missing credential only
// disables the endpoints that need it.
type Config struct {
	Port int `json:"port,omitempty"` // Listen port

	// Analysis
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key
	GeminiModel  string `json:"gemini_model,omitempty"`   // Model name override for every tier

	// Upstream case system
	UpstreamEndpoint string `json:"upstream_endpoint,omitempty"` // Submission endpoint URL
	UpstreamToken    string `json:"upstream_token,omitempty"`    // Optional bearer credential

	// Case-link tokens
	CaseTokenSecret   string `json:"case_token_secret,omitempty"`
	CaseTokenTTLHours int    `json:"case_token_ttl_hours,omitempty"`

	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for the audit trail

	// Uploads
	MaxUploadBytes     int64    `json:"max_upload_bytes,omitempty"`
	AllowedUploadTypes []string `json:"allowed_upload_types,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
}

// Defaults returns a Config holding only default values.
func Defaults() Config {
	return Config{
		Port:               DefaultPort,
		CaseTokenTTLHours:  DefaultCaseTokenTTLHours,
		MaxUploadBytes:     DefaultMaxUploadBytes,
		AllowedUploadTypes: append([]string{}, DefaultAllowedUploadTypes...),
		LogLevel:           DefaultLogLevel,
	}
}

// FromEnv reads configuration from environment variables. Unset or unparseable
// values are left zero so they can be filled by MergeWithDefaults.
func FromEnv() Config {
	return Config{
		Port:               envInt("PORT"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        os.Getenv("GEMINI_MODEL"),
		UpstreamEndpoint:   os.Getenv("MAIN_SYSTEM_ENDPOINT"),
		UpstreamToken:      os.Getenv("MAIN_SYSTEM_TOKEN"),
		CaseTokenSecret:    os.Getenv("CASE_TOKEN_SECRET"),
		CaseTokenTTLHours:  envInt("CASE_TOKEN_TTL_HOURS"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MaxUploadBytes:     int64(envInt("MAX_UPLOAD_BYTES")),
		AllowedUploadTypes: splitList(os.Getenv("ALLOWED_UPLOAD_TYPES")),
		LogLevel:           os.Getenv("LOG_LEVEL"),
	}
}

// Load builds the effective configuration: the JSON file at path (if any)
// over the environment over defaults.
func Load(path string) (*Config, error) {
	env := FromEnv()
	cfg := &env
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
		merged := cfg.MergeWithDefaults(env)
		cfg = &merged
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Missing credentials are not errors here; see NotConfiguredError.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.CaseTokenTTLHours < 0 {
		return fmt.Errorf("config error: 'case_token_ttl_hours' must be non-negative")
	}
	if _, err := c.CaseTokens(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.UpstreamEndpoint != "" {
		u, err := url.Parse(c.UpstreamEndpoint)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("config error: 'upstream_endpoint' must be an http(s) URL: %q", c.UpstreamEndpoint)
		}
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: unknown log level %q", c.LogLevel)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer a config file over the environment and defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.GeminiModel == "" {
		result.GeminiModel = defaults.GeminiModel
	}
	if result.UpstreamEndpoint == "" {
		result.UpstreamEndpoint = defaults.UpstreamEndpoint
	}
	if result.UpstreamToken == "" {
		result.UpstreamToken = defaults.UpstreamToken
	}
	if result.CaseTokenSecret == "" {
		result.CaseTokenSecret = defaults.CaseTokenSecret
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CaseTokenTTLHours == 0 {
		result.CaseTokenTTLHours = defaults.CaseTokenTTLHours
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	if len(result.AllowedUploadTypes) == 0 {
		result.AllowedUploadTypes = append([]string{}, defaults.AllowedUploadTypes...)
	}

	return result
}

// CaseTokens returns the case-link token settings. Both results are nil when
// case tokens are disabled.
func (c *Config) CaseTokens() (*CaseTokenConfig, error) {
	if c.CaseTokenSecret == "" {
		return nil, nil
	}
	ttl := c.CaseTokenTTLHours
	if ttl == 0 {
		ttl = DefaultCaseTokenTTLHours
	}
	return NewCaseTokenConfig(c.CaseTokenSecret, ttl)
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
