// Package config loads the YAML service configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Session store drivers.
const (
	DriverMemory = "memory"
	DriverValkey = "valkey"
)

// Config holds the ementa configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Sessions   SessionsConfig   `yaml:"sessions"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Report     ReportConfig     `yaml:"report"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
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

// SessionsConfig holds session storage settings.
type SessionsConfig struct {
	Driver           string   `yaml:"driver"` // memory (default), valkey
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLMin           int      `yaml:"ttl_min"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// AnalysisConfig holds defaults and limits of the search and analysis workflows.
type AnalysisConfig struct {
	DefaultTerms    string `yaml:"default_terms"`
	Stopwords       string `yaml:"stopwords"` // one per line
	TopWords        int    `yaml:"top_words"`
	CloudWords      int    `yaml:"cloud_words"`
	SampleRows      int    `yaml:"sample_rows"`
	DefaultPageSize int    `yaml:"default_page_size"`
	MaxPageSize     int    `yaml:"max_page_size"`
	MaxUploadMB     int    `yaml:"max_upload_mb"`
}

// ReportConfig holds PDF report settings.
type ReportConfig struct {
	Title      string   `yaml:"title"`
	Authors    []string `yaml:"authors"`
	SampleRows int      `yaml:"sample_rows"`
}

// SummarizerConfig holds the optional narrative provider settings.
type SummarizerConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxTokens  int    `yaml:"max_tokens"`

	// Token budget; 0 disables a window.
	DailyTokenBudget   int64  `yaml:"daily_token_budget"`
	MonthlyTokenBudget int64  `yaml:"monthly_token_budget"`
	BudgetAction       string `yaml:"budget_action"` // "warn" or "reject"
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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

// LoadOrDefault loads the environment config, falling back to Default when no file exists.
func LoadOrDefault(env string) (Config, error) {
	cfg, err := Load(env)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Default returns a configuration with every default applied.
func Default() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
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
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Sessions.Driver == "" {
		c.Sessions.Driver = DriverMemory
	}
	if c.Sessions.TTLMin <= 0 {
		c.Sessions.TTLMin = 60
	}
	if c.Sessions.ReadinessTimeout <= 0 {
		c.Sessions.ReadinessTimeout = 10
	}
	if c.Analysis.DefaultTerms == "" {
		c.Analysis.DefaultTerms = "dano moral, inconstitucionalidade, repercussão geral"
	}
	if c.Analysis.Stopwords == "" {
		c.Analysis.Stopwords = "de\na\no\nem\npara\ncom\npor\nque"
	}
	if c.Analysis.TopWords <= 0 {
		c.Analysis.TopWords = 20
	}
	if c.Analysis.CloudWords <= 0 {
		c.Analysis.CloudWords = 60
	}
	if c.Analysis.SampleRows <= 0 {
		c.Analysis.SampleRows = 60
	}
	if c.Analysis.DefaultPageSize <= 0 {
		c.Analysis.DefaultPageSize = 10
	}
	if c.Analysis.MaxPageSize <= 0 {
		c.Analysis.MaxPageSize = 50
	}
	if c.Analysis.MaxUploadMB <= 0 {
		c.Analysis.MaxUploadMB = 32
	}
	if c.Report.SampleRows <= 0 {
		c.Report.SampleRows = 12
	}
	if c.Summarizer.TimeoutSec <= 0 {
		c.Summarizer.TimeoutSec = 30
	}
	if c.Summarizer.MaxTokens <= 0 {
		c.Summarizer.MaxTokens = 400
	}
	if c.Summarizer.BudgetAction == "" {
		c.Summarizer.BudgetAction = "reject"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Sessions.Driver {
	case DriverMemory:
	case DriverValkey:
		if len(c.Sessions.Addrs) == 0 {
			return fmt.Errorf("sessions.addrs is required for driver %q", DriverValkey)
		}
	default:
		return fmt.Errorf("sessions.driver must be %q or %q, got %q", DriverMemory, DriverValkey, c.Sessions.Driver)
	}
	if c.Analysis.DefaultPageSize > c.Analysis.MaxPageSize {
		return fmt.Errorf("analysis.default_page_size (%d) exceeds analysis.max_page_size (%d)",
			c.Analysis.DefaultPageSize, c.Analysis.MaxPageSize)
	}
	if c.Report.SampleRows < 10 || c.Report.SampleRows > 20 {
		return fmt.Errorf("report.sample_rows must be between 10 and 20, got %d", c.Report.SampleRows)
	}
	if c.Summarizer.Enabled && c.Summarizer.APIKey == "" {
		return fmt.Errorf("summarizer.api_key is required when the summarizer is enabled")
	}
	if c.Summarizer.DailyTokenBudget < 0 || c.Summarizer.MonthlyTokenBudget < 0 {
		return fmt.Errorf("summarizer token budgets must not be negative")
	}
	if a := c.Summarizer.BudgetAction; a != "warn" && a != "reject" {
		return fmt.Errorf("summarizer.budget_action must be \"warn\" or \"reject\", got %q", a)
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
