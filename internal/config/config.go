package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Board  BoardConfig  `yaml:"board"`
	LLM    LLMConfig    `yaml:"llm"`
	Auth   AuthConfig   `yaml:"auth"`
	Cache  CacheConfig  `yaml:"cache"`
	Agent  AgentConfig  `yaml:"agent"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// BoardConfig contains board service settings.
type BoardConfig struct {
	APIKey            string `yaml:"-"` // env-only, never in YAML
	APIURL            string `yaml:"api_url"`
	DealsBoardID      string `yaml:"deals_board_id"`
	WorkOrdersBoardID string `yaml:"work_orders_board_id"`
}

// LLMConfig contains completion backend settings.
type LLMConfig struct {
	APIKey string `yaml:"-"` // env-only, never in YAML
	Model  string `yaml:"model"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	APIKey string `yaml:"-"` // env-only, never in YAML
}

// CacheConfig contains board cache settings.
type CacheConfig struct {
	TTL Duration `yaml:"ttl"`
}

// AgentConfig contains tool-calling agent settings.
type AgentConfig struct {
	Enabled  bool `yaml:"enabled"`
	MaxSteps int  `yaml:"max_steps"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("BOARDSIGHT_CONFIG_PATH", "config/boardsight.yaml")

	// Load YAML file if it exists (missing file is not an error)
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Board: BoardConfig{
			APIURL: "https://api.monday.com/v2",
		},
		LLM: LLMConfig{
			Model: "gpt-4o-mini",
		},
		Cache: CacheConfig{
			TTL: Duration(60 * time.Second),
		},
		Agent: AgentConfig{
			Enabled:  false,
			MaxSteps: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("BOARDSIGHT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("BOARDSIGHT_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("BOARDSIGHT_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("BOARDSIGHT_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = Duration(d)
		}
	}

	// Board service
	if v := os.Getenv("BOARD_API_KEY"); v != "" {
		cfg.Board.APIKey = v
	}
	if v := os.Getenv("BOARD_API_URL"); v != "" {
		cfg.Board.APIURL = v
	}
	if v := os.Getenv("DEALS_BOARD_ID"); v != "" {
		cfg.Board.DealsBoardID = v
	}
	if v := os.Getenv("WORK_ORDERS_BOARD_ID"); v != "" {
		cfg.Board.WorkOrdersBoardID = v
	}

	// LLM (OPENAI_API_KEY is industry convention)
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("BOARDSIGHT_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	// Auth
	if v := os.Getenv("BOARDSIGHT_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}

	// Cache
	if v := os.Getenv("BOARDSIGHT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = Duration(d)
		}
	}

	// Agent
	if v := os.Getenv("BOARDSIGHT_AGENT_ENABLED"); v != "" {
		cfg.Agent.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("BOARDSIGHT_AGENT_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Agent.MaxSteps = n
		}
	}

	// Log
	if v := os.Getenv("BOARDSIGHT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("BOARDSIGHT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// validate checks that required configuration values are set. All missing
// keys are reported in one error rather than one at a time.
// In dev mode (BOARDSIGHT_DEV_MODE=true), validation is skipped.
func (c *Config) validate() error {
	if os.Getenv("BOARDSIGHT_DEV_MODE") == "true" {
		return nil
	}

	var missing []string
	if c.Board.APIKey == "" {
		missing = append(missing, "BOARD_API_KEY")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Auth.APIKey == "" {
		missing = append(missing, "BOARDSIGHT_API_KEY")
	}
	if c.Board.DealsBoardID == "" {
		missing = append(missing, "DEALS_BOARD_ID")
	}
	if c.Board.WorkOrdersBoardID == "" {
		missing = append(missing, "WORK_ORDERS_BOARD_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
