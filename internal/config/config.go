package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all antipop configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Circuit model constants
	Simulation SimulationConfig `yaml:"simulation"`

	// Voltage chart history
	History HistoryConfig `yaml:"history"`

	// Tutor LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Transcript persistence
	Store StoreConfig `yaml:"store"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Terminal view
	UI UIConfig `yaml:"ui"`
}

// HistoryConfig configures the voltage chart series.
type HistoryConfig struct {
	Capacity     int    `yaml:"capacity"`
	SamplePolicy string `yaml:"sample_policy"` // every_tick, on_change
}

// StoreConfig configures the chat transcript database.
type StoreConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"` // relative paths resolve against the workspace
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:       "antipop",
		Version:    "0.3.0",
		Simulation: DefaultSimulationConfig(),
		History: HistoryConfig{
			Capacity:     50,
			SamplePolicy: "every_tick",
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			Timeout:     "60s",
			Temperature: 1.0,
		},
		Store: StoreConfig{
			Enabled:      true,
			DatabasePath: ".antipop/transcripts.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		UI: *DefaultUIConfig(),
	}
}

// DefaultPath returns <workspace>/.antipop/config.yaml.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".antipop", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// Checked lowest priority first so the most specific key wins.
	for _, name := range []string{"API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			c.LLM.APIKey = key
			if c.LLM.Provider == "" {
				c.LLM.Provider = "gemini"
			}
		}
	}
	if model := os.Getenv("ANTIPOP_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if path := os.Getenv("ANTIPOP_DB"); path != "" {
		c.Store.DatabasePath = path
	}
}

// DatabasePath resolves the transcript database path against workspace.
func (c *Config) DatabasePath(workspace string) string {
	p := c.Store.DatabasePath
	if p == "" || p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspace, p)
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"gemini"}

// Validate validates the configuration. A missing API key is not an error:
// the tutor then answers every question with its fallback message.
func (c *Config) Validate() error {
	validProvider := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}

	params, err := c.Simulation.Params()
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}

	if c.History.Capacity <= 0 {
		return fmt.Errorf("history capacity must be positive, got %d", c.History.Capacity)
	}
	if _, err := c.SamplePolicy(); err != nil {
		return err
	}
	if c.Store.Enabled && c.Store.DatabasePath == "" {
		return fmt.Errorf("store enabled but database_path is empty")
	}
	return nil
}
