package config

// LLMConfig configures the tutor's generative-text backend.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // gemini
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Timeout     string  `yaml:"timeout"`
	Temperature float32 `yaml:"temperature"`
}

// HasAPIKey reports whether a key was configured or found in the environment.
func (c LLMConfig) HasAPIKey() bool {
	return c.APIKey != ""
}
