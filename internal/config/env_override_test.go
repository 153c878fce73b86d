package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_LLM(t *testing.T) {
	t.Run("GEMINI_API_KEY sets key", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("GEMINI_API_KEY", "gem-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gem-key", cfg.LLM.APIKey)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
		assert.True(t, cfg.LLM.HasAPIKey())
	})

	t.Run("empty provider is filled in", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("API_KEY", "plain-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "plain-key", cfg.LLM.APIKey)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
	})

	t.Run("Precedence: GEMINI over GOOGLE over API_KEY", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("API_KEY", "plain-key")
		t.Setenv("GOOGLE_API_KEY", "google-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "google-key", cfg.LLM.APIKey)

		t.Setenv("GEMINI_API_KEY", "gem-key")
		cfg.applyEnvOverrides()
		assert.Equal(t, "gem-key", cfg.LLM.APIKey)
	})

	t.Run("no env keeps file key", func(t *testing.T) {
		clearKeys(t)
		cfg := DefaultConfig()
		cfg.LLM.APIKey = "from-file"
		cfg.applyEnvOverrides()
		assert.Equal(t, "from-file", cfg.LLM.APIKey)
	})
}

func TestEnvOverrides_ModelAndDB(t *testing.T) {
	clearKeys(t)
	t.Setenv("ANTIPOP_MODEL", "gemini-2.5-pro")
	t.Setenv("ANTIPOP_DB", "/tmp/lab.db")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, "/tmp/lab.db", cfg.Store.DatabasePath)
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	c := LoggingConfig{}
	assert.False(t, c.IsCategoryEnabled("sim"))

	c.DebugMode = true
	assert.True(t, c.IsCategoryEnabled("sim"))

	c.Categories = map[string]bool{"sim": false}
	assert.False(t, c.IsCategoryEnabled("sim"))
	assert.True(t, c.IsCategoryEnabled("tutor"))

	s := c.Settings()
	assert.True(t, s.DebugMode)
	assert.Equal(t, c.Categories, s.Categories)
}
