package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllCategoriesLog tests that all categories create log files when debug mode is on
func TestAllCategoriesLog(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, Initialize(tempDir, Settings{DebugMode: true, Level: "debug"}))
	defer CloseAll()

	assert.True(t, IsDebugMode())

	categories := []Category{
		CategoryBoot, CategorySession, CategorySim, CategoryTutor,
		CategoryStore, CategoryConfig, CategoryUI,
	}
	for _, cat := range categories {
		require.True(t, IsCategoryEnabled(cat), "category %s should be enabled", cat)
		l := Get(cat)
		l.Info("Test info message for %s", cat)
		l.Debug("Test debug message for %s", cat)
		l.Warn("Test warn message for %s", cat)
		l.Error("Test error message for %s", cat)
	}

	Session("Convenience session log")
	Tutor("Convenience tutor log")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	for _, cat := range categories {
		path := filepath.Join(tempDir, ".antipop", "logs", date+"_"+string(cat)+".log")
		data, err := os.ReadFile(path)
		require.NoError(t, err, "log file for %s", cat)
		assert.Contains(t, string(data), "Test info message for "+string(cat))
		assert.Contains(t, string(data), "Test debug message")
	}
}

func TestProductionModeIsSilent(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, Initialize(tempDir, Settings{DebugMode: false}))
	defer CloseAll()

	Get(CategoryTutor).Error("should go nowhere")
	_, err := os.Stat(filepath.Join(tempDir, ".antipop", "logs"))
	assert.True(t, os.IsNotExist(err))
	assert.False(t, IsCategoryEnabled(CategoryTutor))
}

func TestCategoryFilterAndLevel(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, Initialize(tempDir, Settings{
		DebugMode:  true,
		Level:      "warn",
		Format:     "json",
		Categories: map[string]bool{"sim": false},
	}))
	defer CloseAll()

	assert.False(t, IsCategoryEnabled(CategorySim))
	assert.True(t, IsCategoryEnabled(CategoryStore))

	Get(CategoryStore).Info("quiet info")
	Get(CategoryStore).With("session", "s-1").Warn("loud warning")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(tempDir, ".antipop", "logs", date+"_store.log"))
	require.NoError(t, err)
	out := string(data)
	assert.False(t, strings.Contains(out, "quiet info"))
	assert.Contains(t, out, "loud warning")
	assert.Contains(t, out, `"session":"s-1"`)
}

func TestInitializeRequiresWorkspace(t *testing.T) {
	assert.Error(t, Initialize("", Settings{}))
}

func TestTimer(t *testing.T) {
	timer := StartTimer(CategorySim, "op")
	assert.GreaterOrEqual(t, timer.StopWithThreshold(time.Hour), time.Duration(0))
}
