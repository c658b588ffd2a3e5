package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"jobs": "jobs.csv",
		"memory": "qa_memory.json",
		"settle_seconds": 4,
		"max_panel_rounds": 20,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "jobs.csv", cfg.Jobs)
	assert.Equal(t, "qa_memory.json", cfg.Memory)
	assert.Equal(t, 4, cfg.SettleSeconds)
	assert.Equal(t, 20, cfg.MaxPanelRounds)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate_NegativeDelays(t *testing.T) {
	cfg := &Config{SettleSeconds: -1}
	assert.Error(t, cfg.Validate())

	cfg = &Config{PanelSeconds: -1}
	assert.Error(t, cfg.Validate())

	cfg = &Config{MaxPanelRounds: -1}
	assert.Error(t, cfg.Validate())
}

func TestValidate_MissingJobsFile(t *testing.T) {
	cfg := &Config{Jobs: "/nonexistent/jobs.csv"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs file not found")
}

func TestValidate_JobsFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,url\n"), 0644))

	cfg := &Config{Jobs: path, SettleSeconds: 4}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Jobs: "mine.csv", SettleSeconds: 2}
	defaults := Config{
		Jobs:           "default.csv",
		Memory:         "qa_memory.json",
		SettleSeconds:  4,
		PanelSeconds:   2,
		MaxPanelRounds: 20,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "mine.csv", merged.Jobs, "explicit values win")
	assert.Equal(t, "qa_memory.json", merged.Memory, "empty values fall back")
	assert.Equal(t, 2, merged.SettleSeconds)
	assert.Equal(t, 2, merged.PanelSeconds)
	assert.Equal(t, 20, merged.MaxPanelRounds)
}
