package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "ditabase", cfg.AppName)
	assert.Equal(t, "ditabase> ", cfg.Shell.Prompt)
	assert.NotEmpty(t, cfg.Shell.HistoryPath)
	assert.Equal(t, 2000, cfg.Shell.HistoryMax)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `app_name: myapp
shell:
  prompt: "db> "
  history_max: 50
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "myapp", cfg.AppName)
	assert.Equal(t, "db> ", cfg.Shell.Prompt)
	assert.Equal(t, 50, cfg.Shell.HistoryMax)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// unset keys keep their defaults
	assert.NotEmpty(t, cfg.Shell.HistoryPath)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
