package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenesync/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenesync.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"SCENESYNC_WINDOW_WIDTH=640\n"+
			"SCENESYNC_WINDOW_TITLE=demo\n"+
			"SCENESYNC_OFFSET_X=12.5\n"+
			"SCENESYNC_DEBUG_UI=true\n"), 0o600))

	t.Setenv("SCENESYNC_WINDOW_TITLE", "from-env")
	t.Setenv("SCENESYNC_LOG_FORMAT", "json")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.WindowWidth)
	assert.Equal(t, 720, cfg.WindowHeight)
	assert.Equal(t, "from-env", cfg.WindowTitle)
	assert.Equal(t, 12.5, cfg.OffsetX)
	assert.True(t, cfg.DebugUI)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("SCENESYNC_TPS", "0")
	_, err := config.Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*config.Config){
		"width":       func(c *config.Config) { c.WindowWidth = 0 },
		"height":      func(c *config.Config) { c.WindowHeight = -1 },
		"tps":         func(c *config.Config) { c.TPS = 0 },
		"concurrency": func(c *config.Config) { c.LoadConcurrency = -2 },
		"level":       func(c *config.Config) { c.LogLevel = "loud" },
		"format":      func(c *config.Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, config.Default().Validate())
}
