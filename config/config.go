package config

import (
	"errors"
	"io/fs"
	"os"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds the settings of the scenesync binaries. Values come from an
// optional KEY=value file and are then overridden by environment variables
// of the same name.
type Config struct {
	WindowWidth  int    `config:"SCENESYNC_WINDOW_WIDTH"`
	WindowHeight int    `config:"SCENESYNC_WINDOW_HEIGHT"`
	WindowTitle  string `config:"SCENESYNC_WINDOW_TITLE"`
	TPS          int    `config:"SCENESYNC_TPS"`

	AssetRoot       string `config:"SCENESYNC_ASSET_ROOT"`
	Manifest        string `config:"SCENESYNC_MANIFEST"`
	LoadConcurrency int    `config:"SCENESYNC_LOAD_CONCURRENCY"`

	LogLevel  string `config:"SCENESYNC_LOG_LEVEL"`
	LogFormat string `config:"SCENESYNC_LOG_FORMAT"`

	OffsetX float64 `config:"SCENESYNC_OFFSET_X"`
	OffsetY float64 `config:"SCENESYNC_OFFSET_Y"`

	DebugUI bool `config:"SCENESYNC_DEBUG_UI"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "scenesync",
		TPS:          60,
		AssetRoot:    "assets",
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// Load reads path, if it exists, then the environment, on top of Default.
// An empty path reads the environment only.
func Load(path string) (Config, error) {
	cfg := Default()

	builder := jlconfig.FromEnv()
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			builder = jlconfig.From(path).FromEnv()
		case !errors.Is(err, fs.ErrNotExist):
			return cfg, eris.Wrapf(err, "config file %s", path)
		}
	}

	if err := builder.To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "load config")
	}
	return cfg, cfg.Validate()
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return eris.Errorf("window size %dx%d must be positive", c.WindowWidth, c.WindowHeight)
	}
	if c.TPS <= 0 {
		return eris.Errorf("TPS %d must be positive", c.TPS)
	}
	if c.LoadConcurrency < 0 {
		return eris.Errorf("load concurrency %d must not be negative", c.LoadConcurrency)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrapf(err, "log level %q", c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return eris.Errorf("log format %q: want console or json", c.LogFormat)
	}
	return nil
}
