package tui

import (
	"time"

	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme          themes.Theme
	Engine         engine.Config
	RequestTimeout time.Duration
	RecentCount    int
	Width          int
	Height         int
	Record         bool
	ShowHelp       bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		Engine:         engine.DefaultConfig(),
		RequestTimeout: 30 * time.Second,
		RecentCount:    5,
		Width:          80,
		Height:         24,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithEngineConfig sets the page size and invalidation table of the dashboard's engine.
func WithEngineConfig(cfg engine.Config) Option {
	return func(c *Config) {
		c.Engine = cfg
	}
}

// WithRequestTimeout bounds each read and save. Deletes wait on the user and are not
// bounded.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

// WithRecorder enables frame recording to a temporary directory.
func WithRecorder(enabled bool) Option {
	return func(c *Config) {
		c.Record = enabled
	}
}
