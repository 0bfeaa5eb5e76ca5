// Package config maps viper keys onto the settings each package consumes.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/GRBadas/Planilha-Django/internal/api"
	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/pagination"
	"github.com/spf13/viper"
)

// DefaultDatabasePath is where the reference server keeps its SQLite file.
const DefaultDatabasePath = "$HOME/.local/share/planilha/planilha.db"

// SetDefaults registers the default value of every key the application reads.
func SetDefaults(v *viper.Viper) {
	client := api.DefaultConfig()
	v.SetDefault("api.base_url", client.BaseURL)
	v.SetDefault("api.timeout", client.Timeout)
	v.SetDefault("api.read_attempts", client.ReadRetry.MaxAttempts)
	v.SetDefault("transactions.page_size", pagination.DefaultPageSize)
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("sheets.token_file", "$HOME/.config/planilha/sheets-token.json")
}

// LoadAPIConfig builds the REST client settings from v.
func LoadAPIConfig(v *viper.Viper) (api.Config, error) {
	cfg := api.DefaultConfig()

	if s := v.GetString("api.base_url"); s != "" {
		cfg.BaseURL = s
	}
	if v.IsSet("api.timeout") {
		cfg.Timeout = v.GetDuration("api.timeout")
	}
	if cfg.Timeout < 0 {
		return api.Config{}, fmt.Errorf("%w: api.timeout cannot be negative", common.ErrInvalidConfig)
	}
	if v.IsSet("api.read_attempts") {
		attempts := v.GetInt("api.read_attempts")
		if attempts < 1 {
			return api.Config{}, fmt.Errorf("%w: api.read_attempts must be at least 1", common.ErrInvalidConfig)
		}
		cfg.ReadRetry.MaxAttempts = attempts
	}

	return cfg, nil
}

// PageSize returns transactions.page_size clamped to the server's accepted range.
func PageSize(v *viper.Viper) int {
	size := v.GetInt("transactions.page_size")
	switch {
	case size <= 0:
		return pagination.DefaultPageSize
	case size > pagination.MaxPageSize:
		return pagination.MaxPageSize
	default:
		return size
	}
}

// DatabasePath returns the expanded database.path.
func DatabasePath(v *viper.Viper) string {
	path := v.GetString("database.path")
	if path == "" {
		path = DefaultDatabasePath
	}
	return ExpandPath(path)
}

// ExpandPath resolves a leading ~ and $VAR references in a configured path.
func ExpandPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~"); ok && (rest == "" || strings.HasPrefix(rest, "/")) {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + rest
		}
	}
	return os.ExpandEnv(path)
}
