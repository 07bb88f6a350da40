// Package config loads typed application configuration from viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/tallyups/tally/internal/common"
)

// Config is the full application configuration.
type Config struct {
	Server Server
	UI     UI
}

// Server holds TallyUps server connection settings.
type Server struct {
	URL     string
	Timeout time.Duration
}

// UI holds review interface tuning knobs.
type UI struct {
	BufferRows     int
	SearchDebounce time.Duration
	ResizeDebounce time.Duration
	ToastDuration  time.Duration
}

// SetDefaults registers defaults for every key.
func SetDefaults() {
	viper.SetDefault("server.url", "http://localhost:5000")
	viper.SetDefault("server.timeout", "30s")
	viper.SetDefault("ui.buffer_rows", 5)
	viper.SetDefault("ui.search_debounce", "250ms")
	viper.SetDefault("ui.resize_debounce", "100ms")
	viper.SetDefault("ui.toast_duration", "3s")
}

// Load reads the configuration from viper and validates it.
func Load() (Config, error) {
	cfg := Config{
		Server: Server{
			URL:     viper.GetString("server.url"),
			Timeout: viper.GetDuration("server.timeout"),
		},
		UI: UI{
			BufferRows:     viper.GetInt("ui.buffer_rows"),
			SearchDebounce: viper.GetDuration("ui.search_debounce"),
			ResizeDebounce: viper.GetDuration("ui.resize_debounce"),
			ToastDuration:  viper.GetDuration("ui.toast_duration"),
		},
	}

	if cfg.Server.URL == "" {
		return Config{}, fmt.Errorf("%w: server.url", common.ErrMissingConfig)
	}
	if cfg.UI.BufferRows < 0 {
		return Config{}, fmt.Errorf("%w: ui.buffer_rows must not be negative", common.ErrInvalidConfig)
	}

	return cfg, nil
}
