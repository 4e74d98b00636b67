package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultUserAgent is sent on storefront requests when the settings
// document does not override it.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

// DefaultDelayMS is the fallback polling interval in milliseconds.
const DefaultDelayMS = 60000

// Settings is the live monitor configuration. The monitor re-reads it at
// the top of every cycle, so external edits take effect without a restart.
type Settings struct {
	Sites      []string `json:"sites"`
	WebhookURL string   `json:"webhookUrl"`
	DelayMS    int      `json:"delayMs"`
	UserAgent  string   `json:"userAgent"`
}

// Loader reads and writes the settings document at a fixed path.
type Loader struct {
	log  *slog.Logger
	path string
}

// NewLoader creates a settings loader for the given document path.
func NewLoader(log *slog.Logger, path string) *Loader {
	return &Loader{log: log, path: path}
}

// Load reads the settings document, filling unset fields with defaults.
// A missing or corrupted document never fails: it degrades to the defaults,
// logging the corruption, so the monitor keeps running on whatever was last
// valid about its environment.
func (l *Loader) Load() *Settings {
	vpr := viper.New()
	vpr.SetConfigFile(l.path)
	vpr.SetConfigType("json")

	vpr.SetDefault("sites", []string{})
	vpr.SetDefault("webhookUrl", "")
	vpr.SetDefault("delayMs", DefaultDelayMS)
	vpr.SetDefault("userAgent", DefaultUserAgent)

	if err := vpr.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(l.path); statErr == nil {
			l.log.Error("Settings document corrupted, using defaults", "path", l.path, "error", err)
		}
	}

	return &Settings{
		Sites:      vpr.GetStringSlice("sites"),
		WebhookURL: vpr.GetString("webhookUrl"),
		DelayMS:    vpr.GetInt("delayMs"),
		UserAgent:  vpr.GetString("userAgent"),
	}
}

// Save persists the settings document, creating the data directory when
// needed. Load(Save(s)) round-trips every field.
func (l *Loader) Save(settings *Settings) error {
	const opn = "config.Loader.Save"

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("%s: failed to create settings directory: %w", opn, err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: failed to marshal settings: %w", opn, err)
	}

	if err = os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("%s: failed to write settings document: %w", opn, err)
	}

	return nil
}
