package config

import (
	"errors"

	"github.com/spf13/viper"
)

var ErrEmptyStoragePath = errors.New(
	"error getting SM_STORAGE_PATH: variable not specified or contains an empty string",
)

// Config holds the process bootstrap configuration. Unlike Settings it is
// read once at startup and never changes for the lifetime of the process.
type Config struct {
	Env          string // Env is the current environment: local, dev, prod.
	StoragePath  string // StoragePath is the SQLite state database file.
	SettingsPath string // SettingsPath is the live monitor settings document.
	Tg           Telegram
}

type Telegram struct {
	Token  string // Token is an unique telegram bot token. Empty disables the channel.
	ChatID int64  // ChatID is the chat notifications are delivered to.
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
func MustLoad() *Config {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("SM")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("STORAGE_PATH", "data/monitor.db")
	viper.SetDefault("SETTINGS_PATH", "data/config.json")

	if viper.GetString("STORAGE_PATH") == "" {
		panic(ErrEmptyStoragePath)
	}

	return &Config{
		Env:          viper.GetString("ENV"),
		StoragePath:  viper.GetString("STORAGE_PATH"),
		SettingsPath: viper.GetString("SETTINGS_PATH"),
		Tg: Telegram{
			Token:  viper.GetString("TELEGRAM_TOKEN"),
			ChatID: viper.GetInt64("TELEGRAM_CHAT_ID"),
		},
	}
}
