// Package config loads the service configuration from file and environment
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Reader   ReaderConfig   `mapstructure:"reader"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// UpstreamConfig holds the content API configuration
type UpstreamConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// StorageConfig holds local state configuration. An empty data dir keeps
// library and history in memory only.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// CacheConfig toggles the upstream response cache
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ReaderConfig holds catalog defaults
type ReaderConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
}

// LoggingConfig holds logging configuration. An empty file logs to stderr.
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: ":8680",
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://comix.to",
		},
		Storage: StorageConfig{
			DataDir: defaultDataPath(),
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Reader: ReaderConfig{
			DefaultLanguage: "en",
		},
		Logging: LoggingConfig{
			File:  "",
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "inkbound")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "inkbound")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "inkbound")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "inkbound")
	}
}

// Load reads configuration from file and environment. Missing config file
// is fine; defaults apply. Environment variables use the INKBOUND_ prefix.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")

	v.SetEnvPrefix("INKBOUND")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}
