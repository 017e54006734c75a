package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Predict  PredictConfig
	Database DatabaseConfig
	Upload   UploadConfig
	UI       UIConfig
	Log      LogConfig
}

// PredictConfig describes the prediction endpoint.
type PredictConfig struct {
	Endpoint string
	Field    string
	TokenEnv string `mapstructure:"token_env"`
}

// DatabaseConfig holds sqlite settings for the prediction history.
type DatabaseConfig struct {
	Path string
}

// UploadConfig bounds what the user may select.
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	NoticeDuration time.Duration `mapstructure:"notice_duration"`
	PreviewWidth   int           `mapstructure:"preview_width"`
	StartDir       string        `mapstructure:"start_dir"`
}

// LogConfig controls where diagnostics go while the TUI owns the terminal.
type LogConfig struct {
	File string
}

// Load reads configuration from file and env. Env var overrides use prefix REALCHECK_.
func Load() (Config, error) {
	home := os.Getenv("HOME")
	v := viper.New()

	v.SetDefault("predict.endpoint", "http://localhost:5000/api/predict")
	v.SetDefault("predict.field", "file")
	v.SetDefault("predict.token_env", "REALCHECK_TOKEN")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "realcheck", "history.db"))
	v.SetDefault("upload.max_bytes", int64(20<<20))
	v.SetDefault("ui.notice_duration", 2500*time.Millisecond)
	v.SetDefault("ui.preview_width", 32)
	v.SetDefault("ui.start_dir", "")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "realcheck", "realcheck.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("REALCHECK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "realcheck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("REALCHECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit REALCHECK_CONFIG that cannot be read is an error; a missing default is not
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the rest of the app cannot work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Predict.Endpoint) == "" {
		return fmt.Errorf("predict.endpoint is empty")
	}
	if strings.TrimSpace(c.Predict.Field) == "" {
		return fmt.Errorf("predict.field is empty")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes)
	}
	if c.UI.NoticeDuration <= 0 {
		return fmt.Errorf("ui.notice_duration must be positive, got %s", c.UI.NoticeDuration)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("REALCHECK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "realcheck", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("predict.endpoint", cfg.Predict.Endpoint)
	v.Set("predict.field", cfg.Predict.Field)
	v.Set("predict.token_env", cfg.Predict.TokenEnv)
	v.Set("database.path", cfg.Database.Path)
	v.Set("upload.max_bytes", cfg.Upload.MaxBytes)
	v.Set("ui.notice_duration", cfg.UI.NoticeDuration.String())
	v.Set("ui.preview_width", cfg.UI.PreviewWidth)
	v.Set("ui.start_dir", cfg.UI.StartDir)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
