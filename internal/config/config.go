// Package config loads streakr.yaml with STREAKR_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic,disabled"`
	File  string `mapstructure:"file"`
}

type CalendarConfig struct {
	FirstDayOfWeek int    `mapstructure:"firstDayOfWeek" validate:"min:0|max:6"`
	Unit           string `mapstructure:"unit" validate:"required"`
}

type StreakConfig struct {
	HourOffset int `mapstructure:"hourOffset" validate:"min:-12|max:14"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	SizeMB  int  `mapstructure:"sizeMB" validate:"min:0"`
}

type NotifyConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	WarnBefore time.Duration `mapstructure:"warnBefore"`
}

// Config values are defaults; the settings table overrides week start, unit
// and hour offset at runtime.
type Config struct {
	AppName  string
	Path     string
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Streak   StreakConfig   `mapstructure:"streak"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

// Dir returns ~/.config/streakr
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "streakr"), nil
}

// Load reads the config file at path. With an empty path it looks for
// streakr.yaml in the working directory and the config dir, and falls back to
// defaults when none exists.
func Load(path string) (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("streakr")
		v.AddConfigPath(".")
		v.AddConfigPath(dir)
	}

	v.SetDefault("database.path", filepath.Join(dir, "streakr.db"))
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.file", filepath.Join(dir, "streakr.log"))
	v.SetDefault("calendar.firstDayOfWeek", 0)
	v.SetDefault("calendar.unit", "session")
	v.SetDefault("streak.hourOffset", 0)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.sizeMB", 4)
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.warnBefore", "2h")

	v.SetEnvPrefix("STREAKR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("logger.level", "STREAKR_LOG_LEVEL")
	v.BindEnv("database.path", "STREAKR_DB")
	v.BindEnv("streak.hourOffset", "STREAKR_HOUR_OFFSET")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := Validate(&conf); err != nil {
		return nil, err
	}

	conf.AppName = "streakr"
	conf.Path = v.ConfigFileUsed()
	return &conf, nil
}

// Validate checks the struct tags on conf.
func Validate(conf *Config) error {
	v := validate.Struct(conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %w", v.Errors)
	}
	if conf.Notify.WarnBefore < 0 || conf.Notify.WarnBefore > 24*time.Hour {
		return fmt.Errorf("invalid config: notify.warnBefore %s outside 0..24h", conf.Notify.WarnBefore)
	}
	return nil
}
