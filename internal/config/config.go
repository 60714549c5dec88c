// Package config loads orient settings from the config file and the command
// line.
package config

import (
	"io"
	"os"
	"time"

	"github.com/healthcard/orientation/internal/models"
)

type (
	// Config holds all configuration settings
	Config struct {
		Refresh       RefreshConfig      `mapstructure:"refresh"`
		Dashboard     DashboardConfig    `mapstructure:"dashboard"`
		Authority     AuthorityConfig    `mapstructure:"authority"`
		Clock         ClockConfig        `mapstructure:"clock"`
		Store         StoreConfig        `mapstructure:"store"`
		History       HistoryConfig      `mapstructure:"history"`
		Display       DisplayConfig      `mapstructure:"display"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Settings      SettingsConfig     `mapstructure:"settings"`
		CLI           CLIConfig          `mapstructure:"-"`
	}

	RefreshConfig struct {
		Interval time.Duration `mapstructure:"interval"`
	}

	DashboardConfig struct {
		MaxUpcoming int `mapstructure:"max_upcoming"`
	}

	// AuthorityConfig locates the time authority. An empty URL leaves the
	// clock unverified.
	AuthorityConfig struct {
		URL     string        `mapstructure:"url"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	ClockConfig struct {
		AllowUnverified bool `mapstructure:"allow_unverified"`
	}

	StoreConfig struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	}

	HistoryConfig struct {
		Limit int `mapstructure:"limit"`
	}

	DisplayConfig struct {
		TwentyFourHour bool `mapstructure:"twenty_four_hour"`
		DarkTheme      bool `mapstructure:"dark_theme"`
	}

	NotificationConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// SettingsConfig holds miscellaneous settings
	SettingsConfig struct {
		Cmd string `mapstructure:"cmd"`
	}

	// CLIConfig holds values that only come from the command line.
	CLIConfig struct {
		Day         time.Time
		Since       time.Time
		Until       time.Time
		ScanType    models.ScanType
		Debug       bool
		JSON        bool
		Interactive bool
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config, applies options in order and validates the
// result.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}
