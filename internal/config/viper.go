package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyRefreshInterval      = "refresh.interval"
	keyMaxUpcoming          = "dashboard.max_upcoming"
	keyAuthorityURL         = "authority.url"
	keyAuthorityTimeout     = "authority.timeout"
	keyAllowUnverified      = "clock.allow_unverified"
	keyStoreDriver          = "store.driver"
	keyStorePath            = "store.path"
	keyHistoryLimit         = "history.limit"
	keyTwentyFourHour       = "display.twenty_four_hour"
	keyDarkTheme            = "display.dark_theme"
	keyNotificationsEnabled = "notifications.enabled"
	keySessionCmd           = "settings.cmd"
)

// WithViperConfig returns an Option that loads configuration from Viper.
// A missing config file is created with the defaults.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and prompt values.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyRefreshInterval, "10s")
	v.SetDefault(keyMaxUpcoming, 5)
	v.SetDefault(keyAuthorityURL, "")
	v.SetDefault(keyAuthorityTimeout, "10s")
	v.SetDefault(keyAllowUnverified, true)
	v.SetDefault(keyStoreDriver, "bolt")
	v.SetDefault(keyStorePath, "")
	v.SetDefault(keyHistoryLimit, 200)
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keySessionCmd, "")

	if c.Authority.URL != "" {
		v.Set(keyAuthorityURL, c.Authority.URL)
	}

	if c.Store.Driver != "" {
		v.Set(keyStoreDriver, c.Store.Driver)
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	return nil
}
