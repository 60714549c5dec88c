package config

import (
	"net/url"
	"slices"
	"time"
)

var (
	minInterval = 1 * time.Second
	maxInterval = 10 * time.Minute

	minUpcoming = 1
	maxUpcoming = 50

	minLimit = 1
	maxLimit = 10000

	drivers = []string{"bolt", "sqlite"}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if c.Refresh.Interval < minInterval || c.Refresh.Interval > maxInterval {
		return errInvalidInterval.Fmt(minInterval, maxInterval, c.Refresh.Interval)
	}

	if c.Dashboard.MaxUpcoming < minUpcoming || c.Dashboard.MaxUpcoming > maxUpcoming {
		return errInvalidMaxUpcoming.Fmt(minUpcoming, maxUpcoming, c.Dashboard.MaxUpcoming)
	}

	if err := c.validateAuthority(); err != nil {
		return err
	}

	if !slices.Contains(drivers, c.Store.Driver) {
		return errInvalidDriver.Fmt(c.Store.Driver)
	}

	if c.History.Limit < minLimit || c.History.Limit > maxLimit {
		return errInvalidLimit.Fmt(minLimit, maxLimit, c.History.Limit)
	}

	return c.validateCLI()
}

func (c *Config) validateAuthority() error {
	if c.Authority.Timeout <= 0 {
		return errInvalidTimeout.Fmt(c.Authority.Timeout)
	}

	if c.Authority.URL == "" {
		return nil
	}

	u, err := url.Parse(c.Authority.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errInvalidURL.Fmt(c.Authority.URL)
	}

	return nil
}

func (c *Config) validateCLI() error {
	if c.CLI.ScanType != "" && !c.CLI.ScanType.Valid() {
		return errInvalidScanType.Fmt(c.CLI.ScanType)
	}

	if !c.CLI.Since.IsZero() && !c.CLI.Until.IsZero() && c.CLI.Since.After(c.CLI.Until) {
		return errInvalidRange.Fmt(
			c.CLI.Since.Format(time.RFC3339),
			c.CLI.Until.Format(time.RFC3339),
		)
	}

	return nil
}
