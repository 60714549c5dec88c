package config

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/internal/timeutil"
)

// CLIOptions represents command-line configuration options. Zero values
// leave the file configuration untouched.
type CLIOptions struct {
	Day           string
	Since         string
	Until         string
	Type          string
	Interval      string
	AuthorityURL  string
	StoreDriver   string
	StorePath     string
	SessionCmd    string
	MaxUpcoming   int
	Limit         int
	DisableNotify bool
	StrictClock   bool
	Debug         bool
	JSON          bool
	Interactive   bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
// Relative dates such as "yesterday" are resolved against now.
func WithCLIConfig(ctx *cli.Context, now time.Time) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Day:           ctx.String("day"),
			Since:         ctx.String("since"),
			Until:         ctx.String("until"),
			Type:          ctx.String("type"),
			Interval:      ctx.String("interval"),
			AuthorityURL:  ctx.String("authority-url"),
			StoreDriver:   ctx.String("store-driver"),
			StorePath:     ctx.String("store-path"),
			SessionCmd:    ctx.String("session-cmd"),
			MaxUpcoming:   ctx.Int("max-upcoming"),
			Limit:         ctx.Int("limit"),
			DisableNotify: ctx.Bool("disable-notification"),
			StrictClock:   ctx.Bool("strict-clock"),
			Debug:         ctx.Bool("debug"),
			JSON:          ctx.Bool("json"),
			Interactive:   ctx.Bool("interactive"),
		}

		return applyCLIOptions(c, opts, now)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions, now time.Time) error {
	if opts.Interval != "" {
		d, err := time.ParseDuration(opts.Interval)
		if err != nil {
			return errInvalidCLIDuration.Fmt("interval", err)
		}

		c.Refresh.Interval = d
	}

	if opts.MaxUpcoming > 0 {
		c.Dashboard.MaxUpcoming = opts.MaxUpcoming
	}

	if opts.Limit > 0 {
		c.History.Limit = opts.Limit
	}

	if opts.AuthorityURL != "" {
		c.Authority.URL = opts.AuthorityURL
	}

	if opts.StoreDriver != "" {
		c.Store.Driver = opts.StoreDriver
	}

	if opts.StorePath != "" {
		c.Store.Path = opts.StorePath
	}

	if opts.SessionCmd != "" {
		c.Settings.Cmd = opts.SessionCmd
	}

	if opts.DisableNotify {
		c.Notifications.Enabled = false
	}

	if opts.StrictClock {
		c.Clock.AllowUnverified = false
	}

	c.CLI.ScanType = models.ScanType(strings.ToLower(strings.TrimSpace(opts.Type)))
	c.CLI.Debug = opts.Debug
	c.CLI.JSON = opts.JSON
	c.CLI.Interactive = opts.Interactive

	return applyCLIDates(c, opts, now)
}

// applyCLIDates parses the human date flags.
func applyCLIDates(c *Config, opts CLIOptions, now time.Time) error {
	dates := []struct {
		flag  string
		value string
		dst   *time.Time
	}{
		{"day", opts.Day, &c.CLI.Day},
		{"since", opts.Since, &c.CLI.Since},
		{"until", opts.Until, &c.CLI.Until},
	}

	for _, d := range dates {
		if d.value == "" {
			continue
		}

		t, err := timeutil.FromStr(d.value, now)
		if err != nil {
			return errInvalidCLIDate.Fmt(d.flag).Wrap(err)
		}

		*d.dst = t
	}

	if !c.CLI.Day.IsZero() {
		c.CLI.Day = timeutil.StartOfReferenceDay(c.CLI.Day)
	}

	return nil
}
