package config

import (
	"errors"
	"net/url"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
 ██████╗ ██████╗ ██╗███████╗███╗   ██╗████████╗
██╔═══██╗██╔══██╗██║██╔════╝████╗  ██║╚══██╔══╝
██║   ██║██████╔╝██║█████╗  ██╔██╗ ██║   ██║
██║   ██║██╔══██╗██║██╔══╝  ██║╚██╗██║   ██║
╚██████╔╝██║  ██║██║███████╗██║ ╚████║   ██║
 ╚═════╝ ╚═╝  ╚═╝╚═╝╚══════╝╚═╝  ╚═══╝   ╚═╝`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	AuthorityURL string
	StoreDriver  string
}

// WithPromptConfig returns an Option that asks for the first-run settings
// when the config file does not exist yet.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return errPrompt.Wrap(err)
		}

		applyPromptOptions(c, opts)

		return nil
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	opts := PromptOptions{StoreDriver: "bolt"}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure orient for the first time.
Leave the time authority empty to run with the unverified device clock.
Edit the config file with 'orient edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Time authority URL").
				Placeholder("https://api.example.com").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}

					u, err := url.Parse(s)
					if err != nil || u.Host == "" {
						return errInvalidURL.Fmt(s)
					}

					return nil
				}).
				Value(&opts.AuthorityURL),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Local store").
				Options(
					huh.NewOption("BoltDB", "bolt").Selected(true),
					huh.NewOption("SQLite", "sqlite"),
				).
				Value(&opts.StoreDriver),
		),
	)

	if err := form.Run(); err != nil {
		return opts, err
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.Authority.URL = opts.AuthorityURL
	c.Store.Driver = opts.StoreDriver
}
