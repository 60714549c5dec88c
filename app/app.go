package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/healthcard/orientation/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the orient app instance.
func Get() *cli.App {
	dashboardFlags := []cli.Flag{
		dayFlag,
		intervalFlag,
		maxUpcomingFlag,
		strictClockFlag,
		disableNotificationFlag,
		sessionCmdFlag,
	}

	orientApp := &cli.App{
		Name: "orient",
		Usage: `
		Orient is a live dashboard for orientation session inspectors. It shows
		which session is running, what comes next and where every attendee
		stands, using server-anchored time that a wrong device clock cannot
		move.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "dashboard",
				Usage:  "Show the live session dashboard (default)",
				Flags:  dashboardFlags,
				Action: dashboardAction,
			},
			{
				Name:  "status",
				Usage: "Print the sessions of a day and their attendance once",
				Flags: []cli.Flag{
					dayFlag,
					maxUpcomingFlag,
					strictClockFlag,
					jsonFlag,
				},
				Action: statusAction,
			},
			{
				Name:  "history",
				Usage: "Print scan history grouped by day",
				Flags: []cli.Flag{
					sinceFlag,
					untilFlag,
					scanTypeFlag,
					limitFlag,
					interactiveFlag,
					jsonFlag,
				},
				Action: historyAction,
			},
			{
				Name:      "import",
				Usage:     "Load sessions and scans from a JSON fixture into the store",
				ArgsUsage: "FILE",
				Action:    importAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags:  append(globalFlags(), dashboardFlags...),
		Action: dashboardAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return orientApp
}
