package app

import "github.com/urfave/cli/v2"

var (
	dayFlag = &cli.StringFlag{
		Name:  "day",
		Usage: "Show the sessions of another day (e.g. 'yesterday', '2025-01-28'). Defaults to today",
	}

	intervalFlag = &cli.StringFlag{
		Name:    "interval",
		Aliases: []string{"i"},
		Usage:   "How often the dashboard refreshes (default: 10s)",
	}

	maxUpcomingFlag = &cli.IntFlag{
		Name:  "max-upcoming",
		Usage: "The number of upcoming sessions to list (default: 5)",
	}

	strictClockFlag = &cli.BoolFlag{
		Name:  "strict-clock",
		Usage: "Never fall back to the device clock while the time authority is unreachable",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable desktop notifications for session data issues",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command whenever the current session changes",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Write debug records to the log file",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	sinceFlag = &cli.StringFlag{
		Name:    "since",
		Aliases: []string{"s"},
		Usage:   "Only include scans after this date (e.g. '3 days ago')",
	}

	untilFlag = &cli.StringFlag{
		Name:    "until",
		Aliases: []string{"u"},
		Usage:   "Only include scans before this date (e.g. 'today 12:00')",
	}

	scanTypeFlag = &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"t"},
		Usage:   "Only include scans of this type: check-in or check-out",
	}

	limitFlag = &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "The maximum number of scans to read (default: 200)",
	}

	interactiveFlag = &cli.BoolFlag{
		Name:  "interactive",
		Usage: "Pick the scan type interactively",
	}

	authorityURLFlag = &cli.StringFlag{
		Name:    "authority-url",
		EnvVars: []string{"ORIENT_AUTHORITY_URL"},
		Usage:   "Base URL of the time authority",
	}

	storeDriverFlag = &cli.StringFlag{
		Name:  "store-driver",
		Usage: "Session store backend: bolt or sqlite (default: bolt)",
	}

	storePathFlag = &cli.StringFlag{
		Name:  "store-path",
		Usage: "Path to the session store file",
	}
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		authorityURLFlag,
		storeDriverFlag,
		storePathFlag,
		debugFlag,
		noColorFlag,
	}
}
