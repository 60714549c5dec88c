// Package report prints command outcomes to the terminal.
package report

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/healthcard/orientation/internal/osutil"
)

// Imported announces a completed fixture import.
func Imported(sessions, scans int) {
	pterm.Success.Printfln("imported %d sessions and %d scans", sessions, scans)
}

func Error(err error) {
	pterm.Error.Println(err)
}

// Quit prints err and exits with a failure status.
func Quit(err error) {
	Error(err)
	os.Exit(int(osutil.ExitError))
}
