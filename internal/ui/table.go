package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/healthcard/orientation/internal/apperr"
)

var errRenderTable = &apperr.Error{
	Message: "rendering the %s table failed",
}

// PrintTable writes data as a boxed table whose first row is the header.
// name identifies the table in errors.
func PrintTable(w io.Writer, name string, data [][]string) error {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errRenderTable.Fmt(name).Wrap(err)
	}

	_, err = fmt.Fprintln(w, str)

	return err
}
