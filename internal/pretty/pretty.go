// Package pretty renders short table previews for the terminal.
package pretty

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"mpa2phyloseq/internal/table"
)

// DefaultRows matches what a dataframe head() shows.
const DefaultRows = 5

// Render returns the first n rows of t as a text table.
func Render(t *table.Table, n int) (string, error) {
	head := t.Head(n)
	data := make(pterm.TableData, 0, head.Len()+1)
	data = append(data, head.Columns)
	data = append(data, head.Rows...)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// Preview writes a titled preview of every table to w. n <= 0 writes nothing.
func Preview(w io.Writer, tables []*table.Table, n int) error {
	if n <= 0 {
		return nil
	}
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		s, err := Render(t, n)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s (%d rows x %d columns)\n%s\n", t.Name, t.Len(), len(t.Columns), s); err != nil {
			return err
		}
	}
	return nil
}

// SetColor toggles pterm styling, e.g. off when stdout is not a terminal.
func SetColor(on bool) {
	if on {
		pterm.EnableStyling()
		return
	}
	pterm.DisableStyling()
}
