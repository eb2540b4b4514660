// internal/table/table.go
package table

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// KeyColumn is the canonical lineage identifier column.
const KeyColumn = "ID"

// OtuColumn holds the synthetic row identifier.
const OtuColumn = "Otu"

// Table is a rectangular, all-text table. Every row has len(Columns) cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

func New(name string, cols ...string) *Table {
	return &Table{Name: name, Columns: append([]string(nil), cols...)}
}

// Index returns the position of col, or -1.
func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

func (t *Table) Len() int { return len(t.Rows) }

// Append adds one row; it must match the column count.
func (t *Table) Append(row ...string) error {
	if len(row) != len(t.Columns) {
		return errors.Newf("table %s: row has %d cells, want %d", t.Name, len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Column copies out the values of col.
func (t *Table) Column(col string) ([]string, error) {
	i := t.Index(col)
	if i < 0 {
		return nil, errors.Newf("table %s: no column %q", t.Name, col)
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Set overwrites col in place, or appends it as the last column.
func (t *Table) Set(col string, values []string) error {
	if len(values) != len(t.Rows) {
		return errors.Newf("table %s: %d values for %d rows", t.Name, len(values), len(t.Rows))
	}
	if i := t.Index(col); i >= 0 {
		for r := range t.Rows {
			t.Rows[r][i] = values[r]
		}
		return nil
	}
	t.Columns = append(t.Columns, col)
	for r := range t.Rows {
		t.Rows[r] = append(t.Rows[r], values[r])
	}
	return nil
}

// Drop returns a copy of t without col. Dropping a missing column is an error.
func (t *Table) Drop(col string) (*Table, error) {
	i := t.Index(col)
	if i < 0 {
		return nil, errors.Newf("table %s: no column %q", t.Name, col)
	}
	out := &Table{Name: t.Name, Columns: without(t.Columns, i)}
	out.Rows = make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		out.Rows[r] = without(row, i)
	}
	return out, nil
}

func without(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// Filter returns the rows for which keep is true, sharing row storage with t.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := &Table{Name: t.Name, Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Head returns at most n leading rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Name: t.Name, Columns: t.Columns, Rows: t.Rows[:n]}
}

// OtuIDs returns Otu0..Otu(n-1).
func OtuIDs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "Otu" + strconv.Itoa(i)
	}
	return out
}

// AddOtuKey numbers the rows of t in their current order.
func AddOtuKey(t *Table) error {
	return t.Set(OtuColumn, OtuIDs(t.Len()))
}
