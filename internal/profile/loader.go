// internal/profile/loader.go
package profile

import (
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"mpa2phyloseq/internal/table"
)

// DefaultStripSuffix is appended to sample columns by merge_metaphlan_tables.
const DefaultStripSuffix = "_known_profiled_metagenome"

var ErrMissingIDColumn = errors.New("identifier column not found")

// Options controls how a merged table is read.
type Options struct {
	IDColumn    string // renamed to table.KeyColumn; "" means table.KeyColumn
	StripSuffix string // removed from every column name
}

// Load reads one tab-separated merged abundance table.
func Load(path string, o Options) (*table.Table, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Read(rc, path, o)
}

// Read parses a merged table from r; name labels errors and the table.
func Read(r io.Reader, name string, o Options) (*table.Table, error) {
	idCol := o.IDColumn
	if idCol == "" {
		idCol = table.KeyColumn
	}

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := readHeader(cr)
	if err == io.EOF {
		return nil, errors.Newf("%s: empty table", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s: header", name)
	}

	key := -1
	for i, c := range header {
		if c == idCol {
			key = i
			break
		}
	}
	if key < 0 {
		return nil, errors.WithHintf(
			errors.Wrapf(ErrMissingIDColumn, "%s: no %q column", name, idCol),
			"header starts with %q; pass it as --id-column", header[0],
		)
	}
	cols := dedupe(cleanColumns(header, o.StripSuffix), key)

	t := table.New(tableName(name), cols...)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s", name)
		}
		if len(rec) > len(cols) {
			line, _ := cr.FieldPos(0)
			return nil, errors.Newf("%s:%d has %d fields, header has %d", name, line, len(rec), len(cols))
		}
		row := make([]string, len(cols))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// LoadAll loads paths concurrently and returns tables in argument order.
// threads <= 0 means one loader per CPU.
func LoadAll(ctx context.Context, paths []string, o Options, threads int) ([]*table.Table, error) {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	out := make([]*table.Table, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := Load(p, o)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func cleanColumns(header []string, suffix string) []string {
	out := make([]string, len(header))
	for i, c := range header {
		if suffix != "" {
			c = strings.ReplaceAll(c, suffix, "")
		}
		out[i] = c
	}
	return out
}

// readHeader returns the first record whose first field does not start with
// '#'. Comment lines after the header are data.
func readHeader(cr *csv.Reader) ([]string, error) {
	for {
		rec, err := cr.Read()
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(rec[0], "#") {
			return rec, nil
		}
	}
}

// dedupe names column key table.KeyColumn and renames repeated names among
// the rest to name.1, name.2, ... A non-key column called ID becomes ID.1.
func dedupe(cols []string, key int) []string {
	seen := make(map[string]int, len(cols))
	seen[table.KeyColumn] = 1
	out := make([]string, len(cols))
	for i, c := range cols {
		if i == key {
			out[i] = table.KeyColumn
			continue
		}
		for {
			n, dup := seen[c]
			seen[c] = n + 1
			if !dup {
				break
			}
			c = c + "." + strconv.Itoa(n)
		}
		out[i] = c
	}
	return out
}

func tableName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return filepath.Base(path)
}
