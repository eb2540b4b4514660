// internal/writers/registry.go
package writers

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"

	"mpa2phyloseq/internal/table"
	"mpa2phyloseq/pkg/api"
)

// Target says where a table set goes.
type Target struct {
	Dir    string
	Bundle string            // base name for single-file formats
	Files  map[string]string // table name -> base file name
	Run    api.RunV1
}

// Path joins dir, the base name registered for tableName (or the table name
// itself) and ext.
func (tg Target) Path(tableName, ext string) string {
	base, ok := tg.Files[tableName]
	if !ok || base == "" {
		base = tableName
	}
	return filepath.Join(tg.Dir, base+ext)
}

// Format writes a table set and returns the paths it created.
type Format interface {
	Ext() string
	Write(ctx context.Context, tables []*table.Table, tg Target) ([]string, error)
}

// Format registry (name → handler). Register in init() blocks of the format files.
var formats = map[string]Format{}

// Register is idempotent, last wins.
func Register(name string, f Format) { formats[name] = f }

// Lookup returns the format registered under name.
func Lookup(name string) (Format, error) {
	f, ok := formats[name]
	if !ok {
		return nil, errors.WithHintf(
			errors.Newf("unknown table format %q (no writer registered)", name),
			"available formats: %v", Names(),
		)
	}
	return f, nil
}

// Names lists registered formats, sorted.
func Names() []string {
	out := make([]string, 0, len(formats))
	for n := range formats {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// WriteAll dispatches to the named format.
func WriteAll(ctx context.Context, format string, tables []*table.Table, tg Target) ([]string, error) {
	f, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	if tg.Dir == "" {
		tg.Dir = "."
	}
	return f.Write(ctx, tables, tg)
}
