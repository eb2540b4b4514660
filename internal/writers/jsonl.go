// internal/writers/jsonl.go
package writers

import (
	"context"
	"encoding/json"
	"io"

	"mpa2phyloseq/internal/jsonlutil"
	"mpa2phyloseq/internal/table"
	"mpa2phyloseq/pkg/api"
)

func init() { Register("jsonl", jsonlFormat{}) }

// ToAPIRow converts one row of t to the v1 wire type. Row carries every
// column; Otu repeats the Otu cell for tables that have one.
func ToAPIRow(t *table.Table, row []string) api.RowV1 {
	r := api.RowV1{Table: t.Name, Row: make(map[string]string, len(row))}
	for i, c := range t.Columns {
		if c == table.OtuColumn {
			r.Otu = row[i]
		}
		r.Row[c] = row[i]
	}
	return r
}

// StartRowJSONLWriter streams rows of t as one JSON object per line (v1).
func StartRowJSONLWriter(out io.Writer, t *table.Table, bufSize int) (chan<- []string, <-chan error) {
	return jsonlutil.Start[[]string](out, bufSize,
		func(enc *json.Encoder, row []string) error {
			return enc.Encode(ToAPIRow(t, row))
		},
		IsBrokenPipe,
	)
}

// WriteJSONL writes one table synchronously.
func WriteJSONL(ctx context.Context, out io.Writer, t *table.Table) error {
	in, done := StartRowJSONLWriter(out, t, 64)
	return feed(ctx, in, done, t.Rows)
}

type jsonlFormat struct{}

func (jsonlFormat) Ext() string { return ".jsonl" }

func (f jsonlFormat) Write(ctx context.Context, tables []*table.Table, tg Target) ([]string, error) {
	return perTableFiles(ctx, tables, tg, f.Ext(), func(w io.Writer, t *table.Table) error {
		return WriteJSONL(ctx, w, t)
	})
}
