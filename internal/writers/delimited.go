// internal/writers/delimited.go
package writers

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"

	"mpa2phyloseq/internal/table"
)

func init() {
	Register("csv", delimited{comma: ',', ext: ".csv"})
	Register("tsv", delimited{comma: '\t', ext: ".tsv"})
}

// StartDelimitedWriter spins up a writer goroutine that emits header, then one
// record per received row. The error channel yields once, after in is closed.
func StartDelimitedWriter(out io.Writer, comma rune, header []string, bufSize int) (chan<- []string, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan []string, bufSize)
	errCh := make(chan error, 1)

	go func() {
		bw := bufio.NewWriterSize(out, 64<<10)
		cw := csv.NewWriter(bw)
		cw.Comma = comma

		err := cw.Write(header)
		for row := range in {
			if err != nil {
				continue // drain
			}
			err = cw.Write(row)
		}
		if err == nil {
			cw.Flush()
			err = cw.Error()
		}
		if err == nil {
			err = bw.Flush()
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		errCh <- err
	}()
	return in, errCh
}

// WriteDelimited writes one table synchronously.
func WriteDelimited(ctx context.Context, out io.Writer, comma rune, t *table.Table) error {
	in, done := StartDelimitedWriter(out, comma, t.Columns, 64)
	return feed(ctx, in, done, t.Rows)
}

type delimited struct {
	comma rune
	ext   string
}

func (d delimited) Ext() string { return d.ext }

func (d delimited) Write(ctx context.Context, tables []*table.Table, tg Target) ([]string, error) {
	return perTableFiles(ctx, tables, tg, d.ext, func(w io.Writer, t *table.Table) error {
		return WriteDelimited(ctx, w, d.comma, t)
	})
}
