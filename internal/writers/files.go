// internal/writers/files.go
package writers

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"mpa2phyloseq/internal/table"
)

// feed sends rows to a writer goroutine, closes it and waits for its result.
// On cancellation the writer is still closed and drained.
func feed[T any](ctx context.Context, in chan<- T, done <-chan error, rows []T) error {
	var cerr error
	for _, r := range rows {
		if cerr = ctx.Err(); cerr != nil {
			break
		}
		in <- r
	}
	close(in)
	werr := <-done
	if cerr != nil {
		return cerr
	}
	return werr
}

// perTableFiles creates one file per table under tg.Dir.
func perTableFiles(ctx context.Context, tables []*table.Table, tg Target, ext string, write func(io.Writer, *table.Table) error) ([]string, error) {
	if err := os.MkdirAll(tg.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output directory %s", tg.Dir)
	}
	var paths []string
	for _, t := range tables {
		p := tg.Path(t.Name, ext)
		if err := writeFile(p, t, write); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeFile(path string, t *table.Table, write func(io.Writer, *table.Table) error) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	if err := write(fh, t); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
