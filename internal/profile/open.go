// internal/profile/open.go
package profile

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// openReader opens path for reading; "-" is stdin. ".gz" and ".zst" inputs are
// decompressed transparently.
func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, errors.Wrapf(err, "gzip %s", path)
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, errors.Wrapf(err, "zstd %s", path)
		}
		return &zstdCloser{Decoder: zr, fh: fh}, nil
	}
	return fh, nil
}

type zstdCloser struct {
	*zstd.Decoder
	fh *os.File
}

func (z *zstdCloser) Close() error {
	z.Decoder.Close()
	return z.fh.Close()
}
