package integration

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"mpa2phyloseq/internal/app"
)

func TestCancelled_Exit130(t *testing.T) {
	var b strings.Builder
	b.WriteString("ID\tE1\tR2\n")
	for i := 0; i < 20000; i++ {
		b.WriteString(lin6 + "|s__sp" + strings.Repeat("x", i%7) + "\t1\t2\n")
	}
	fn := write(t, filepath.Join(t.TempDir(), "big.txt"), b.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := app.RunContext(ctx, []string{"-o", t.TempDir(), "-q", fn}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
