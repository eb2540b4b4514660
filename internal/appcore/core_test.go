package appcore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpa2phyloseq/internal/config"
	"mpa2phyloseq/internal/taxonomy"
	"mpa2phyloseq/pkg/api"
)

const spA = "k__Bacteria|p__Firmicutes|c__Bacilli|o__Lactobacillales|f__Lactobacillaceae|g__Lactobacillus|s__Lactobacillus_reuteri"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c, err := config.Load("", nil)
	require.NoError(t, err)
	c.Output.Dir = t.TempDir()
	c.Output.PreviewRows = 0
	return c
}

func writeInput(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "merged.txt")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestNewTarget(t *testing.T) {
	c := testConfig(t)
	tg := NewTarget(c, taxonomy.Genus, api.RunV1{RunID: "r"})
	assert.Equal(t, "genus_known", tg.Bundle)
	assert.Equal(t, filepath.Join(c.Output.Dir, "genus_known_abundance.csv"), tg.Path("abundance", ".csv"))
	assert.Equal(t, filepath.Join(c.Output.Dir, "genus_known_taxa.csv"), tg.Path("taxa", ".csv"))
	assert.Equal(t, filepath.Join(c.Output.Dir, "sample_df.csv"), tg.Path("samples", ".csv"))
}

func TestPipelineConfig(t *testing.T) {
	c := testConfig(t)
	c.Samples.Behaviours = []config.Behaviour{{Prefix: "Ctl", Label: "Control"}}
	pc := PipelineConfig(c, taxonomy.Species)
	assert.Equal(t, "ID", pc.Profile.IDColumn)
	assert.Equal(t, map[string]string{"Ctl": "Control"}, pc.Behaviours)
	assert.Equal(t, "murine", pc.SampleType)
}

func TestRun_WritesTables(t *testing.T) {
	c := testConfig(t)
	c.Output.PreviewRows = 2
	in := writeInput(t, "ID\tE1_known_profiled_metagenome\n"+spA+"\t12.5\n")

	var out, errb bytes.Buffer
	code := Run(context.Background(), &out, &errb, Options{Config: c, Inputs: []string{in}})
	require.Equal(t, ExitOK, code, errb.String())

	for _, name := range []string{"species_known_abundance.csv", "species_known_taxa.csv", "sample_df.csv"} {
		assert.FileExists(t, filepath.Join(c.Output.Dir, name))
	}
	b, err := os.ReadFile(filepath.Join(c.Output.Dir, "sample_df.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Sample,Behaviour,Type\nE1,Extinction,murine\n", string(b))
	assert.Contains(t, out.String(), "abundance (1 rows x 2 columns)")
}

func TestRun_NoMatchExitCode(t *testing.T) {
	c := testConfig(t)
	c.Taxa.Rank = "strain"
	c.Output.NoMatchExitCode = 4
	in := writeInput(t, "ID\tE1\n"+spA+"\t1\n")

	var out, errb bytes.Buffer
	assert.Equal(t, 4, Run(context.Background(), &out, &errb, Options{Config: c, Inputs: []string{in}}))
}

func TestRun_InputError(t *testing.T) {
	c := testConfig(t)
	var out, errb bytes.Buffer
	code := Run(context.Background(), &out, &errb, Options{Config: c, Inputs: []string{filepath.Join(t.TempDir(), "missing.txt")}})
	assert.Equal(t, ExitInput, code)
	assert.Contains(t, errb.String(), "error:")
}

func TestRun_Cancelled(t *testing.T) {
	c := testConfig(t)
	in := writeInput(t, "ID\tE1\n"+spA+"\t1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errb bytes.Buffer
	assert.Equal(t, ExitCancelled, Run(ctx, &out, &errb, Options{Config: c, Inputs: []string{in}}))
}

func TestRun_OutputError(t *testing.T) {
	c := testConfig(t)
	blocker := filepath.Join(c.Output.Dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	c.Output.Dir = filepath.Join(blocker, "sub")
	in := writeInput(t, "ID\tE1\n"+spA+"\t1\n")

	var out, errb bytes.Buffer
	assert.Equal(t, ExitOutput, Run(context.Background(), &out, &errb, Options{Config: c, Inputs: []string{in}}))
}

func TestPrintError_Hints(t *testing.T) {
	var b bytes.Buffer
	PrintError(&b, errors.WithHint(errors.New("boom"), "try again"))
	assert.Equal(t, "error: boom\nhint: try again\n", b.String())
}
