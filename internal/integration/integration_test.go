// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"mpa2phyloseq/internal/app"
)

const (
	lin6 = "k__Bacteria|p__Firmicutes|c__Bacilli|o__Lactobacillales|f__Lactobacillaceae|g__Lactobacillus"
	spA  = lin6 + "|s__Lactobacillus_reuteri"
	spB  = lin6 + "|s__Lactobacillus_murinus"
)

func write(t *testing.T, fn, data string) string {
	t.Helper()
	if err := os.WriteFile(fn, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

func inputs(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	return []string{
		write(t, filepath.Join(dir, "pool1.txt"),
			"#mpa_v30_CHOCOPhlAn_201901\n"+
				"ID\tE1_known_profiled_metagenome\tR2_known_profiled_metagenome\n"+
				"UNKNOWN\t5\t6\n"+
				lin6+"\t90\t80\n"+
				spA+"\t90\t80\n"),
		write(t, filepath.Join(dir, "pool2.txt"),
			"ID\tS3_known_profiled_metagenome\n"+
				spB+"\t40\n"),
	}
}

func run(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestEndToEnd_CSVDefaults(t *testing.T) {
	dir := t.TempDir()
	code, out, errs := run(t, append([]string{"-o", dir, "-q"}, inputs(t)...)...)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errs)
	}
	if !strings.Contains(out, "taxa (3 rows x 8 columns)") {
		t.Fatalf("expected preview, got:\n%s", out)
	}

	wantAbundance := "E1,R2,S3,Otu\n" +
		"5,6,,Otu0\n" +
		"90,80,,Otu1\n" +
		",,40,Otu2\n" +
		"90,80,,Otu3\n"
	if got := readFile(t, filepath.Join(dir, "species_known_abundance.csv")); got != wantAbundance {
		t.Fatalf("abundance:\n%s\nwant:\n%s", got, wantAbundance)
	}

	wantTaxa := "Kingdom,Phylum,Class,Order,Family,Genus,Species,Otu\n" +
		"UNKNOWN,,,,,,,Otu0\n" +
		"Bacteria,Firmicutes,Bacilli,Lactobacillales,Lactobacillaceae,Lactobacillus,Lactobacillus_murinus,Otu1\n" +
		"Bacteria,Firmicutes,Bacilli,Lactobacillales,Lactobacillaceae,Lactobacillus,Lactobacillus_reuteri,Otu2\n"
	if got := readFile(t, filepath.Join(dir, "species_known_taxa.csv")); got != wantTaxa {
		t.Fatalf("taxa:\n%s\nwant:\n%s", got, wantTaxa)
	}

	wantSamples := "Sample,Behaviour,Type\n" +
		"E1,Extinction,murine\n" +
		"R2,Resilient,murine\n" +
		"S3,Susceptible,murine\n"
	if got := readFile(t, filepath.Join(dir, "sample_df.csv")); got != wantSamples {
		t.Fatalf("samples:\n%s\nwant:\n%s", got, wantSamples)
	}
}

func TestGenusTSVWithEnvLabel(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MPA2PS_OUTPUT_LABEL", "pooled")
	code, _, errs := run(t, append([]string{"-o", dir, "-r", "g", "-f", "tsv", "--preview-rows", "0", "-q"}, inputs(t)...)...)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errs)
	}
	got := readFile(t, filepath.Join(dir, "genus_pooled_taxa.tsv"))
	if !strings.HasPrefix(got, "Kingdom\tPhylum\tClass\tOrder\tFamily\tGenus\tOtu\n") {
		t.Fatalf("genus taxa header: %q", got)
	}
	if n := strings.Count(got, "\n"); n != 3 {
		t.Fatalf("expected header + UNKNOWN + one genus, got %d lines:\n%s", n, got)
	}
}

func TestSQLiteBundle(t *testing.T) {
	dir := t.TempDir()
	code, _, errs := run(t, append([]string{"-o", dir, "-f", "sqlite", "--preview-rows", "0", "-q"}, inputs(t)...)...)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errs)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "species_known.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "taxa"`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("taxa rows = %d, want 3", n)
	}
	var rank string
	if err := db.QueryRow(`SELECT rank FROM runs`).Scan(&rank); err != nil {
		t.Fatal(err)
	}
	if rank != "Species" {
		t.Fatalf("run rank = %q", rank)
	}
}

func TestUnknownFormat_Exit2(t *testing.T) {
	code, _, errs := run(t, append([]string{"-o", t.TempDir(), "-f", "xlsx"}, inputs(t)...)...)
	if code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
	if !strings.Contains(errs, `unknown table format "xlsx"`) || !strings.Contains(errs, "hint:") {
		t.Fatalf("stderr: %s", errs)
	}
}

func TestUsageErrors_Exit2(t *testing.T) {
	if code, _, _ := run(t, "--no-such-flag", "x.txt"); code != 2 {
		t.Fatalf("unknown flag: exit %d", code)
	}
	if code, _, errs := run(t, "-o", t.TempDir(), filepath.Join(t.TempDir(), "missing.txt")); code != 2 {
		t.Fatalf("missing input: exit %d (%s)", code, errs)
	}
}

func TestNoMatchExitCode(t *testing.T) {
	code, _, _ := run(t, append([]string{"-o", t.TempDir(), "-r", "strain", "--unknown-label", "",
		"--no-match-exit-code", "7", "-q"}, inputs(t)...)...)
	if code != 7 {
		t.Fatalf("exit %d, want 7", code)
	}
}

func TestHelpAndVersion(t *testing.T) {
	code, out, _ := run(t)
	if code != 0 || !strings.Contains(out, "Usage:") {
		t.Fatalf("no args: exit %d, out=%s", code, out)
	}

	code, out, _ = run(t, "version", "--json")
	if code != 0 {
		t.Fatalf("version exit %d", code)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version json: %v\n%s", err, out)
	}
	if info["version"] == "" {
		t.Fatalf("missing version: %v", info)
	}

	code, out, _ = run(t, "--version")
	if code != 0 || !strings.HasPrefix(out, "mpa2phyloseq ") {
		t.Fatalf("--version: exit %d out=%q", code, out)
	}
}

func TestConfigCommand(t *testing.T) {
	code, out, errs := run(t, "config", "--yaml", "--rank", "genus")
	if code != 0 {
		t.Fatalf("config exit %d: %s", code, errs)
	}
	if !strings.Contains(out, "rank: genus") {
		t.Fatalf("config yaml:\n%s", out)
	}

	code, out, _ = run(t, "config")
	if code != 0 || !strings.Contains(out, "[taxa]") {
		t.Fatalf("config toml: exit %d\n%s", code, out)
	}
}
