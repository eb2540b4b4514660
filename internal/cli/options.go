// internal/cli/options.go
package cli

import (
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"mpa2phyloseq/internal/config"
	"mpa2phyloseq/internal/pipeline"
	"mpa2phyloseq/internal/pretty"
	"mpa2phyloseq/internal/profile"
	"mpa2phyloseq/internal/taxonomy"
	"mpa2phyloseq/internal/writers"
)

// Options holds the flags that are not part of the config file.
type Options struct {
	ConfigPath string
	Version    bool
}

// Register adds every conversion flag to fs. Defaults mirror config.SetDefaults
// so that --help shows them; only flags the user changed override the config.
func Register(fs *pflag.FlagSet, o *Options) {
	fs.StringVar(&o.ConfigPath, "config", "", "config file (toml or yaml)")
	fs.BoolVar(&o.Version, "version", false, "print version and exit")

	fs.StringP("rank", "r", "species", "taxonomic rank (name or code: kingdom|phylum|class|order|family|genus|species|strain)")
	fs.String("strip-suffix", profile.DefaultStripSuffix, "suffix removed from sample column names")
	fs.String("id-column", "ID", "name of the lineage column in the inputs (MetaPhlAn4: clade_name)")
	fs.String("unknown-label", taxonomy.DefaultUnknownLabel, "unclassified row kept at every rank (empty disables)")
	fs.String("fill-value", "", "value for cells missing after the merge")
	fs.String("otu-ids", pipeline.OtuSequential, "taxa Otu ids: sequential|source")
	fs.Bool("abundance-rank-only", false, "restrict the abundance matrix to rows of the chosen rank")

	fs.String("sample-type", "murine", "value of the Type column in the sample table")
	fs.String("sample-pattern", taxonomy.DefaultSamplePattern, "regexp selecting sample columns")

	fs.StringP("out-dir", "o", ".", "output directory")
	fs.String("label", "known", "label in output file names (<rank>_<label>_abundance)")
	fs.StringP("format", "f", "csv", "output format: csv|tsv|jsonl|sqlite")
	fs.Int("preview-rows", pretty.DefaultRows, "rows of each table printed to stdout (0 disables)")
	fs.IntP("threads", "t", 0, "concurrent input loaders (0 = all CPUs)")
	fs.Int("no-match-exit-code", 0, "exit code when the taxa table is empty")

	fs.Bool("log-json", false, "log as JSON")
	fs.BoolP("quiet", "q", false, "only log warnings and errors")
	fs.CountP("verbose", "v", "debug logging")
}

// Validate checks the resolved configuration and the input list.
func Validate(c *config.Config, inputs []string) error {
	if len(inputs) == 0 {
		return errors.WithHint(errors.New("no input tables given"),
			"pass one or more merged MetaPhlAn tables, or - for stdin")
	}
	if _, err := taxonomy.ParseRank(c.Taxa.Rank); err != nil {
		return err
	}
	switch c.Taxa.OtuIDs {
	case pipeline.OtuSequential, pipeline.OtuSource:
	default:
		return errors.WithHintf(errors.Newf("invalid --otu-ids %q", c.Taxa.OtuIDs),
			"use %s or %s", pipeline.OtuSequential, pipeline.OtuSource)
	}
	if _, err := writers.Lookup(c.Output.Format); err != nil {
		return err
	}
	if _, err := regexp.Compile(c.Samples.Pattern); err != nil {
		return errors.Wrapf(err, "invalid --sample-pattern %q", c.Samples.Pattern)
	}
	if c.Input.IDColumn == "" {
		return errors.New("--id-column must not be empty")
	}
	if c.Output.Label == "" {
		return errors.New("--label must not be empty")
	}
	if c.Threads < 0 {
		return errors.Newf("--threads must be >= 0 (got %d)", c.Threads)
	}
	if c.Output.PreviewRows < 0 {
		return errors.Newf("--preview-rows must be >= 0 (got %d)", c.Output.PreviewRows)
	}
	if c.Output.NoMatchExitCode < 0 || c.Output.NoMatchExitCode > 255 {
		return errors.Newf("--no-match-exit-code must be in 0..255 (got %d)", c.Output.NoMatchExitCode)
	}
	for _, b := range c.Samples.Behaviours {
		if b.Prefix == "" {
			return errors.Newf("behaviour %q has an empty prefix", b.Label)
		}
	}
	return nil
}
