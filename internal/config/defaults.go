package config

import (
	"github.com/spf13/viper"

	"mpa2phyloseq/internal/profile"
	"mpa2phyloseq/internal/taxonomy"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Input
	v.SetDefault("input.id_column", "ID")
	v.SetDefault("input.strip_suffix", profile.DefaultStripSuffix)
	v.SetDefault("input.fill_value", "")

	// Taxa
	v.SetDefault("taxa.rank", "species")
	v.SetDefault("taxa.unknown_label", taxonomy.DefaultUnknownLabel)
	v.SetDefault("taxa.otu_ids", "sequential")
	v.SetDefault("taxa.abundance_rank_only", false)

	// Samples
	v.SetDefault("samples.pattern", taxonomy.DefaultSamplePattern)
	v.SetDefault("samples.type", "murine")
	v.SetDefault("samples.behaviours", DefaultBehaviours())

	// Output
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.label", "known")
	v.SetDefault("output.format", "csv")
	v.SetDefault("output.samples_file", "sample_df")
	v.SetDefault("output.preview_rows", 5)
	v.SetDefault("output.no_match_exit_code", 0)

	// Logging
	v.SetDefault("log.json", false)
	v.SetDefault("log.quiet", false)
	v.SetDefault("log.verbose", 0)

	v.SetDefault("threads", 0)
}

// DefaultBehaviours is taxonomy.DefaultBehaviours in config form, sorted by prefix.
func DefaultBehaviours() []Behaviour {
	return []Behaviour{
		{Prefix: "E", Label: "Extinction"},
		{Prefix: "R", Label: "Resilient"},
		{Prefix: "S", Label: "Susceptible"},
	}
}
