// Package config loads mpa2phyloseq settings from defaults, an optional
// TOML/YAML file, MPA2PS_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable (MPA2PS_INPUT_ID_COLUMN).
const EnvPrefix = "MPA2PS"

type Config struct {
	Input   InputConfig   `mapstructure:"input" toml:"input" yaml:"input"`
	Taxa    TaxaConfig    `mapstructure:"taxa" toml:"taxa" yaml:"taxa"`
	Samples SamplesConfig `mapstructure:"samples" toml:"samples" yaml:"samples"`
	Output  OutputConfig  `mapstructure:"output" toml:"output" yaml:"output"`
	Log     LogConfig     `mapstructure:"log" toml:"log" yaml:"log"`
	Threads int           `mapstructure:"threads" toml:"threads" yaml:"threads"`
}

type InputConfig struct {
	IDColumn    string `mapstructure:"id_column" toml:"id_column" yaml:"id_column"`
	StripSuffix string `mapstructure:"strip_suffix" toml:"strip_suffix" yaml:"strip_suffix"`
	FillValue   string `mapstructure:"fill_value" toml:"fill_value" yaml:"fill_value"`
}

type TaxaConfig struct {
	Rank              string `mapstructure:"rank" toml:"rank" yaml:"rank"`
	UnknownLabel      string `mapstructure:"unknown_label" toml:"unknown_label" yaml:"unknown_label"`
	OtuIDs            string `mapstructure:"otu_ids" toml:"otu_ids" yaml:"otu_ids"`
	AbundanceRankOnly bool   `mapstructure:"abundance_rank_only" toml:"abundance_rank_only" yaml:"abundance_rank_only"`
}

type SamplesConfig struct {
	Pattern    string      `mapstructure:"pattern" toml:"pattern" yaml:"pattern"`
	Type       string      `mapstructure:"type" toml:"type" yaml:"type"`
	Behaviours []Behaviour `mapstructure:"behaviours" toml:"behaviours" yaml:"behaviours"`
}

// Behaviour labels samples whose name starts with Prefix. A list rather than a
// map because viper lower-cases map keys.
type Behaviour struct {
	Prefix string `mapstructure:"prefix" toml:"prefix" yaml:"prefix"`
	Label  string `mapstructure:"label" toml:"label" yaml:"label"`
}

// BehaviourMap converts the configured list for the classifier.
func (s SamplesConfig) BehaviourMap() map[string]string {
	m := make(map[string]string, len(s.Behaviours))
	for _, b := range s.Behaviours {
		m[b.Prefix] = b.Label
	}
	return m
}

type OutputConfig struct {
	Dir             string `mapstructure:"dir" toml:"dir" yaml:"dir"`
	Label           string `mapstructure:"label" toml:"label" yaml:"label"`
	Format          string `mapstructure:"format" toml:"format" yaml:"format"`
	SamplesFile     string `mapstructure:"samples_file" toml:"samples_file" yaml:"samples_file"`
	PreviewRows     int    `mapstructure:"preview_rows" toml:"preview_rows" yaml:"preview_rows"`
	NoMatchExitCode int    `mapstructure:"no_match_exit_code" toml:"no_match_exit_code" yaml:"no_match_exit_code"`
}

type LogConfig struct {
	JSON    bool `mapstructure:"json" toml:"json" yaml:"json"`
	Quiet   bool `mapstructure:"quiet" toml:"quiet" yaml:"quiet"`
	Verbose int  `mapstructure:"verbose" toml:"verbose" yaml:"verbose"`
}

// FlagKeys maps command-line flag names to config keys.
var FlagKeys = map[string]string{
	"id-column":           "input.id_column",
	"strip-suffix":        "input.strip_suffix",
	"fill-value":          "input.fill_value",
	"rank":                "taxa.rank",
	"unknown-label":       "taxa.unknown_label",
	"otu-ids":             "taxa.otu_ids",
	"abundance-rank-only": "taxa.abundance_rank_only",
	"sample-pattern":      "samples.pattern",
	"sample-type":         "samples.type",
	"out-dir":             "output.dir",
	"label":               "output.label",
	"format":              "output.format",
	"preview-rows":        "output.preview_rows",
	"no-match-exit-code":  "output.no_match_exit_code",
	"log-json":            "log.json",
	"quiet":               "log.quiet",
	"verbose":             "log.verbose",
	"threads":             "threads",
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the optional config file and binds flags (changed flags win).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yml", ".yaml":
			v.SetConfigType("yaml")
		default:
			v.SetConfigType("toml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind --%s", name)
				}
			}
		}
	}
	return Unmarshal(v)
}

// Unmarshal decodes v into a Config.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &c, nil
}
