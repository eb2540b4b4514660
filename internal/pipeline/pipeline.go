// internal/pipeline/pipeline.go
package pipeline

import (
	"context"

	"github.com/cockroachdb/errors"

	"mpa2phyloseq/internal/profile"
	"mpa2phyloseq/internal/table"
	"mpa2phyloseq/internal/taxonomy"
)

// Otu id modes for the taxonomy table.
const (
	OtuSequential = "sequential" // renumber Otu0.. over the rank rows
	OtuSource     = "source"     // reuse the abundance-matrix ids
)

// Table names, also used as sqlite table names and JSONL "table" values.
const (
	AbundanceName = "abundance"
	TaxaName      = "taxa"
	SamplesName   = "samples"
)

// Config controls table construction.
type Config struct {
	Rank         taxonomy.Rank
	Profile      profile.Options
	UnknownLabel string // kept at every rank; "" disables
	FillValue    string // cells missing after the outer merge

	OtuIDs            string // OtuSequential | OtuSource
	AbundanceRankOnly bool   // restrict the abundance matrix to rank rows

	SamplePattern string
	Behaviours    map[string]string
	SampleType    string

	Threads int // concurrent loaders (0 = all CPUs)
}

// Result holds the three output tables.
type Result struct {
	Abundance *table.Table
	Taxa      *table.Table
	Samples   *table.Table

	Inputs     int
	MergedRows int
}

// Tables lists the outputs in write order.
func (r *Result) Tables() []*table.Table {
	return []*table.Table{r.Abundance, r.Taxa, r.Samples}
}

// Build loads paths and derives the output tables.
func Build(ctx context.Context, cfg Config, paths []string) (*Result, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input tables")
	}
	tables, err := profile.LoadAll(ctx, paths, cfg.Profile, cfg.Threads)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := FromTables(cfg, tables)
	if err != nil {
		return nil, err
	}
	res.Inputs = len(paths)
	return res, nil
}

// FromTables runs everything after loading.
func FromTables(cfg Config, tables []*table.Table) (*Result, error) {
	if !cfg.Rank.Valid() {
		return nil, errors.Wrapf(taxonomy.ErrUnknownRank, "rank %d", int(cfg.Rank))
	}
	merged, err := table.MergeAll(tables, table.KeyColumn, cfg.FillValue)
	if err != nil {
		return nil, err
	}
	if err := table.AddOtuKey(merged); err != nil {
		return nil, err
	}

	key := merged.Index(table.KeyColumn)
	rankRows := merged.Filter(func(row []string) bool {
		return taxonomy.MatchesRank(row[key], cfg.Rank, cfg.UnknownLabel)
	})

	taxa, err := BuildTaxa(rankRows, cfg.Rank, cfg.OtuIDs)
	if err != nil {
		return nil, err
	}

	src := merged
	if cfg.AbundanceRankOnly {
		src = rankRows
	}
	abundance, err := src.Drop(table.KeyColumn)
	if err != nil {
		return nil, err
	}
	abundance.Name = AbundanceName

	samples, err := BuildSamples(abundance.Columns, cfg)
	if err != nil {
		return nil, err
	}
	return &Result{Abundance: abundance, Taxa: taxa, Samples: samples, Inputs: len(tables), MergedRows: merged.Len()}, nil
}

// BuildTaxa splits the ID column of rankRows into rank columns plus Otu.
func BuildTaxa(rankRows *table.Table, r taxonomy.Rank, otuMode string) (*table.Table, error) {
	ids, err := rankRows.Column(table.KeyColumn)
	if err != nil {
		return nil, err
	}
	var otus []string
	switch otuMode {
	case "", OtuSequential:
		otus = table.OtuIDs(len(ids))
	case OtuSource:
		if otus, err = rankRows.Column(table.OtuColumn); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Newf("unknown otu id mode %q", otuMode)
	}

	out := table.New(TaxaName, append(r.Columns(), table.OtuColumn)...)
	for i, id := range ids {
		names, err := taxonomy.SplitLineage(id, r)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		if err := out.Append(append(names, otus[i])...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// BuildSamples derives Sample/Behaviour/Type rows from abundance columns.
func BuildSamples(columns []string, cfg Config) (*table.Table, error) {
	m, err := taxonomy.NewSampleMatcher(cfg.SamplePattern)
	if err != nil {
		return nil, err
	}
	behaviours := cfg.Behaviours
	if behaviours == nil {
		behaviours = taxonomy.DefaultBehaviours()
	}
	cls := taxonomy.NewClassifier(behaviours)

	out := table.New(SamplesName, "Sample", "Behaviour", "Type")
	for _, s := range m.SampleColumns(columns) {
		if err := out.Append(s, cls.Behaviour(s), cfg.SampleType); err != nil {
			return nil, err
		}
	}
	return out, nil
}
