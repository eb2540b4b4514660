// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mpa2phyloseq/internal/cmdutil"
	"mpa2phyloseq/internal/config"
	"mpa2phyloseq/internal/pipeline"
	"mpa2phyloseq/internal/pretty"
	"mpa2phyloseq/internal/profile"
	"mpa2phyloseq/internal/taxonomy"
	"mpa2phyloseq/internal/version"
	"mpa2phyloseq/internal/writers"
	"mpa2phyloseq/pkg/api"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitInput     = 2
	ExitOutput    = 3
	ExitCancelled = 130
)

type Options struct {
	Config *config.Config
	Inputs []string
	Log    *zap.SugaredLogger
	Color  bool // styled preview
}

// PipelineConfig translates the resolved config for the pipeline package.
func PipelineConfig(c *config.Config, r taxonomy.Rank) pipeline.Config {
	return pipeline.Config{
		Rank: r,
		Profile: profile.Options{
			IDColumn:    c.Input.IDColumn,
			StripSuffix: c.Input.StripSuffix,
		},
		UnknownLabel:      c.Taxa.UnknownLabel,
		FillValue:         c.Input.FillValue,
		OtuIDs:            c.Taxa.OtuIDs,
		AbundanceRankOnly: c.Taxa.AbundanceRankOnly,
		SamplePattern:     c.Samples.Pattern,
		Behaviours:        c.Samples.BehaviourMap(),
		SampleType:        c.Samples.Type,
		Threads:           c.Threads,
	}
}

// NewTarget names the output files: <rank>_<label>_abundance, <rank>_<label>_taxa
// and the samples file, or <rank>_<label> for single-file formats.
func NewTarget(c *config.Config, r taxonomy.Rank, run api.RunV1) writers.Target {
	prefix := strings.ToLower(r.String()) + "_" + c.Output.Label
	return writers.Target{
		Dir:    c.Output.Dir,
		Bundle: prefix,
		Files: map[string]string{
			pipeline.AbundanceName: prefix + "_abundance",
			pipeline.TaxaName:      prefix + "_taxa",
			pipeline.SamplesName:   c.Output.SamplesFile,
		},
		Run: run,
	}
}

// PrintError writes err and any hints attached to it.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "hint: %s\n", h)
	}
}

// Run converts o.Inputs, writes the three tables and previews them on stdout.
func Run(parent context.Context, stdout, stderr io.Writer, o Options) int {
	c := o.Config
	log := o.Log
	if log == nil {
		log = cmdutil.Nop()
	}

	r, err := taxonomy.ParseRank(c.Taxa.Rank)
	if err != nil {
		PrintError(stderr, err)
		return ExitInput
	}

	run := api.RunV1{
		RunID:     uuid.NewString(),
		Version:   version.Version,
		Rank:      r.String(),
		Label:     c.Output.Label,
		Inputs:    o.Inputs,
		CreatedAt: time.Now().UTC(),
	}
	log = log.With("run_id", run.RunID)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	log.Debugw("loading inputs", "inputs", o.Inputs, "rank", r.String(), "threads", c.Threads)
	res, err := pipeline.Build(ctx, PipelineConfig(c, r), o.Inputs)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ExitCancelled
		}
		PrintError(stderr, err)
		return ExitInput
	}
	log.Infow("merged inputs",
		"inputs", res.Inputs,
		"rows", res.MergedRows,
		"rank_rows", res.Taxa.Len(),
		"samples", res.Samples.Len(),
	)
	if res.Taxa.Len() == 0 {
		log.Warnw("no rows at rank", "rank", r.String())
	}

	paths, err := writers.WriteAll(ctx, c.Output.Format, res.Tables(), NewTarget(c, r, run))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ExitCancelled
		}
		PrintError(stderr, err)
		return ExitOutput
	}
	for _, p := range paths {
		log.Infow("wrote", "path", p)
	}

	outw := bufio.NewWriter(stdout)
	pretty.SetColor(o.Color)
	perr := pretty.Preview(outw, res.Tables(), c.Output.PreviewRows)
	if perr == nil {
		perr = outw.Flush()
	}
	if perr != nil && !writers.IsBrokenPipe(perr) {
		PrintError(stderr, errors.Wrap(perr, "write preview"))
		return ExitOutput
	}

	if res.Taxa.Len() == 0 {
		return c.Output.NoMatchExitCode
	}
	return ExitOK
}
