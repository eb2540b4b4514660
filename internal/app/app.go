// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mpa2phyloseq/internal/appcore"
	"mpa2phyloseq/internal/cli"
	"mpa2phyloseq/internal/cliutil"
	"mpa2phyloseq/internal/cmdutil"
	"mpa2phyloseq/internal/config"
	"mpa2phyloseq/internal/version"
	"mpa2phyloseq/internal/writers"
)

const usageLong = `Convert merged MetaPhlAn tables into phyloseq inputs.

Reads one or more merged profile tables (merge_metaphlan_tables.py output),
outer-merges them on the lineage column and writes three tables:

  <rank>_<label>_abundance   abundance matrix, one Otu per merged row
  <rank>_<label>_taxa        lineage split into rank columns for the chosen rank
  sample_df                  sample name, behaviour group and type

Settings come from defaults, --config, MPA2PS_* environment variables and
flags, later sources winning.`

const usageExamples = `  # species tables from two pools, written to ./out
  mpa2phyloseq -o out pool1_merged.txt pool2_merged.txt

  # genus level, MetaPhlAn4 headers, one sqlite file
  mpa2phyloseq -r genus --id-column clade_name -f sqlite 'pools/*.txt'

  # reuse settings
  mpa2phyloseq config > mpa2phyloseq.toml
  mpa2phyloseq --config mpa2phyloseq.toml pool1_merged.txt`

// NewRootCmd builds the command tree. The exit code of the conversion is
// stored in *code.
func NewRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	var opts cli.Options
	root := &cobra.Command{
		Use:           "mpa2phyloseq [flags] <merged-table>...",
		Short:         "Convert merged MetaPhlAn tables into phyloseq inputs",
		Long:          usageLong,
		Example:       usageExamples,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Version {
				*code = printOut(stdout, stderr, version.Get().String()+"\n")
				return nil
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			c, err := config.Load(opts.ConfigPath, cmd.Flags())
			if err != nil {
				return err
			}
			inputs, err := cliutil.ExpandPositionals(args)
			if err != nil {
				return err
			}
			if err := cli.Validate(c, inputs); err != nil {
				return err
			}
			log := cmdutil.NewLogger(stderr, cmdutil.LogOptions{
				JSON:    c.Log.JSON,
				Quiet:   c.Log.Quiet,
				Verbose: c.Log.Verbose,
			})
			defer func() { _ = log.Sync() }()
			*code = appcore.Run(cmd.Context(), stdout, stderr, appcore.Options{
				Config: c,
				Inputs: inputs,
				Log:    log,
				Color:  isTerminal(stdout),
			})
			return nil
		},
	}
	cli.Register(root.PersistentFlags(), &opts)
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newVersionCmd(stdout, stderr, code))
	root.AddCommand(newConfigCmd(stdout, stderr, code, &opts))
	return root
}

func newVersionCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			if !asJSON {
				*code = printOut(stdout, stderr, fmt.Sprintf("%s\n  go: %s\n  platform: %s\n", info, info.GoVersion, info.Platform))
				return
			}
			b, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				appcore.PrintError(stderr, err)
				*code = appcore.ExitOutput
				return
			}
			*code = printOut(stdout, stderr, string(b)+"\n")
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newConfigCmd(stdout, stderr io.Writer, code *int, opts *cli.Options) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (TOML, usable with --config)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(opts.ConfigPath, cmd.Flags())
			if err != nil {
				return err
			}
			outw := bufio.NewWriter(stdout)
			if asYAML {
				err = config.WriteYAML(outw, c)
			} else {
				err = config.WriteTOML(outw, c)
			}
			if err == nil {
				err = outw.Flush()
			}
			if err != nil && !writers.IsBrokenPipe(err) {
				appcore.PrintError(stderr, err)
				*code = appcore.ExitOutput
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")
	return cmd
}

func printOut(stdout, stderr io.Writer, s string) int {
	if _, err := io.WriteString(stdout, s); err != nil && !writers.IsBrokenPipe(err) {
		appcore.PrintError(stderr, err)
		return appcore.ExitOutput
	}
	return appcore.ExitOK
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}

// RunContext parses argv and runs the matching command. Usage errors exit 2.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	code := appcore.ExitOK
	root := NewRootCmd(stdout, stderr, &code)
	root.SetArgs(argv)
	if err := root.ExecuteContext(parent); err != nil {
		appcore.PrintError(stderr, err)
		_, _ = fmt.Fprintf(stderr, "run '%s --help' for usage\n", root.Name())
		return appcore.ExitInput
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
