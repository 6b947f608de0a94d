package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"c0/internal/diag"
	"c0/internal/diagfmt"
	"c0/internal/host"
	"c0/internal/orchestrate"
	"c0/internal/project"
	"c0/internal/source"
	"c0/internal/trace"
	"c0/internal/version"
)

// Exit codes: 0 on success, 1 on any error-severity diagnostic, 2 on
// infrastructure failures (host primitives mapped to diagnostics).
const (
	exitOk    = 0
	exitDiag  = 1
	exitInfra = 2
)

var (
	buildEmitIR string
	buildFormat string
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Analyze the project and prepare its build outputs",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		start := "."
		if len(args) == 1 {
			start = args[0]
		}
		os.Exit(runBuild(cmd, start, true))
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Analyze the project without touching the toolchain",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		start := "."
		if len(args) == 1 {
			start = args[0]
		}
		os.Exit(runBuild(cmd, start, false))
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildEmitIR, "emit-ir", "", "emit LLVM IR alongside objects (ll|bc|none)")
	for _, c := range []*cobra.Command{buildCmd, checkCmd} {
		c.Flags().StringVar(&buildFormat, "format", "pretty", "diagnostic output format (pretty|json|sarif)")
	}
}

func runBuild(cmd *cobra.Command, start string, full bool) int {
	bag := diag.NewBag(1024)
	// Dedup at the reporter so the host-facing checks can re-report a
	// surface without doubling the stream.
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	fs := source.NewFileSet()

	if !validFormat(buildFormat) {
		fmt.Fprintf(cmd.ErrOrStderr(), "c0: invalid --format value %q\n", buildFormat)
		return exitInfra
	}

	root, _, err := project.FindProjectRoot(start)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "c0: %v\n", err)
		return exitInfra
	}

	manifest, ruleID, ok := project.ParseManifest(root)
	if !ok {
		diag.ReportRule(reporter, ruleID, source.Span{}, nil)
		renderDiagnostics(cmd, bag, fs)
		return exitInfra
	}
	if buildEmitIR != "" {
		if _, valid := project.ParseEmitIR(buildEmitIR); !valid {
			fmt.Fprintf(cmd.ErrOrStderr(), "c0: invalid --emit-ir value %q\n", buildEmitIR)
			return exitInfra
		}
		manifest.Build.EmitIR = buildEmitIR
	}

	spec := newSpecSink(cmd)

	// Module loading is the parser's job: an external collaborator.
	// The front end analyzes whatever module set it is handed; from
	// the CLI that set is empty until a parser is attached.
	result := orchestrate.Analyze(orchestrate.Project{Root: root}, spec)

	infra := false
	if full {
		layout := host.NewLayout(root, manifest)
		layout.CheckHygiene(reporter, manifest.Kind(), result.Plan.Modules)
		if _, ok := host.ResolveAssembler(reporter, root); !ok {
			infra = true
		}
		if _, ok := host.ResolveLinker(reporter, root); !ok {
			infra = true
		}
		if !host.CheckRuntimeLib(reporter, filepath.Join(root, manifest.RuntimeLibPath())) {
			infra = true
		}
	}

	bag.Merge(result.Bag)
	bag.Sort()
	bag.Dedup()
	renderDiagnostics(cmd, bag, fs)

	switch {
	case infra:
		return exitInfra
	case bag.HasErrors():
		return exitDiag
	default:
		return exitOk
	}
}

func validFormat(format string) bool {
	switch format {
	case "pretty", "json", "sarif":
		return true
	default:
		return false
	}
}

// renderDiagnostics writes the bag in the selected format. The summary
// banner only accompanies pretty output; json/sarif streams stay pure
// so they can be piped into tooling. --color selects colored pretty
// output (auto follows the terminal); --max-diagnostics caps json output.
func renderDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	w := cmd.OutOrStdout()
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
	useColor := !color.NoColor
	switch mode, _ := cmd.Flags().GetString("color"); mode {
	case "on":
		useColor = true
	case "off":
		useColor = false
	}
	switch buildFormat {
	case "json":
		if err := diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, Max: maxDiags}); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "c0: %v\n", err)
		}
	case "sarif":
		diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:    "c0",
			ToolVersion: version.Version,
		})
	default:
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{Color: useColor, ShowNotes: true})
		diagfmt.Summary(w, bag)
	}
}

func newSpecSink(cmd *cobra.Command) *trace.SpecSink {
	out, _ := cmd.Flags().GetString("trace")
	if out == "" {
		return nil
	}
	tracer, err := trace.New(trace.Config{
		Level:      trace.LevelDetail,
		OutputPath: out,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "c0: %v\n", err)
		return nil
	}
	return trace.NewSpecSink(tracer)
}
