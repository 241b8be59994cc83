// Command samplecheck validates embedded sample projects and their
// documentation against a template sample and a declarative rule set.
// The exit code is the total number of issues found.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"samplecheck/internal/check"
	"samplecheck/internal/checks"
	"samplecheck/internal/report"
	"samplecheck/internal/rules"
	"samplecheck/internal/sample"
)

type options struct {
	rulesPath    string
	baseDir      string
	verbose      bool
	years        []int
	allowedNames []string
	runList      string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts := options{}
	exitCode := 0

	cmd := &cobra.Command{
		Use:           "samplecheck [sample-dir...]",
		Short:         "Check sample projects for consistency with the template and documentation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			exitCode, err = execute(opts, args)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.rulesPath, "rules", "samplecheck.yaml", "path to the rule-set document")
	flags.StringVar(&opts.baseDir, "base", "", "repository root (default: derived from the first sample path)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "include debug findings in reports")
	flags.IntSliceVar(&opts.years, "year", nil, "expected copyright year (repeatable)")
	flags.StringSliceVar(&opts.allowedNames, "allow-name", nil, "sample name allowed to appear in other samples (repeatable)")
	flags.StringVar(&opts.runList, "samples-manifest", "", "YAML run list of samples to check")

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return exitCode
}

func execute(opts options, args []string) (int, error) {
	log, err := newLogger(opts.verbose)
	if err != nil {
		return 1, err
	}
	defer log.Sync()
	sugar := log.Sugar()

	r, err := rules.Load(opts.rulesPath)
	if err != nil {
		return 1, err
	}

	samples, err := resolveSamples(opts, args, sugar)
	if err != nil {
		return 1, err
	}
	if len(samples) == 0 && opts.runList == "" {
		return 1, fmt.Errorf("no sample directories given")
	}

	treeRoot := opts.baseDir
	if treeRoot == "" && len(samples) > 0 {
		treeRoot = deriveTreeRoot(samples[0])
	}
	if treeRoot == "" {
		treeRoot = "."
	}
	sugar.Debugw("resolved run", "samples", len(samples), "tree_root", treeRoot)

	renderer := report.Renderer{Verbose: opts.verbose}
	totalIssues := 0

	docCtx := check.NewContext(r, treeRoot, "", sugar)
	docCtx.Verbose = opts.verbose
	check.Runner{Checks: checks.DocChecks()}.Run(docCtx)
	fmt.Print(renderer.Render("Documentation Consistency Check Report", "", docCtx.Collector.Findings()))
	totalIssues += docCtx.Collector.Summarize().Issues

	for _, samplePath := range samples {
		ctx := check.NewContext(r, treeRoot, samplePath, sugar)
		ctx.Verbose = opts.verbose
		ctx.ExpectedYears = opts.years
		ctx.AllowedNames = opts.allowedNames

		check.Runner{Checks: checks.SampleChecks()}.Run(ctx)
		fmt.Print(renderer.Render("Sample Consistency Check Report", samplePath, ctx.Collector.Findings()))
		totalIssues += ctx.Collector.Summarize().Issues
	}

	if len(samples) > 1 {
		fmt.Printf("\nChecked %d samples, %d issue(s) total\n", len(samples), totalIssues)
	}
	return totalIssues, nil
}

// resolveSamples merges the positional sample directories with the run list.
func resolveSamples(opts options, args []string, log *zap.SugaredLogger) ([]string, error) {
	seen := make(map[string]bool)
	var samples []string

	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("not a sample directory: %s", path)
		}
		if !seen[abs] {
			seen[abs] = true
			samples = append(samples, abs)
		}
		return nil
	}

	for _, arg := range args {
		if err := add(arg); err != nil {
			return nil, err
		}
	}

	if opts.runList != "" {
		listed, err := sample.ParseRunList(opts.runList, opts.baseDir, func(format string, a ...any) {
			log.Warnf(format, a...)
		})
		if err != nil {
			return nil, err
		}
		for _, path := range listed {
			if !seen[path] {
				seen[path] = true
				samples = append(samples, path)
			}
		}
	}
	return samples, nil
}

// deriveTreeRoot walks up from a sample directory to the repository root, the
// directory holding the samples tree.
func deriveTreeRoot(samplePath string) string {
	dir := samplePath
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		if filepath.Base(parent) == "samples" {
			return filepath.Dir(parent)
		}
		dir = parent
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}
