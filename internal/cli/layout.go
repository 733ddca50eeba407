package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/pipeline"
)

// =============================================================================
// Shared Feed & Layout Flags
// =============================================================================

// feedFlags are the flags every command that loads a feed accepts. Values
// only override the config file when the flag was given.
type feedFlags struct {
	input       string
	limit       int
	all         bool
	revs        []string
	palette     int
	firstParent bool
	noCache     bool
	refresh     bool
}

func (f *feedFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.input, "input", "", "read a feed file (JSON or git log text, - for stdin) instead of a repository")
	flags.IntVarP(&f.limit, "limit", "n", 0, "number of commits to load (default from config, 2000)")
	flags.BoolVar(&f.all, "all", false, "walk every branch and tag, not just HEAD")
	flags.StringSliceVar(&f.revs, "rev", nil, "start the walk at these revisions (repeatable)")
	flags.IntVar(&f.palette, "palette", 0, "number of lane colors")
	flags.BoolVar(&f.firstParent, "first-parent", false, "follow only the first parent of merges")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&f.refresh, "refresh", false, "reload the feed even if it is cached")
}

// apply copies the given flags onto opts and picks the feed source.
func (f *feedFlags) apply(cmd *cobra.Command, opts *pipeline.Options, args []string) {
	changed := cmd.Flags().Changed
	feedSource(opts, args, f.input)
	if changed("limit") {
		opts.Limit = f.limit
	}
	if changed("all") {
		opts.All = f.all
	}
	if changed("rev") {
		opts.Revs = f.revs
	}
	if changed("palette") {
		opts.PaletteSize = f.palette
	}
	if changed("first-parent") {
		opts.FirstParent = f.firstParent
	}
	opts.Refresh = f.refresh
}

// =============================================================================
// Layout Command
// =============================================================================

// layoutCommand creates the layout command for computing lane layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  feedFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [repo]",
		Short: "Compute the lane layout of a commit history",
		Long: `Compute the lane layout of a commit history.

The layout command walks the repository at [repo] (default: the current
directory), or reads a feed with --input, and writes the layout document:
every commit with its lane, plus the dots, lines and curves a renderer draws.
The output is the same document as 'render -f json' and can be rendered again
with 'render --layout'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts, args)
			return c.runLayout(cmd.Context(), opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <repo>.layout.json)")

	return cmd
}

// runLayout loads the feed, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Loading commits...")
	spinner.Start()

	commits, feedHit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Loading commits failed")
		return err
	}
	spinner.SetMessage(fmt.Sprintf("Laying out %d commits...", len(commits)))

	layout, layoutHit, err := runner.LayoutWithCacheInfo(ctx, commits, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = defaultBase(opts) + ".layout.json"
	}
	if outputPath == "-" {
		data, err := graph.MarshalLayout(layout)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done("layout written", "path", outputPath)

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(commits), layout.Lanes, feedHit || layoutHit)
	printNewline()
	printNextStep("Render", appName+" render --layout "+outputPath)

	return nil
}

// defaultBase names outputs after the repository directory or feed file.
func defaultBase(opts pipeline.Options) string {
	switch {
	case opts.Input == "-":
		return "stdin"
	case opts.Input != "":
		return strings.TrimSuffix(filepath.Base(opts.Input), filepath.Ext(opts.Input))
	}
	abs, err := filepath.Abs(opts.Repo)
	if err != nil {
		return "history"
	}
	return filepath.Base(abs)
}

// nopCloser wraps stdout so callers can close every output the same way.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing; - is stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
