// Package commands implements CLI command handlers for gitstats.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/gitstats/internal/config"
	"github.com/Sumatoshi-tech/gitstats/pkg/gitsource"
	"github.com/Sumatoshi-tech/gitstats/pkg/history"
	"github.com/Sumatoshi-tech/gitstats/pkg/report"
)

// sourceOpener opens a history source for a backend name and repository
// path, returning a cleanup function.
type sourceOpener func(backend, path string) (history.Source, func(), error)

// ReportCommand holds configuration and dependencies for the report command.
type ReportCommand struct {
	configPath string
	path       string
	scope      string
	first      string
	last       string
	backend    string
	format     string
	output     string
	precompute bool
	verbose    bool

	openSource sourceOpener
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	return newReportCommandWithDeps(openRepositorySource)
}

func newReportCommandWithDeps(openSource sourceOpener) *cobra.Command {
	rc := &ReportCommand{openSource: openSource}

	cmd := &cobra.Command{
		Use:   "report [path]",
		Short: "Aggregate repository history into a statistics report",
		Long: "Aggregate the repository's revision history into per-author, " +
			"per-date and per-extension statistics and render them.",
		Args: cobra.MaximumNArgs(1),
		RunE: rc.run,
	}

	rc.registerFlags(cmd)

	return cmd
}

func (rc *ReportCommand) registerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rc.configPath, "config", "", "Config file path (default: .gitstats.yaml in CWD or $HOME)")
	cmd.Flags().StringVarP(&rc.path, "path", "p", config.DefaultRepositoryPath, "Repository path to analyze")
	cmd.Flags().StringVar(&rc.scope, "scope", "", "Restrict statistics to a sub-path of the repository")
	cmd.Flags().StringVar(&rc.first, "first", "", "Exclusive lower revision boundary (commit hash)")
	cmd.Flags().StringVar(&rc.last, "last", "", "Inclusive upper revision boundary (commit hash, default: HEAD)")
	cmd.Flags().StringVar(&rc.backend, "backend", config.DefaultRepositoryBackend, "Repository backend: libgit2, gogit")
	cmd.Flags().StringVar(&rc.format, "format", config.DefaultReportFormat, "Output format: text, json, yaml, html")
	cmd.Flags().StringVarP(&rc.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&rc.precompute, "precompute", config.DefaultReportPrecompute, "Warm aggregation caches in parallel")
	cmd.Flags().BoolVarP(&rc.verbose, "verbose", "v", false, "Verbose progress logging")
}

func (rc *ReportCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := rc.resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), rc.verbose)

	summary, err := buildSummary(cmd.Context(), cfg, rc.openSource, logger)
	if err != nil {
		return err
	}

	writer, closeWriter, err := openOutput(cmd.OutOrStdout(), cfg.Report.Output)
	if err != nil {
		return err
	}
	defer closeWriter()

	err = report.Render(summary, cfg.Report.Format, writer)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	logger.Info("report written", "format", cfg.Report.Format, "output", outputLabel(cfg.Report.Output))

	return nil
}

// resolveConfig loads the config file and overlays any flags the user set
// explicitly. A positional argument wins over both.
func (rc *ReportCommand) resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.LoadConfig(rc.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("path") {
		cfg.Repository.Path = rc.path
	}

	if len(args) > 0 {
		cfg.Repository.Path = args[0]
	}

	if flags.Changed("scope") {
		cfg.Repository.Scope = rc.scope
	}

	if flags.Changed("first") {
		cfg.Repository.First = rc.first
	}

	if flags.Changed("last") {
		cfg.Repository.Last = rc.last
	}

	if flags.Changed("backend") {
		cfg.Repository.Backend = rc.backend
	}

	if flags.Changed("format") {
		cfg.Report.Format = rc.format
	}

	if flags.Changed("output") {
		cfg.Report.Output = rc.output
	}

	if flags.Changed("precompute") {
		cfg.Report.Precompute = rc.precompute
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// buildSummary opens the repository, ingests the configured history slice
// and assembles the aggregation summary.
func buildSummary(
	ctx context.Context, cfg *config.Config, openSource sourceOpener, logger *slog.Logger,
) (*report.Summary, error) {
	src, cleanup, err := openSource(cfg.Repository.Backend, cfg.Repository.Path)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", cfg.Repository.Path, err)
	}
	defer cleanup()

	logger.Info("repository opened",
		"path", cfg.Repository.Path, "backend", cfg.Repository.Backend, "scope", cfg.Repository.Scope)

	tree, err := history.NewTree(ctx, src, history.Options{
		PathScope:   cfg.Repository.Scope,
		First:       cfg.Repository.First,
		Last:        cfg.Repository.Last,
		ProjectPath: cfg.Repository.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	logger.Info("history loaded", "revisions", len(tree.Revisions()), "authors", len(tree.Authors()))

	if cfg.Report.Precompute {
		err = tree.Precompute(ctx)
		if err != nil {
			return nil, fmt.Errorf("precompute aggregations: %w", err)
		}
	}

	summary, err := report.Build(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}

	return summary, nil
}

// openRepositorySource opens the backend named in the configuration.
func openRepositorySource(backend, path string) (history.Source, func(), error) {
	if backend == config.BackendGoGit {
		src, err := gitsource.OpenGoGit(path)
		if err != nil {
			return nil, nil, err
		}

		return src, func() {}, nil
	}

	src, err := gitsource.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return src, src.Close, nil
}

// openOutput returns the writer for the configured output target.
func openOutput(stdout io.Writer, output string) (io.Writer, func(), error) {
	if output == "" {
		return stdout, func() {}, nil
	}

	file, err := os.Create(output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output %s: %w", output, err)
	}

	return file, func() { _ = file.Close() }, nil
}

func outputLabel(output string) string {
	if output == "" {
		return "stdout"
	}

	return output
}

// newLogger builds the progress logger. Non-verbose runs only surface
// warnings.
func newLogger(writer io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))
}
