package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/gitstats/internal/config"
	"github.com/Sumatoshi-tech/gitstats/pkg/report"
)

// AuthorsCommand holds configuration for the authors command.
type AuthorsCommand struct {
	configPath string
	path       string
	scope      string
	first      string
	last       string
	backend    string
	format     string
	verbose    bool

	openSource sourceOpener
}

// NewAuthorsCommand creates the authors command.
func NewAuthorsCommand() *cobra.Command {
	return newAuthorsCommandWithDeps(openRepositorySource)
}

func newAuthorsCommandWithDeps(openSource sourceOpener) *cobra.Command {
	ac := &AuthorsCommand{openSource: openSource}

	cmd := &cobra.Command{
		Use:   "authors [path]",
		Short: "List per-author contribution statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.configPath, "config", "", "Config file path (default: .gitstats.yaml in CWD or $HOME)")
	cmd.Flags().StringVarP(&ac.path, "path", "p", config.DefaultRepositoryPath, "Repository path to analyze")
	cmd.Flags().StringVar(&ac.scope, "scope", "", "Restrict statistics to a sub-path of the repository")
	cmd.Flags().StringVar(&ac.first, "first", "", "Exclusive lower revision boundary (commit hash)")
	cmd.Flags().StringVar(&ac.last, "last", "", "Inclusive upper revision boundary (commit hash, default: HEAD)")
	cmd.Flags().StringVar(&ac.backend, "backend", config.DefaultRepositoryBackend, "Repository backend: libgit2, gogit")
	cmd.Flags().StringVar(&ac.format, "format", config.DefaultReportFormat, "Output format: text, json, yaml")
	cmd.Flags().BoolVarP(&ac.verbose, "verbose", "v", false, "Verbose progress logging")

	return cmd
}

func (ac *AuthorsCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := ac.resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), ac.verbose)

	summary, err := buildSummary(cmd.Context(), cfg, ac.openSource, logger)
	if err != nil {
		return err
	}

	return writeAuthors(summary.Authors, cfg.Report.Format, cmd.OutOrStdout())
}

func (ac *AuthorsCommand) resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.LoadConfig(ac.configPath)
	if err != nil {
		return nil, err
	}

	// The authors listing never renders charts.
	cfg.Report.Precompute = false
	cfg.Report.Output = ""

	flags := cmd.Flags()

	if flags.Changed("path") {
		cfg.Repository.Path = ac.path
	}

	if len(args) > 0 {
		cfg.Repository.Path = args[0]
	}

	if flags.Changed("scope") {
		cfg.Repository.Scope = ac.scope
	}

	if flags.Changed("first") {
		cfg.Repository.First = ac.first
	}

	if flags.Changed("last") {
		cfg.Repository.Last = ac.last
	}

	if flags.Changed("backend") {
		cfg.Repository.Backend = ac.backend
	}

	if flags.Changed("format") {
		cfg.Report.Format = ac.format
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func writeAuthors(authors []report.AuthorSummary, format string, writer io.Writer) error {
	switch format {
	case report.FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(authors)
		if err != nil {
			return fmt.Errorf("json encode: %w", err)
		}

		return nil
	case report.FormatYAML:
		data, err := yaml.Marshal(authors)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}

		_, err = writer.Write(data)
		if err != nil {
			return fmt.Errorf("yaml write: %w", err)
		}

		return nil
	case report.FormatText:
		writeAuthorsTable(authors, writer)

		return nil
	default:
		return &report.ErrUnknownFormat{Format: format}
	}
}

func writeAuthorsTable(authors []report.AuthorSummary, writer io.Writer) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Name", "Email", "Commits", "Insertions", "Deletions", "Changed"})

	for _, author := range authors {
		tbl.AppendRow(table.Row{
			author.Name,
			author.Email,
			humanize.Comma(int64(author.Commits)),
			humanize.Comma(int64(author.Insertions)),
			humanize.Comma(int64(author.Deletions)),
			humanize.Comma(int64(author.ChangedLines)),
		})
	}

	tbl.Render()
}
