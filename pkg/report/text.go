package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	textMaxAuthors    = 10
	textMaxExtensions = 10
	textMaxLanguages  = 10
	textDateLayout    = "2006-01-02"
)

// WriteText writes a human-readable summary to the writer.
func WriteText(summary *Summary, writer io.Writer) error {
	heading := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Fprintln(writer, heading(summary.Project))

	if !summary.FirstCommit.IsZero() {
		fmt.Fprintf(writer, "%s .. %s\n",
			summary.FirstCommit.Format(textDateLayout),
			summary.LastCommit.Format(textDateLayout))
	}

	fmt.Fprintln(writer)

	writeTotals(summary, writer)

	if len(summary.Authors) > 0 {
		fmt.Fprintln(writer)
		fmt.Fprintln(writer, heading("Authors"))
		writeAuthors(summary, writer)
	}

	if len(summary.LinesByExtension) > 0 {
		fmt.Fprintln(writer)
		fmt.Fprintln(writer, heading("Lines by Extension"))
		writeNameCounts(summary.LinesByExtension, textMaxExtensions, writer)
	}

	if len(summary.LinesByLanguage) > 0 {
		fmt.Fprintln(writer)
		fmt.Fprintln(writer, heading("Lines by Language"))
		writeNameCounts(summary.LinesByLanguage, textMaxLanguages, writer)
	}

	return nil
}

func writeTotals(summary *Summary, writer io.Writer) {
	tbl := newTable(writer)
	tbl.AppendRow(table.Row{"Commits", humanize.Comma(int64(summary.Commits))})
	tbl.AppendRow(table.Row{"Authors", humanize.Comma(int64(len(summary.Authors)))})
	tbl.AppendRow(table.Row{"Files", humanize.Comma(int64(summary.Files))})
	tbl.AppendRow(table.Row{"Lines", humanize.Comma(int64(summary.Lines))})
	tbl.AppendRow(table.Row{"Insertions", humanize.Comma(int64(summary.Insertions))})
	tbl.AppendRow(table.Row{"Deletions", humanize.Comma(int64(summary.Deletions))})
	tbl.Render()
}

func writeAuthors(summary *Summary, writer io.Writer) {
	added := color.New(color.FgGreen).SprintFunc()
	removed := color.New(color.FgRed).SprintFunc()

	tbl := newTable(writer)
	tbl.AppendHeader(table.Row{"Name", "Email", "Commits", "+", "-"})

	shown := min(len(summary.Authors), textMaxAuthors)

	for _, author := range summary.Authors[:shown] {
		tbl.AppendRow(table.Row{
			author.Name,
			author.Email,
			humanize.Comma(int64(author.Commits)),
			added(humanize.Comma(int64(author.Insertions))),
			removed(humanize.Comma(int64(author.Deletions))),
		})
	}

	tbl.Render()

	if len(summary.Authors) > textMaxAuthors {
		fmt.Fprintf(writer, "  and %d more...\n", len(summary.Authors)-textMaxAuthors)
	}
}

func writeNameCounts(counts []NameCount, limit int, writer io.Writer) {
	tbl := newTable(writer)

	shown := min(len(counts), limit)

	for _, entry := range counts[:shown] {
		name := entry.Name
		if name == "" {
			name = "(none)"
		}

		tbl.AppendRow(table.Row{name, humanize.Comma(int64(entry.Count))})
	}

	tbl.Render()

	if len(counts) > limit {
		fmt.Fprintf(writer, "  and %d more...\n", len(counts)-limit)
	}
}

func newTable(writer io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}
