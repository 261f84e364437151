// Package report renders repository history aggregations as terminal text,
// structured documents and interactive HTML charts.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/gitstats/pkg/history"
)

// AuthorSummary is one author's aggregate contribution.
type AuthorSummary struct {
	Name         string `json:"name" yaml:"name"`
	Email        string `json:"email" yaml:"email"`
	Commits      int    `json:"commits" yaml:"commits"`
	Insertions   int    `json:"insertions" yaml:"insertions"`
	Deletions    int    `json:"deletions" yaml:"deletions"`
	ChangedLines int    `json:"changed_lines" yaml:"changed_lines"`
}

// DateCount is a per-date data point, dates formatted as YYYY-MM-DD.
type DateCount struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

// NameCount is a labeled total, used for extension and language rollups.
type NameCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Summary is the full serializable aggregation snapshot of a Tree. All
// renderers consume it, so every format reports identical numbers.
type Summary struct {
	Project   string `json:"project" yaml:"project"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	PathScope string `json:"path_scope,omitempty" yaml:"path_scope,omitempty"`

	FirstCommit time.Time `json:"first_commit,omitzero" yaml:"first_commit,omitempty"`
	LastCommit  time.Time `json:"last_commit,omitzero" yaml:"last_commit,omitempty"`

	Commits    int `json:"commits" yaml:"commits"`
	Files      int `json:"files" yaml:"files"`
	Lines      int `json:"lines" yaml:"lines"`
	Insertions int `json:"insertions" yaml:"insertions"`
	Deletions  int `json:"deletions" yaml:"deletions"`

	Authors []AuthorSummary `json:"authors" yaml:"authors"`

	LinesByDate []DateCount `json:"lines_by_date" yaml:"lines_by_date"`
	FilesByDate []DateCount `json:"files_by_date" yaml:"files_by_date"`

	FilesByExtension []NameCount `json:"files_by_extension" yaml:"files_by_extension"`
	LinesByExtension []NameCount `json:"lines_by_extension" yaml:"lines_by_extension"`
	LinesByLanguage  []NameCount `json:"lines_by_language" yaml:"lines_by_language"`

	Activity [][]int `json:"activity" yaml:"activity"`
}

// Build assembles a Summary from the tree, forcing every aggregation it
// reports on. Snapshot-backed aggregations go through ctx.
func Build(ctx context.Context, tree *history.Tree) (*Summary, error) {
	summary := &Summary{
		Project:   tree.ProjectName(),
		Version:   tree.ProjectVersion(),
		PathScope: tree.PathScope(),
		Commits:   len(tree.Revisions()),
	}

	first, last, err := tree.CommitsPeriod()
	if err != nil && !errors.Is(err, history.ErrEmptyHistory) {
		return nil, err
	}

	if err == nil {
		summary.FirstCommit = first
		summary.LastCommit = last
	}

	for _, author := range tree.Authors() {
		summary.Authors = append(summary.Authors, AuthorSummary{
			Name:         author.Name(),
			Email:        author.Email(),
			Commits:      author.CommitsSum(),
			Insertions:   author.Insertions(),
			Deletions:    author.Deletions(),
			ChangedLines: author.ChangedLines(),
		})

		summary.Insertions += author.Insertions()
		summary.Deletions += author.Deletions()
	}

	summary.LinesByDate = dateCounts(tree.LinesCountByDate())

	filesByDate, err := tree.FilesCountByDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("files by date: %w", err)
	}

	summary.FilesByDate = dateCounts(filesByDate)

	summary.Files, err = tree.FilesCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("files count: %w", err)
	}

	summary.Lines, err = tree.LinesCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("lines count: %w", err)
	}

	filesByExt, err := tree.FilesByExtensionCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("files by extension: %w", err)
	}

	summary.FilesByExtension = nameCounts(filesByExt)

	linesByExt, err := tree.LinesByExtension(ctx)
	if err != nil {
		return nil, fmt.Errorf("lines by extension: %w", err)
	}

	summary.LinesByExtension = nameCounts(linesByExt)

	snapshot, err := tree.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	summary.LinesByLanguage = linesByLanguage(snapshot)
	summary.Activity = activityRows(tree.Activity())

	return summary, nil
}

func dateCounts(m *history.OrderedMap[history.Date, int]) []DateCount {
	out := make([]DateCount, 0, m.Len())

	for _, date := range m.Keys() {
		count, _ := m.Get(date)
		out = append(out, DateCount{Date: date.String(), Count: count})
	}

	return out
}

func nameCounts(m *history.OrderedMap[string, int]) []NameCount {
	out := make([]NameCount, 0, m.Len())

	for _, name := range m.Keys() {
		count, _ := m.Get(name)
		out = append(out, NameCount{Name: name, Count: count})
	}

	return out
}

func activityRows(activity *history.Activity) [][]int {
	matrix := activity.Matrix()

	rows := make([][]int, len(matrix))
	for day, hours := range matrix {
		rows[day] = append([]int(nil), hours[:]...)
	}

	return rows
}
