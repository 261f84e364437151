package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/gitstats/pkg/history"
	"github.com/Sumatoshi-tech/gitstats/pkg/report"
)

type stubSource struct {
	revisions []history.RawRevision
	files     []history.SnapshotFile
}

func (s *stubSource) ListRevisions(_ context.Context, _, _, _ string) ([]history.RawRevision, error) {
	return s.revisions, nil
}

func (s *stubSource) SnapshotFiles(_ context.Context, _, _ string) ([]history.SnapshotFile, error) {
	return s.files, nil
}

func intPtr(v int) *int { return &v }

func fixtureTree(t *testing.T) *history.Tree {
	t.Helper()

	src := &stubSource{
		revisions: []history.RawRevision{
			{
				ID:          "aaa111",
				AuthorName:  "Jan Kowalski",
				AuthorEmail: "jan@example.com",
				Timestamp:   "2014-03-21T14:11:46+01:00",
				FileChanges: []history.RawFileChange{
					{Path: "lib/a.rb", Insertions: intPtr(10), Deletions: intPtr(2)},
				},
			},
			{
				ID:          "bbb222",
				AuthorName:  "Anna Nowak",
				AuthorEmail: "anna@example.com",
				Timestamp:   "2014-03-22T09:30:00+01:00",
				FileChanges: []history.RawFileChange{
					{Path: "lib/b.rb", Insertions: intPtr(5), Deletions: intPtr(1)},
					{Path: "README.md", Insertions: intPtr(3), Deletions: intPtr(0)},
				},
			},
		},
		files: []history.SnapshotFile{
			{Path: "lib/a.rb", LineCount: 8},
			{Path: "lib/b.rb", LineCount: 4},
			{Path: "README.md", LineCount: 3},
		},
	}

	tree, err := history.NewTree(context.Background(), src, history.Options{ProjectPath: "/tmp/test_repo"})
	require.NoError(t, err)

	return tree
}

func TestBuildSummary(t *testing.T) {
	t.Parallel()

	summary, err := report.Build(context.Background(), fixtureTree(t))
	require.NoError(t, err)

	assert.Equal(t, "test_repo", summary.Project)
	assert.Equal(t, "bbb222", summary.Version)
	assert.Equal(t, 2, summary.Commits)
	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, 15, summary.Lines)
	assert.Equal(t, 18, summary.Insertions)
	assert.Equal(t, 3, summary.Deletions)

	require.Len(t, summary.Authors, 2)
	assert.Equal(t, "Jan Kowalski", summary.Authors[0].Name)
	assert.Equal(t, 1, summary.Authors[0].Commits)
	assert.Equal(t, 12, summary.Authors[0].ChangedLines)

	require.Len(t, summary.LinesByDate, 2)
	assert.Equal(t, report.DateCount{Date: "2014-03-21", Count: 8}, summary.LinesByDate[0])
	assert.Equal(t, report.DateCount{Date: "2014-03-22", Count: 15}, summary.LinesByDate[1])

	require.Len(t, summary.FilesByDate, 2)
	assert.Equal(t, 3, summary.FilesByDate[1].Count)

	assert.Contains(t, summary.LinesByExtension, report.NameCount{Name: "rb", Count: 12})
	assert.Contains(t, summary.LinesByExtension, report.NameCount{Name: "md", Count: 3})

	require.NotEmpty(t, summary.LinesByLanguage)
	assert.Equal(t, report.NameCount{Name: "Ruby", Count: 12}, summary.LinesByLanguage[0])

	require.Len(t, summary.Activity, 7)
	for _, row := range summary.Activity {
		assert.Len(t, row, 24)
	}

	// Friday 14:00 local time holds the first commit.
	assert.Equal(t, 1, summary.Activity[5][14])
}

func TestBuildSummaryEmptyHistory(t *testing.T) {
	t.Parallel()

	tree, err := history.NewTree(context.Background(), &stubSource{}, history.Options{ProjectPath: "/tmp/empty"})
	require.NoError(t, err)

	summary, err := report.Build(context.Background(), tree)
	require.NoError(t, err)

	assert.Zero(t, summary.Commits)
	assert.True(t, summary.FirstCommit.IsZero())
	assert.Empty(t, summary.Authors)
	assert.Empty(t, summary.LinesByDate)
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	summary, err := report.Build(context.Background(), fixtureTree(t))
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, report.Render(summary, report.FormatJSON, &buf))

	var decoded report.Summary

	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, summary.Commits, decoded.Commits)
	assert.Equal(t, summary.Authors, decoded.Authors)
	assert.Equal(t, summary.LinesByDate, decoded.LinesByDate)
}

func TestRenderYAML(t *testing.T) {
	t.Parallel()

	summary, err := report.Build(context.Background(), fixtureTree(t))
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, report.Render(summary, report.FormatYAML, &buf))

	var decoded report.Summary

	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, summary.Project, decoded.Project)
	assert.Equal(t, summary.LinesByExtension, decoded.LinesByExtension)
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	summary, err := report.Build(context.Background(), fixtureTree(t))
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, report.Render(summary, report.FormatText, &buf))

	out := buf.String()
	assert.Contains(t, out, "test_repo")
	assert.Contains(t, out, "Jan Kowalski")
	assert.Contains(t, out, "Commits")
	assert.Contains(t, out, "2014-03-21 .. 2014-03-22")
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	summary, err := report.Build(context.Background(), fixtureTree(t))
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, report.Render(summary, report.FormatHTML, &buf))

	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Commits by Author")
	assert.Contains(t, out, "Commit Activity")
}

func TestRenderUnknownFormat(t *testing.T) {
	t.Parallel()

	err := report.Render(&report.Summary{}, "xml", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	var formatErr *report.ErrUnknownFormat

	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "xml", formatErr.Format)
}
