package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func stubOpener(t *testing.T) sourceOpener {
	t.Helper()

	src := &stubSource{
		revisions: []history.RawRevision{
			{
				ID:          "aaa111",
				AuthorName:  "Jan Kowalski",
				AuthorEmail: "jan@example.com",
				Timestamp:   "2014-03-21T14:11:46+01:00",
				FileChanges: []history.RawFileChange{
					{Path: "lib/a.rb", Insertions: intPtr(4), Deletions: intPtr(1)},
				},
			},
		},
		files: []history.SnapshotFile{{Path: "lib/a.rb", LineCount: 3}},
	}

	return func(_, _ string) (history.Source, func(), error) {
		return src, func() {}, nil
	}
}

func emptyConfigFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gitstats.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	return path
}

func TestReportCommandJSON(t *testing.T) {
	cmd := newReportCommandWithDeps(stubOpener(t))

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", emptyConfigFile(t), "--format", "json", "--path", "/tmp/stub_repo"})

	require.NoError(t, cmd.Execute())

	var summary report.Summary

	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "stub_repo", summary.Project)
	assert.Equal(t, 1, summary.Commits)
	require.Len(t, summary.Authors, 1)
	assert.Equal(t, "Jan Kowalski", summary.Authors[0].Name)
	assert.Equal(t, 4, summary.Authors[0].Insertions)
}

func TestReportCommandWritesOutputFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "stats.json")

	cmd := newReportCommandWithDeps(stubOpener(t))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", emptyConfigFile(t), "--format", "json", "--output", output})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var summary report.Summary

	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 1, summary.Commits)
}

func TestReportCommandRejectsUnknownFormat(t *testing.T) {
	cmd := newReportCommandWithDeps(stubOpener(t))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", emptyConfigFile(t), "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestReportCommandScopeFlag(t *testing.T) {
	src := &stubSource{}
	opener := func(_, _ string) (history.Source, func(), error) {
		return src, func() {}, nil
	}

	cmd := newReportCommandWithDeps(opener)

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", emptyConfigFile(t), "--format", "yaml", "--scope", "lib"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "path_scope: lib")
}

func TestAuthorsCommandText(t *testing.T) {
	cmd := newAuthorsCommandWithDeps(stubOpener(t))

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", emptyConfigFile(t)})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Jan Kowalski")
	assert.Contains(t, out.String(), "jan@example.com")
}

func TestAuthorsCommandJSON(t *testing.T) {
	cmd := newAuthorsCommandWithDeps(stubOpener(t))

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", emptyConfigFile(t), "--format", "json"})

	require.NoError(t, cmd.Execute())

	var authors []report.AuthorSummary

	require.NoError(t, json.Unmarshal(out.Bytes(), &authors))
	require.Len(t, authors, 1)
	assert.Equal(t, 1, authors[0].Commits)
}
