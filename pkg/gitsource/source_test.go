package gitsource_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitstats/pkg/gitsource"
	"github.com/Sumatoshi-tech/gitstats/pkg/history"
)

const (
	fixtureAuthor = "Test Author"
	fixtureEmail  = "author@example.com"
)

var fixtureZone = time.FixedZone("CET", 3600)

// testRepo builds throwaway repositories for adapter tests.
type testRepo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)
	t.Cleanup(repo.Free)

	return &testRepo{t: t, path: dir, native: repo}
}

func (tr *testRepo) createFile(name, content string) {
	tr.t.Helper()

	path := filepath.Join(tr.path, name)
	require.NoError(tr.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(tr.t, os.WriteFile(path, []byte(content), 0o644))
}

func (tr *testRepo) commitAt(message string, when time.Time) string {
	tr.t.Helper()

	index, err := tr.native.Index()
	require.NoError(tr.t, err)

	defer index.Free()

	require.NoError(tr.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(tr.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(tr.t, err)

	tree, err := tr.native.LookupTree(treeID)
	require.NoError(tr.t, err)

	defer tree.Free()

	sig := &git2go.Signature{Name: fixtureAuthor, Email: fixtureEmail, When: when}

	var parents []*git2go.Commit

	head, headErr := tr.native.Head()
	if headErr == nil {
		headCommit, lookupErr := tr.native.LookupCommit(head.Target())
		require.NoError(tr.t, lookupErr)

		parents = append(parents, headCommit)

		head.Free()
	}

	oid, err := tr.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(tr.t, err)

	for _, parent := range parents {
		parent.Free()
	}

	return oid.String()
}

func openSource(t *testing.T, path string) *gitsource.Source {
	t.Helper()

	src, err := gitsource.Open(path)
	require.NoError(t, err)
	t.Cleanup(src.Close)

	return src
}

func TestListRevisions_OldestFirstWithStats(t *testing.T) {
	tr := newTestRepo(t)

	base := time.Date(2014, 3, 21, 14, 11, 46, 0, fixtureZone)

	tr.createFile("a.rb", "puts 1\nputs 2\n")
	sha1 := tr.commitAt("first", base)

	tr.createFile("b.rb", "puts 3\n")
	sha2 := tr.commitAt("second", base.Add(time.Minute))

	src := openSource(t, tr.path)

	revisions, err := src.ListRevisions(context.Background(), "", "", "")
	require.NoError(t, err)
	require.Len(t, revisions, 2)

	assert.Equal(t, sha1, revisions[0].ID)
	assert.Equal(t, sha2, revisions[1].ID)
	assert.Equal(t, fixtureAuthor, revisions[0].AuthorName)
	assert.Equal(t, fixtureEmail, revisions[0].AuthorEmail)

	// The root commit introduces two lines in a.rb.
	require.Len(t, revisions[0].FileChanges, 1)
	require.NotNil(t, revisions[0].FileChanges[0].Insertions)
	assert.Equal(t, "a.rb", revisions[0].FileChanges[0].Path)
	assert.Equal(t, 2, *revisions[0].FileChanges[0].Insertions)
	assert.Equal(t, 0, *revisions[0].FileChanges[0].Deletions)

	// Timestamps carry the author's own offset.
	ts, parseErr := time.Parse(time.RFC3339, revisions[0].Timestamp)
	require.NoError(t, parseErr)
	_, offset := ts.Zone()
	assert.Equal(t, 3600, offset)
}

func TestListRevisions_FirstExclusive(t *testing.T) {
	tr := newTestRepo(t)

	base := time.Date(2014, 3, 21, 14, 0, 0, 0, fixtureZone)

	tr.createFile("a.rb", "one\n")
	sha1 := tr.commitAt("first", base)

	tr.createFile("a.rb", "one\ntwo\n")
	sha2 := tr.commitAt("second", base.Add(time.Minute))

	tr.createFile("a.rb", "one\ntwo\nthree\n")
	sha3 := tr.commitAt("third", base.Add(2*time.Minute))

	src := openSource(t, tr.path)

	revisions, err := src.ListRevisions(context.Background(), "", sha1, sha3)
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	assert.Equal(t, sha2, revisions[0].ID)
	assert.Equal(t, sha3, revisions[1].ID)
}

func TestListRevisions_ScopeExcludesUntouchedCommits(t *testing.T) {
	tr := newTestRepo(t)

	base := time.Date(2014, 3, 21, 14, 0, 0, 0, fixtureZone)

	tr.createFile("subdir/a.rb", "one\n")
	sha1 := tr.commitAt("in scope", base)

	tr.createFile("other/b.rb", "two\n")
	tr.commitAt("out of scope", base.Add(time.Minute))

	src := openSource(t, tr.path)

	revisions, err := src.ListRevisions(context.Background(), "subdir", "", "")
	require.NoError(t, err)
	require.Len(t, revisions, 1)
	assert.Equal(t, sha1, revisions[0].ID)
	require.Len(t, revisions[0].FileChanges, 1)
	assert.Equal(t, "subdir/a.rb", revisions[0].FileChanges[0].Path)
}

func TestSnapshotFiles(t *testing.T) {
	tr := newTestRepo(t)

	tr.createFile("a.rb", "one\ntwo\n")
	tr.createFile("subdir/b.rb", "three\n")
	sha := tr.commitAt("snapshot", time.Date(2014, 3, 21, 14, 0, 0, 0, fixtureZone))

	src := openSource(t, tr.path)

	files, err := src.SnapshotFiles(context.Background(), sha, "")
	require.NoError(t, err)
	require.Len(t, files, 2)

	byPath := map[string]int{}
	for _, file := range files {
		byPath[file.Path] = file.LineCount
	}

	assert.Equal(t, 2, byPath["a.rb"])
	assert.Equal(t, 1, byPath["subdir/b.rb"])

	scoped, err := src.SnapshotFiles(context.Background(), sha, "subdir")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "subdir/b.rb", scoped[0].Path)
}

func TestTreeOverLibgit2Source(t *testing.T) {
	tr := newTestRepo(t)

	base := time.Date(2014, 3, 21, 14, 11, 46, 0, fixtureZone)

	tr.createFile("a.rb", "one\ntwo\n")
	tr.commitAt("first", base)

	tr.createFile("a.rb", "one\n")
	sha2 := tr.commitAt("second", base.Add(time.Minute))

	src := openSource(t, tr.path)

	tree, err := history.NewTree(context.Background(), src, history.Options{ProjectPath: tr.path})
	require.NoError(t, err)

	first, last, err := tree.CommitsPeriod()
	require.NoError(t, err)
	assert.True(t, first.Before(last))
	assert.Equal(t, sha2, tree.ProjectVersion())

	require.Len(t, tree.Authors(), 1)
	assert.Equal(t, []int{2}, tree.CommitsCountByAuthor().Values())

	lines := tree.LinesCountByDate()
	got, ok := lines.Get(history.Date{Year: 2014, Month: time.March, Day: 21})
	require.True(t, ok)
	assert.Equal(t, 1, got) // +2 then -1

	count, err := tree.FilesCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
