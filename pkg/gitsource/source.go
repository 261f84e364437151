// Package gitsource implements the history.Source interface on top of a
// local git repository, using the gitlib libgit2 wrappers. It translates
// backend errors into plain failures; the core never sees a partial
// revision list.
package gitsource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/gitstats/pkg/gitlib"
	"github.com/Sumatoshi-tech/gitstats/pkg/history"
)

// Source reads revision history and snapshots from a git repository.
type Source struct {
	repo *gitlib.Repository
}

// Open opens the repository at the given path.
func Open(path string) (*Source, error) {
	repo, err := gitlib.OpenRepository(path)
	if err != nil {
		return nil, err
	}

	return &Source{repo: repo}, nil
}

// Path returns the repository path.
func (s *Source) Path() string {
	return s.repo.Path()
}

// Close releases the underlying repository.
func (s *Source) Close() {
	s.repo.Free()
}

// ListRevisions walks the range (first, last] oldest-first and returns one
// raw record per commit with per-file churn against the first parent.
// Commits touching nothing under scope are omitted when scope is set.
func (s *Source) ListRevisions(ctx context.Context, scope, first, last string) ([]history.RawRevision, error) {
	lastHash, err := s.resolveLast(last)
	if err != nil {
		return nil, err
	}

	walk, err := s.repo.Walk()
	if err != nil {
		return nil, err
	}
	defer walk.Free()

	pushErr := walk.Push(lastHash)
	if pushErr != nil {
		return nil, pushErr
	}

	if first != "" {
		hideErr := walk.Hide(gitlib.NewHash(first))
		if hideErr != nil {
			return nil, hideErr
		}
	}

	walk.SortOldestFirst()

	var (
		revisions []history.RawRevision
		walkErr   error
	)

	iterErr := walk.Iterate(func(commit *gitlib.Commit) bool {
		defer commit.Free()

		if ctxErr := ctx.Err(); ctxErr != nil {
			walkErr = ctxErr

			return false
		}

		raw, rawErr := s.rawRevision(commit, scope)
		if rawErr != nil {
			walkErr = rawErr

			return false
		}

		if scope != "" && len(raw.FileChanges) == 0 {
			return true
		}

		revisions = append(revisions, raw)

		return true
	})
	if iterErr != nil {
		return nil, iterErr
	}

	if walkErr != nil {
		return nil, walkErr
	}

	return revisions, nil
}

// rawRevision builds the raw record for one commit: identity, author,
// timestamp with the author's own offset, and per-file churn.
func (s *Source) rawRevision(commit *gitlib.Commit, scope string) (history.RawRevision, error) {
	author := commit.Author()

	raw := history.RawRevision{
		ID:          commit.Hash().String(),
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Timestamp:   author.When.Format(time.RFC3339),
	}

	tree, err := commit.Tree()
	if err != nil {
		return history.RawRevision{}, fmt.Errorf("commit %s: %w", raw.ID, err)
	}
	defer tree.Free()

	parentTree, err := commit.FirstParentTree()
	if err != nil {
		return history.RawRevision{}, fmt.Errorf("commit %s: %w", raw.ID, err)
	}

	if parentTree != nil {
		defer parentTree.Free()
	}

	stats, err := gitlib.DiffStats(s.repo, parentTree, tree)
	if err != nil {
		return history.RawRevision{}, fmt.Errorf("commit %s: %w", raw.ID, err)
	}

	for _, stat := range stats {
		if !underScope(stat.Path, scope) {
			continue
		}

		change := history.RawFileChange{Path: stat.Path}
		if !stat.Binary {
			insertions, deletions := stat.Insertions, stat.Deletions
			change.Insertions = &insertions
			change.Deletions = &deletions
		}

		raw.FileChanges = append(raw.FileChanges, change)
	}

	return raw, nil
}

// SnapshotFiles lists the blobs under scope at the given revision with
// their line counts. Binary blobs count zero lines but are still listed.
func (s *Source) SnapshotFiles(ctx context.Context, revisionID, scope string) ([]history.SnapshotFile, error) {
	commit, err := s.repo.LookupCommit(gitlib.NewHash(revisionID))
	if err != nil {
		return nil, err
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	defer tree.Free()

	files, err := tree.Files()
	if err != nil {
		return nil, err
	}

	snapshot := make([]history.SnapshotFile, 0, len(files))

	for _, file := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if !underScope(file.Path, scope) {
			continue
		}

		blob, blobErr := s.repo.LookupBlob(file.Hash)
		if blobErr != nil {
			return nil, blobErr
		}

		snapshot = append(snapshot, history.SnapshotFile{
			Path:      file.Path,
			LineCount: blob.LineCount(),
		})
		blob.Free()
	}

	return snapshot, nil
}

// resolveLast maps an empty boundary to HEAD.
func (s *Source) resolveLast(last string) (gitlib.Hash, error) {
	if last == "" {
		return s.repo.Head()
	}

	return gitlib.NewHash(last), nil
}

// underScope reports whether path falls under the scope sub-path. An empty
// scope matches everything.
func underScope(path, scope string) bool {
	if scope == "" {
		return true
	}

	return path == scope || strings.HasPrefix(path, scope+"/")
}
