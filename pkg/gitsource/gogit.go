package gitsource

import (
	"context"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"

	"github.com/Sumatoshi-tech/gitstats/pkg/history"
)

// GoGit is a pure-Go history.Source backed by go-git. It trades the speed
// of the libgit2 Source for a build without cgo.
type GoGit struct {
	repo *git.Repository
	path string
}

// OpenGoGit opens the repository at the given path with go-git.
func OpenGoGit(path string) (*GoGit, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &GoGit{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (s *GoGit) Path() string {
	return s.path
}

// ListRevisions walks last back to the root, drops first and its
// ancestors, and returns the rest oldest-first. Binary files
// appear in go-git stats with zero churn, so they are reported with
// explicit zero counts rather than nil.
func (s *GoGit) ListRevisions(ctx context.Context, scope, first, last string) ([]history.RawRevision, error) {
	from, err := s.resolveLast(last)
	if err != nil {
		return nil, err
	}

	excluded, err := s.ancestorSet(first)
	if err != nil {
		return nil, err
	}

	iter, err := s.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	defer iter.Close()

	var revisions []history.RawRevision

	iterErr := iter.ForEach(func(commit *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if _, skip := excluded[commit.Hash]; skip {
			return nil
		}

		raw, rawErr := s.rawRevision(commit, scope)
		if rawErr != nil {
			return rawErr
		}

		if scope != "" && len(raw.FileChanges) == 0 {
			return nil
		}

		revisions = append(revisions, raw)

		return nil
	})
	if iterErr != nil {
		return nil, fmt.Errorf("walk revisions: %w", iterErr)
	}

	reverse(revisions)

	return revisions, nil
}

func (s *GoGit) rawRevision(commit *object.Commit, scope string) (history.RawRevision, error) {
	raw := history.RawRevision{
		ID:          commit.Hash.String(),
		AuthorName:  commit.Author.Name,
		AuthorEmail: commit.Author.Email,
		Timestamp:   commit.Author.When.Format(time.RFC3339),
	}

	stats, err := commit.Stats()
	if err != nil {
		return history.RawRevision{}, fmt.Errorf("commit %s stats: %w", raw.ID, err)
	}

	for _, stat := range stats {
		if !underScope(stat.Name, scope) {
			continue
		}

		insertions, deletions := stat.Addition, stat.Deletion
		raw.FileChanges = append(raw.FileChanges, history.RawFileChange{
			Path:       stat.Name,
			Insertions: &insertions,
			Deletions:  &deletions,
		})
	}

	return raw, nil
}

// SnapshotFiles lists the blobs under scope at the given revision with
// their line counts. Binary blobs count zero lines but are still listed.
func (s *GoGit) SnapshotFiles(ctx context.Context, revisionID, scope string) ([]history.SnapshotFile, error) {
	commit, err := s.repo.CommitObject(plumbing.NewHash(revisionID))
	if err != nil {
		return nil, fmt.Errorf("lookup commit %s: %w", revisionID, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("commit tree: %w", err)
	}

	var snapshot []history.SnapshotFile

	iterErr := tree.Files().ForEach(func(file *object.File) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !underScope(file.Name, scope) {
			return nil
		}

		lineCount, countErr := fileLineCount(file)
		if countErr != nil {
			return countErr
		}

		snapshot = append(snapshot, history.SnapshotFile{
			Path:      file.Name,
			LineCount: lineCount,
		})

		return nil
	})
	if iterErr != nil {
		return nil, fmt.Errorf("walk snapshot: %w", iterErr)
	}

	return snapshot, nil
}

func fileLineCount(file *object.File) (int, error) {
	binary, err := file.IsBinary()
	if err != nil {
		return 0, fmt.Errorf("classify %s: %w", file.Name, err)
	}

	if binary || file.Size == 0 {
		return 0, nil
	}

	lines, err := file.Lines()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", file.Name, err)
	}

	return len(lines), nil
}

// ancestorSet collects first and every commit reachable from it, so the
// main walk can exclude them the way git treats first..last ranges. Side
// branches merged after first stay in.
func (s *GoGit) ancestorSet(first string) (map[plumbing.Hash]struct{}, error) {
	if first == "" {
		return nil, nil
	}

	iter, err := s.repo.Log(&git.LogOptions{From: plumbing.NewHash(first)})
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", first, err)
	}
	defer iter.Close()

	excluded := make(map[plumbing.Hash]struct{})

	iterErr := iter.ForEach(func(commit *object.Commit) error {
		excluded[commit.Hash] = struct{}{}

		return nil
	})
	if iterErr != nil {
		return nil, fmt.Errorf("walk excluded revisions: %w", iterErr)
	}

	return excluded, nil
}

func (s *GoGit) resolveLast(last string) (plumbing.Hash, error) {
	if last != "" {
		return plumbing.NewHash(last), nil
	}

	head, err := s.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve HEAD: %w", err)
	}

	return head.Hash(), nil
}

func reverse(revisions []history.RawRevision) {
	for i, j := 0, len(revisions)-1; i < j; i, j = i+1, j-1 {
		revisions[i], revisions[j] = revisions[j], revisions[i]
	}
}
