package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// FileStat is the per-file churn between two trees. Binary files carry no
// line counts.
type FileStat struct {
	Path       string
	Insertions int
	Deletions  int
	Binary     bool
}

// DiffStats computes the per-file insertion and deletion counts between two
// trees. Either tree may be nil to diff against the empty tree. Skips the
// diff entirely when both tree OIDs are equal.
func DiffStats(repo *Repository, oldTree, newTree *Tree) ([]FileStat, error) {
	if oldTree != nil && newTree != nil && oldTree.Hash() == newTree.Hash() {
		return nil, nil
	}

	diff, err := repo.DiffTreeToTree(oldTree, newTree)
	if err != nil {
		return nil, err
	}
	defer func() { _ = diff.Free() }()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("get num deltas: %w", err)
	}

	stats := make([]FileStat, 0, numDeltas)

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		stat := FileStat{Path: deltaPath(delta)}

		if delta.Flags&git2go.DiffFlagBinary != 0 {
			stat.Binary = true
			stats = append(stats, stat)

			continue
		}

		patch, patchErr := diff.Patch(i)
		if patchErr != nil {
			return nil, fmt.Errorf("get patch %d: %w", i, patchErr)
		}

		_, additions, deletions, statErr := patch.LineStats()

		freeErr := patch.Free()
		if statErr != nil {
			return nil, fmt.Errorf("patch line stats: %w", statErr)
		}

		if freeErr != nil {
			return nil, fmt.Errorf("free patch: %w", freeErr)
		}

		stat.Insertions = additions
		stat.Deletions = deletions
		stats = append(stats, stat)
	}

	return stats, nil
}

// deltaPath picks the surviving path of a delta; deletions only have the
// old side.
func deltaPath(delta git2go.DiffDelta) string {
	if delta.NewFile.Path != "" {
		return delta.NewFile.Path
	}

	return delta.OldFile.Path
}
