// Package history models a repository's revision history, filtered to a
// sub-path and revision range, and serves memoized aggregations over it:
// per-author, per-date, per-extension, cumulative and activity views.
package history

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// treeSequence hands out tree identities for author equality.
var treeSequence atomic.Uint64

// Options bound a Tree to a revision range and sub-path.
type Options struct {
	// PathScope restricts which files count as in-scope. Empty means the
	// whole repository.
	PathScope string
	// First is the exclusive lower range boundary; empty means full history.
	First string
	// Last is the inclusive upper boundary; empty means the most recent
	// revision known to the source.
	Last string
	// ProjectPath is the repository directory, used only for the
	// ProjectName label.
	ProjectPath string
}

// Tree is the aggregate root: an immutable, ascending-by-timestamp view of
// the in-scope revisions, their deduplicated authors, and memoized
// aggregations over them. All methods are safe for concurrent use after
// construction.
type Tree struct {
	id        uint64
	opts      Options
	src       Source
	revisions []*Revision
	authors   []*Author

	activity           cell[*Activity]
	commitsByAuthor    cell[*OrderedMap[*Author, int]]
	insertionsByAuthor cell[*OrderedMap[*Author, int]]
	deletionsByAuthor  cell[*OrderedMap[*Author, int]]
	linesCountByDate   cell[*OrderedMap[Date, int]]
	filesCountByDate   errCell[*OrderedMap[Date, int]]
	finalSnapshot      errCell[[]SnapshotFile]
	filesByExtension   errCell[*OrderedMap[string, int]]
	linesByExtension   errCell[*OrderedMap[string, int]]
}

// NewTree ingests the bounded revision range from the source in a single
// batch call and freezes it. A malformed record aborts construction with a
// *MalformedRevisionError; no partial Tree is observable.
func NewTree(ctx context.Context, src Source, opts Options) (*Tree, error) {
	opts.PathScope = strings.Trim(opts.PathScope, "/")

	raws, err := src.ListRevisions(ctx, opts.PathScope, opts.First, opts.Last)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}

	tree := &Tree{
		id:   treeSequence.Add(1),
		opts: opts,
		src:  src,
	}

	revisions := make([]*Revision, 0, len(raws))

	for _, raw := range raws {
		rev, revErr := newRevision(raw, opts.PathScope)
		if revErr != nil {
			return nil, revErr
		}

		// A scoped tree only holds revisions that touch the scope.
		if opts.PathScope != "" && len(rev.changes) == 0 {
			continue
		}

		revisions = append(revisions, rev)
	}

	sort.SliceStable(revisions, func(i, j int) bool {
		return revisions[i].timestamp.Before(revisions[j].timestamp)
	})

	tree.revisions = revisions
	tree.buildAuthors(raws)

	return tree, nil
}

// buildAuthors derives the deduplicated author set in first-encounter order
// over the ascending history and attaches the shared instance to each
// revision.
func (t *Tree) buildAuthors(raws []RawRevision) {
	identities := make(map[string]RawRevision, len(raws))
	for _, raw := range raws {
		identities[raw.ID] = raw
	}

	index := make(map[AuthorKey]*Author)

	for _, rev := range t.revisions {
		raw := identities[rev.id]
		key := AuthorKey{treeID: t.id, name: raw.AuthorName, email: raw.AuthorEmail}

		author, ok := index[key]
		if !ok {
			author = &Author{name: raw.AuthorName, email: raw.AuthorEmail, treeID: t.id}
			index[key] = author
			t.authors = append(t.authors, author)
		}

		author.revisions = append(author.revisions, rev)
		rev.author = author
	}
}

// Revisions returns all in-scope revisions ascending by timestamp.
// Callers must not mutate the returned slice.
func (t *Tree) Revisions() []*Revision {
	return t.revisions
}

// Authors returns the deduplicated authors in first-encounter order.
// Callers must not mutate the returned slice.
func (t *Tree) Authors() []*Author {
	return t.authors
}

// PathScope returns the configured sub-path, normalized.
func (t *Tree) PathScope() string {
	return t.opts.PathScope
}

// CommitsPeriod returns the earliest and latest in-scope timestamps.
// An empty Tree yields ErrEmptyHistory.
func (t *Tree) CommitsPeriod() (time.Time, time.Time, error) {
	if len(t.revisions) == 0 {
		return time.Time{}, time.Time{}, ErrEmptyHistory
	}

	return t.revisions[0].timestamp, t.revisions[len(t.revisions)-1].timestamp, nil
}

// ProjectName derives a label from the repository directory and the scope
// sub-path, e.g. "repo" or "repo/subdir".
func (t *Tree) ProjectName() string {
	name := filepath.Base(t.opts.ProjectPath)
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}

	if t.opts.PathScope == "" {
		return name
	}

	if name == "" {
		return t.opts.PathScope
	}

	return name + "/" + t.opts.PathScope
}

// ProjectVersion returns the identifier of the last in-scope revision, or
// the empty string for an empty Tree.
func (t *Tree) ProjectVersion() string {
	if len(t.revisions) == 0 {
		return ""
	}

	return t.revisions[len(t.revisions)-1].id
}

// CommitsCountByAuthor returns the revision count per author, keyed in
// first-encounter order.
func (t *Tree) CommitsCountByAuthor() *OrderedMap[*Author, int] {
	return t.commitsByAuthor.get(func() *OrderedMap[*Author, int] {
		out := NewOrderedMap[*Author, int]()
		for _, author := range t.authors {
			out.Set(author, author.CommitsSum())
		}

		return out
	})
}

// InsertionsByAuthor returns total insertions per author, keyed in
// first-encounter order.
func (t *Tree) InsertionsByAuthor() *OrderedMap[*Author, int] {
	return t.insertionsByAuthor.get(func() *OrderedMap[*Author, int] {
		out := NewOrderedMap[*Author, int]()
		for _, author := range t.authors {
			out.Set(author, author.Insertions())
		}

		return out
	})
}

// DeletionsByAuthor returns total deletions per author, keyed in
// first-encounter order.
func (t *Tree) DeletionsByAuthor() *OrderedMap[*Author, int] {
	return t.deletionsByAuthor.get(func() *OrderedMap[*Author, int] {
		out := NewOrderedMap[*Author, int]()
		for _, author := range t.authors {
			out.Set(author, author.Deletions())
		}

		return out
	})
}

// LinesCountByDate returns the running insertions-minus-deletions total at
// each calendar date with at least one revision. The raw number is
// surfaced even if deletions ever exceed insertions.
func (t *Tree) LinesCountByDate() *OrderedMap[Date, int] {
	return t.linesCountByDate.get(func() *OrderedMap[Date, int] {
		return cumulativeByDate(t.revisions, func(rev *Revision) int {
			return rev.Insertions() - rev.Deletions()
		})
	})
}

// FilesCountByDate returns, per calendar date with at least one revision,
// the in-scope file count of the snapshot as of the last revision of that
// date. One snapshot query per distinct date, memoized as a whole.
func (t *Tree) FilesCountByDate(ctx context.Context) (*OrderedMap[Date, int], error) {
	return t.filesCountByDate.get(func() (*OrderedMap[Date, int], error) {
		out := NewOrderedMap[Date, int]()

		for _, rev := range t.lastRevisionPerDate() {
			files, err := t.src.SnapshotFiles(ctx, rev.id, t.opts.PathScope)
			if err != nil {
				return nil, fmt.Errorf("snapshot files at %s: %w", rev.id, err)
			}

			out.Set(rev.Date(), len(files))
		}

		return out, nil
	})
}

// lastRevisionPerDate returns the final revision of each distinct calendar
// date, ascending.
func (t *Tree) lastRevisionPerDate() []*Revision {
	last := NewOrderedMap[Date, *Revision]()
	for _, rev := range t.revisions {
		last.Set(rev.Date(), rev)
	}

	return last.Values()
}

// snapshot returns the file listing at the last in-scope revision, fetched
// once. An empty Tree yields an empty listing without querying the source.
func (t *Tree) snapshot(ctx context.Context) ([]SnapshotFile, error) {
	return t.finalSnapshot.get(func() ([]SnapshotFile, error) {
		if len(t.revisions) == 0 {
			return nil, nil
		}

		files, err := t.src.SnapshotFiles(ctx, t.ProjectVersion(), t.opts.PathScope)
		if err != nil {
			return nil, fmt.Errorf("snapshot files at %s: %w", t.ProjectVersion(), err)
		}

		return files, nil
	})
}

// Snapshot returns the file listing at the last in-scope revision.
// Callers must not mutate the returned slice.
func (t *Tree) Snapshot(ctx context.Context) ([]SnapshotFile, error) {
	return t.snapshot(ctx)
}

// FilesCount returns the distinct-file count of the final snapshot.
func (t *Tree) FilesCount(ctx context.Context) (int, error) {
	files, err := t.snapshot(ctx)
	if err != nil {
		return 0, err
	}

	return len(files), nil
}

// LinesCount returns the total line count of the final snapshot.
func (t *Tree) LinesCount(ctx context.Context) (int, error) {
	files, err := t.snapshot(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, file := range files {
		total += file.LineCount
	}

	return total, nil
}

// FilesByExtensionCount returns the distinct tracked files of the final
// snapshot grouped by extension, in first-encounter order.
func (t *Tree) FilesByExtensionCount(ctx context.Context) (*OrderedMap[string, int], error) {
	return t.filesByExtension.get(func() (*OrderedMap[string, int], error) {
		files, err := t.snapshot(ctx)
		if err != nil {
			return nil, err
		}

		out := NewOrderedMap[string, int]()

		for _, file := range files {
			ext := Extension(file.Path)
			current, _ := out.Get(ext)
			out.Set(ext, current+1)
		}

		return out, nil
	})
}

// LinesByExtension returns total lines per extension in the final
// snapshot. Extensions whose files hold no lines are omitted.
func (t *Tree) LinesByExtension(ctx context.Context) (*OrderedMap[string, int], error) {
	return t.linesByExtension.get(func() (*OrderedMap[string, int], error) {
		files, err := t.snapshot(ctx)
		if err != nil {
			return nil, err
		}

		totals := NewOrderedMap[string, int]()

		for _, file := range files {
			ext := Extension(file.Path)
			current, _ := totals.Get(ext)
			totals.Set(ext, current+file.LineCount)
		}

		out := NewOrderedMap[string, int]()

		for _, ext := range totals.Keys() {
			lines, _ := totals.Get(ext)
			if lines > 0 {
				out.Set(ext, lines)
			}
		}

		return out, nil
	})
}

// Activity returns the day-of-week by hour-of-day commit matrix over all
// in-scope revisions, built once on first access.
func (t *Tree) Activity() *Activity {
	return t.activity.get(func() *Activity {
		return NewActivity(t.revisions)
	})
}

// Precompute warms the aggregation caches in parallel. Each aggregation is
// pure and its cache slot fills exactly once, so concurrent warming is
// safe. Snapshot-backed aggregations query the source through ctx.
func (t *Tree) Precompute(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		t.CommitsCountByAuthor()
		t.InsertionsByAuthor()
		t.DeletionsByAuthor()

		return nil
	})
	group.Go(func() error {
		t.LinesCountByDate()
		t.Activity()

		return nil
	})
	group.Go(func() error {
		_, err := t.FilesByExtensionCount(ctx)

		return err
	})
	group.Go(func() error {
		_, err := t.FilesCountByDate(ctx)

		return err
	})

	for _, author := range t.authors {
		group.Go(func() error {
			author.CommitsSumByDate()
			author.ChangedLinesByDate()
			author.Activity()

			return nil
		})
	}

	return group.Wait()
}

// Extension returns the substring after the last dot in the file name, or
// the empty string when the name has no dot.
func Extension(path string) string {
	base := filepath.Base(path)

	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return ""
	}

	return base[idx+1:]
}
