package history

import (
	"strings"
	"time"
)

// FileChangeStat is the per-file change within one revision. Binary files
// are reported with zero insertions and deletions but still count as a
// file touch.
type FileChangeStat struct {
	Path       string
	Insertions int
	Deletions  int
	Binary     bool
}

// Revision is one atomic recorded change in the history. It is immutable
// once constructed; identity is the ID string alone.
type Revision struct {
	id        string
	author    *Author
	timestamp time.Time
	changes   []FileChangeStat
}

// ID returns the content-addressed hash identifier.
func (r *Revision) ID() string {
	return r.id
}

// Author returns the deduplicated author of this revision.
func (r *Revision) Author() *Author {
	return r.author
}

// Timestamp returns the revision timestamp with its original offset.
func (r *Revision) Timestamp() time.Time {
	return r.timestamp
}

// Date returns the calendar date of the timestamp in its own timezone.
func (r *Revision) Date() Date {
	return DateOf(r.timestamp)
}

// Changes returns the in-scope file change stats, in retrieval order.
// Callers must not mutate the returned slice.
func (r *Revision) Changes() []FileChangeStat {
	return r.changes
}

// Insertions returns the total insertions across all in-scope changes.
func (r *Revision) Insertions() int {
	total := 0
	for _, change := range r.changes {
		total += change.Insertions
	}

	return total
}

// Deletions returns the total deletions across all in-scope changes.
func (r *Revision) Deletions() int {
	total := 0
	for _, change := range r.changes {
		total += change.Deletions
	}

	return total
}

// ChangedLines returns insertions plus deletions across all in-scope changes.
func (r *Revision) ChangedLines() int {
	return r.Insertions() + r.Deletions()
}

// newRevision validates a raw record and builds a Revision with its file
// changes filtered to the given path scope. The author reference is
// attached later, during Tree construction.
func newRevision(raw RawRevision, scope string) (*Revision, error) {
	if raw.AuthorName == "" && raw.AuthorEmail == "" {
		return nil, &MalformedRevisionError{ID: raw.ID, Reason: "missing author"}
	}

	timestamp, err := time.Parse(time.RFC3339, raw.Timestamp)
	if err != nil {
		return nil, &MalformedRevisionError{ID: raw.ID, Reason: "unparseable timestamp " + raw.Timestamp}
	}

	changes := make([]FileChangeStat, 0, len(raw.FileChanges))

	for _, fc := range raw.FileChanges {
		binary := fc.Insertions == nil || fc.Deletions == nil

		// Negative counts invalidate the whole record, even when the
		// file falls outside the scope.
		if !binary && (*fc.Insertions < 0 || *fc.Deletions < 0) {
			return nil, &MalformedRevisionError{ID: raw.ID, Reason: "negative change count for " + fc.Path}
		}

		if !inScope(fc.Path, scope) {
			continue
		}

		change := FileChangeStat{Path: fc.Path, Binary: binary}
		if !binary {
			change.Insertions = *fc.Insertions
			change.Deletions = *fc.Deletions
		}

		changes = append(changes, change)
	}

	return &Revision{id: raw.ID, timestamp: timestamp, changes: changes}, nil
}

// inScope reports whether path falls under the scope sub-path. An empty
// scope matches everything.
func inScope(path, scope string) bool {
	if scope == "" {
		return true
	}

	return path == scope || strings.HasPrefix(path, scope+"/")
}
