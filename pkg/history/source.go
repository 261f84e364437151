package history

import "context"

// RawFileChange is the per-file change stat of a raw revision record.
// Nil Insertions/Deletions signal a binary or untracked file: the change
// still counts as a file touch but contributes no line churn.
type RawFileChange struct {
	Path       string
	Insertions *int
	Deletions  *int
}

// RawRevision is one revision record as delivered by a Source, before any
// validation or entity construction.
type RawRevision struct {
	ID          string
	AuthorName  string
	AuthorEmail string
	Timestamp   string // RFC 3339 with offset.
	FileChanges []RawFileChange
}

// SnapshotFile is one tracked file in a tree snapshot at a given revision.
type SnapshotFile struct {
	Path      string
	LineCount int
}

// Source supplies raw revision history for a bounded range. Implementations
// translate backend I/O failures into an error or a complete result set;
// the core never observes partial revision lists.
type Source interface {
	// ListRevisions returns the revisions reachable from last (inclusive,
	// empty means the most recent revision) and strictly after first when
	// first is non-empty, restricted to the given path scope.
	ListRevisions(ctx context.Context, scope, first, last string) ([]RawRevision, error)

	// SnapshotFiles lists the tracked files under scope as of the given
	// revision, with their line counts.
	SnapshotFiles(ctx context.Context, revisionID, scope string) ([]SnapshotFile, error)
}
