package history

import (
	"errors"
	"fmt"
)

// ErrEmptyHistory is returned by operations that require at least one
// in-scope revision, such as Tree.CommitsPeriod.
var ErrEmptyHistory = errors.New("history: no revisions in scope")

// MalformedRevisionError reports a raw revision record that violates the
// entity invariants: negative change counts, an unparseable timestamp or a
// missing author. It is raised during ingestion and never retried.
type MalformedRevisionError struct {
	ID     string
	Reason string
}

// Error implements the error interface.
func (e *MalformedRevisionError) Error() string {
	return fmt.Sprintf("history: malformed revision %q: %s", e.ID, e.Reason)
}
