package history

import "strings"

// AuthorKey is the comparable identity of an author: the owning tree plus
// the exact name and email. Whitespace or case differences make distinct
// authors; there is no fuzzy merging of near-duplicate identities.
type AuthorKey struct {
	treeID uint64
	name   string
	email  string
}

// Author is a contributor derived from a Tree's revisions. Authors are
// never constructed independently: the Tree deduplicates them by AuthorKey
// while ingesting, keeping the instance tied to the earliest revision.
type Author struct {
	name      string
	email     string
	treeID    uint64
	revisions []*Revision

	activity                cell[*Activity]
	commitsSumByDate        cell[*OrderedMap[Date, int]]
	insertionsByDate        cell[*OrderedMap[Date, int]]
	deletionsByDate         cell[*OrderedMap[Date, int]]
	changedLinesByDate      cell[*OrderedMap[Date, int]]
	totalInsertionsByDate   cell[*OrderedMap[Date, int]]
	totalDeletionsByDate    cell[*OrderedMap[Date, int]]
	totalChangedLinesByDate cell[*OrderedMap[Date, int]]
}

// Name returns the author display name.
func (a *Author) Name() string {
	return a.name
}

// Email returns the author email.
func (a *Author) Email() string {
	return a.email
}

// Key returns the comparable identity of this author for map use.
func (a *Author) Key() AuthorKey {
	return AuthorKey{treeID: a.treeID, name: a.name, email: a.email}
}

// Equal reports structural equality: same owning tree, name and email.
func (a *Author) Equal(other *Author) bool {
	if other == nil {
		return false
	}

	return a.Key() == other.Key()
}

// Dirname returns a filesystem-friendly label derived from the name.
func (a *Author) Dirname() string {
	return strings.Join(strings.Fields(strings.ToLower(a.name)), "_")
}

// Commits returns this author's revisions in ascending timestamp order.
// Callers must not mutate the returned slice.
func (a *Author) Commits() []*Revision {
	return a.revisions
}

// CommitsSum returns the number of revisions by this author.
func (a *Author) CommitsSum() int {
	return len(a.revisions)
}

// Insertions returns the total insertions across this author's revisions.
func (a *Author) Insertions() int {
	total := 0
	for _, rev := range a.revisions {
		total += rev.Insertions()
	}

	return total
}

// Deletions returns the total deletions across this author's revisions.
func (a *Author) Deletions() int {
	total := 0
	for _, rev := range a.revisions {
		total += rev.Deletions()
	}

	return total
}

// ChangedLines returns insertions plus deletions across this author's
// revisions.
func (a *Author) ChangedLines() int {
	return a.Insertions() + a.Deletions()
}

// CommitsSumByDate returns the running commit count at each calendar date
// on which this author committed. Last revision of a date wins.
func (a *Author) CommitsSumByDate() *OrderedMap[Date, int] {
	return a.commitsSumByDate.get(func() *OrderedMap[Date, int] {
		return cumulativeByDate(a.revisions, func(*Revision) int { return 1 })
	})
}

// InsertionsByDate returns insertions summed per calendar date.
func (a *Author) InsertionsByDate() *OrderedMap[Date, int] {
	return a.insertionsByDate.get(func() *OrderedMap[Date, int] {
		return perDateSum(a.revisions, (*Revision).Insertions)
	})
}

// DeletionsByDate returns deletions summed per calendar date.
func (a *Author) DeletionsByDate() *OrderedMap[Date, int] {
	return a.deletionsByDate.get(func() *OrderedMap[Date, int] {
		return perDateSum(a.revisions, (*Revision).Deletions)
	})
}

// ChangedLinesByDate returns changed lines summed per calendar date.
func (a *Author) ChangedLinesByDate() *OrderedMap[Date, int] {
	return a.changedLinesByDate.get(func() *OrderedMap[Date, int] {
		return perDateSum(a.revisions, (*Revision).ChangedLines)
	})
}

// TotalInsertionsByDate returns the cumulative insertion count at each
// calendar date this author committed on.
func (a *Author) TotalInsertionsByDate() *OrderedMap[Date, int] {
	return a.totalInsertionsByDate.get(func() *OrderedMap[Date, int] {
		return cumulativeByDate(a.revisions, (*Revision).Insertions)
	})
}

// TotalDeletionsByDate returns the cumulative deletion count at each
// calendar date this author committed on.
func (a *Author) TotalDeletionsByDate() *OrderedMap[Date, int] {
	return a.totalDeletionsByDate.get(func() *OrderedMap[Date, int] {
		return cumulativeByDate(a.revisions, (*Revision).Deletions)
	})
}

// TotalChangedLinesByDate returns the cumulative changed-line count at each
// calendar date this author committed on.
func (a *Author) TotalChangedLinesByDate() *OrderedMap[Date, int] {
	return a.totalChangedLinesByDate.get(func() *OrderedMap[Date, int] {
		return cumulativeByDate(a.revisions, (*Revision).ChangedLines)
	})
}

// Activity returns the day-of-week by hour-of-day commit matrix for this
// author, built once on first access.
func (a *Author) Activity() *Activity {
	return a.activity.get(func() *Activity {
		return NewActivity(a.revisions)
	})
}
