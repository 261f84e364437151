package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity_CountsInOwnTimezone(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		revisions: []RawRevision{
			// Friday 23:30 UTC+0 is Saturday 01:30 at UTC+2; each revision
			// counts in its own offset.
			{ID: "r1", AuthorName: testAuthorA, AuthorEmail: testAuthorAEmail, Timestamp: "2014-03-21T23:30:00+00:00"},
			{ID: "r2", AuthorName: testAuthorA, AuthorEmail: testAuthorAEmail, Timestamp: "2014-03-22T01:30:00+02:00"},
		},
	}

	tree := mustTree(t, src, Options{})
	activity := tree.Activity()

	assert.Equal(t, 1, activity.Count(time.Friday, 23))
	assert.Equal(t, 1, activity.Count(time.Saturday, 1))
	assert.Equal(t, 2, activity.Total())
}

func TestActivity_FixedShape(t *testing.T) {
	t.Parallel()

	activity := NewActivity(nil)
	matrix := activity.Matrix()

	require.Len(t, matrix, 7)
	for _, row := range matrix {
		require.Len(t, row, 24)
	}

	assert.Equal(t, 0, activity.Total())
}

func TestActivity_Busiest(t *testing.T) {
	t.Parallel()

	src := threeRevisionSource()
	tree := mustTree(t, src, Options{})

	// All three revisions land on Friday 14:xx (+01:00).
	day, hour := tree.Activity().Busiest()
	assert.Equal(t, time.Friday, day)
	assert.Equal(t, 14, hour)
	assert.Equal(t, 3, tree.Activity().Count(time.Friday, 14))
}

func TestActivity_PerAuthorOwnedMatrix(t *testing.T) {
	t.Parallel()

	tree := mustTree(t, threeRevisionSource(), Options{})

	alice := tree.Authors()[0]
	bob := tree.Authors()[1]

	assert.Equal(t, 2, alice.Activity().Total())
	assert.Equal(t, 1, bob.Activity().Total())
	assert.NotSame(t, alice.Activity(), bob.Activity())
}
