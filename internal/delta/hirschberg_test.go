package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// wikiScores is the scoring from the wikipedia example for Hirschberg's
// algorithm.
type wikiScores struct{}

func (wikiScores) InsertScore(byte) int             { return -2 }
func (wikiScores) DeleteScore(byte) int             { return -2 }
func (wikiScores) SubstitutionScore(byte, byte) int { return -1 }
func (wikiScores) MatchScore(byte) int              { return 2 }

func TestNWScore(t *testing.T) {
	assert.Equal(t, []int{-4, -3, -2, -3, -4, -5}, nwScore([]byte("ACGC"), []byte("CGTAT"), EditDistance{}))
	assert.Equal(t, []int{-4, -3, -2, -3, -4, -5}, nwScore([]byte("AGTA"), []byte("TATGC"), EditDistance{}))

	assert.Equal(t, []int{-8, -4, 0, 1, -1, -3}, nwScore([]byte("ACGC"), []byte("CGTAT"), wikiScores{}))
	assert.Equal(t, []int{-8, -4, 0, -2, -1, -3}, nwScore([]byte("AGTA"), []byte("TATGC"), wikiScores{}))
}

// checkFindDiff verifies the edit script reconstructs new from old and
// carries exactly the expected volume of edits.
func checkFindDiff(t *testing.T, old, new string, insertedBytes, deletedBytes int) {
	t.Helper()

	diff := FindDiff([]byte(old), []byte(new), EditDistance{})
	rebuilt, err := diff.Apply([]byte(old))
	assert.NoError(t, err)
	assert.Equal(t, new, string(rebuilt))

	gotIns := 0
	for _, op := range diff.Inserts() {
		gotIns += len(op.Data)
	}
	gotDel := 0
	for _, op := range diff.Deletes() {
		gotDel += op.Length
	}
	assert.Equal(t, insertedBytes, gotIns, "inserted bytes for %q -> %q", old, new)
	assert.Equal(t, deletedBytes, gotDel, "deleted bytes for %q -> %q", old, new)
}

func TestFindDiffTrivial(t *testing.T) {
	diff := FindDiff(nil, []byte("hello"), EditDistance{})
	assert.Equal(t, []Insert{ins(0, "hello")}, diff.Inserts())
	assert.Empty(t, diff.Deletes())

	diff = FindDiff([]byte("hello"), nil, EditDistance{})
	assert.Empty(t, diff.Inserts())
	assert.Equal(t, []Delete{del(0, 5)}, diff.Deletes())

	diff = FindDiff([]byte("unchanged"), []byte("unchanged"), EditDistance{})
	assert.True(t, diff.Empty())
}

func TestFindDiffMinimal(t *testing.T) {
	// Edit volumes follow from the longest common subsequence: len(old) +
	// len(new) - 2*lcs bytes touched in total.
	checkFindDiff(t, "kitten", "kettle", 2, 2)
	checkFindDiff(t, "meadow", "yellowing", 6, 3)
	checkFindDiff(t, " I've", " I", 0, 3)
	checkFindDiff(t, " I've got a new place", " I found a new place", 4, 5)
}

func TestFindDiffLongText(t *testing.T) {
	old := "Since my baby left me I've got a new place to dwell\nI walk down a lonely street to Heartbreak Hotel."
	new := "Since my baby left me I found a new place to dwell\nDown at the end of 'Lonely Street' to 'Heartbreak Hotel.'"

	diff := FindDiff([]byte(old), []byte(new), EditDistance{})
	rebuilt, err := diff.Apply([]byte(old))
	assert.NoError(t, err)
	assert.Equal(t, new, string(rebuilt))

	// Positions within each stream must be ascending.
	inserts := diff.Inserts()
	for i := 1; i < len(inserts); i++ {
		assert.Greater(t, inserts[i].Position, inserts[i-1].Position)
	}
	deletes := diff.Deletes()
	for i := 1; i < len(deletes); i++ {
		assert.Greater(t, deletes[i].Position, deletes[i-1].Position)
	}
}

func TestFindDiffRefinesBlockDiff(t *testing.T) {
	// The block engine sees a whole-block rewrite; the refinement pins it
	// down to the single changed byte.
	old := []byte("It was the best of times")
	new := []byte("It was the rest of times")

	diff := FindDiff(old, new, EditDistance{})
	rebuilt, err := diff.Apply(old)
	assert.NoError(t, err)
	assert.Equal(t, new, rebuilt)

	total := 0
	for _, op := range diff.Inserts() {
		total += len(op.Data)
	}
	for _, op := range diff.Deletes() {
		total += op.Length
	}
	assert.Equal(t, 2, total)
}
