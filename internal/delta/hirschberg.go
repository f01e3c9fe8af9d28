package delta

import "bytes"

// Scorer weighs the edit operations considered by FindDiff. Scores are
// negative costs: higher is better.
type Scorer interface {
	InsertScore(c byte) int
	DeleteScore(c byte) int
	SubstitutionScore(old, new byte) int
	MatchScore(c byte) int
}

// EditDistance scores operations as the classical edit distance: inserts
// and deletes cost 1, a substitution costs 2 (an insert plus a delete)
// and a match is free.
type EditDistance struct{}

func (EditDistance) InsertScore(byte) int             { return -1 }
func (EditDistance) DeleteScore(byte) int             { return -1 }
func (EditDistance) SubstitutionScore(byte, byte) int { return -2 }
func (EditDistance) MatchScore(byte) int              { return 0 }

// FindDiff computes the minimal byte-level edit script that transforms
// old into new, using the Hirschberg algorithm in O(len(old)*len(new))
// time and O(len(new)) space. The weight of each operation is decided by
// the scorer. The result uses the same position convention as the block
// engine, so Apply(old) reconstructs new.
//
// A typical use is refining the coarse block-granular diff produced by
// DiffAndUpdate down to individual bytes.
func FindDiff(old, new []byte, scorer Scorer) *Diff {
	st := &editState{diff: &Diff{}}
	hirschberg(old, new, reverse(old), reverse(new), scorer, st)
	return st.diff
}

// editState carries the diff being built and the current offset into the
// old sequence. Inserts attach at the current offset without advancing
// it; deletes and matches consume old bytes.
type editState struct {
	diff   *Diff
	oldPos int
}

func (st *editState) insert(data []byte) {
	if len(data) == 0 {
		return
	}
	st.diff.addInsert(st.oldPos, append([]byte(nil), data...))
}

func (st *editState) delete(length int) {
	st.diff.addDelete(st.oldPos, length)
	st.oldPos += length
}

func (st *editState) match() {
	st.oldPos++
}

// hirschberg recurses on halves of old, splitting new at the point where
// the left and right Needleman-Wunsch scores sum highest; that is where
// the optimal edit trace crosses. oldRev and newRev are cached reversals
// of the full inputs, sliced alongside them.
func hirschberg(old, new, oldRev, newRev []byte, scorer Scorer, st *editState) {
	oldLen, newLen := len(old), len(new)

	switch {
	case oldLen == 0:
		st.insert(new)
	case newLen == 0:
		st.delete(oldLen)
	case oldLen == 1:
		if pos := bytes.IndexByte(new, old[0]); pos >= 0 {
			st.insert(new[:pos])
			st.match()
			st.insert(new[pos+1:])
		} else {
			st.insert(new)
			st.delete(1)
		}
	case newLen == 1:
		if pos := bytes.IndexByte(old, new[0]); pos >= 0 {
			st.delete(pos)
			st.match()
			st.delete(oldLen - pos - 1)
		} else {
			st.insert(new)
			st.delete(oldLen)
		}
	default:
		oldMid := oldLen / 2
		scoreL := nwScore(old[:oldMid], new, scorer)
		scoreR := nwScore(oldRev[:oldLen-oldMid], newRev, scorer)
		newMid := 0
		best := scoreL[0] + scoreR[newLen]
		for i := 1; i <= newLen; i++ {
			if s := scoreL[i] + scoreR[newLen-i]; s >= best {
				best, newMid = s, i
			}
		}
		hirschberg(old[:oldMid], new[:newMid], oldRev[oldLen-oldMid:], newRev[newLen-newMid:], scorer, st)
		hirschberg(old[oldMid:], new[newMid:], oldRev[:oldLen-oldMid], newRev[:newLen-newMid], scorer, st)
	}
}

// nwScore computes the last row of the Needleman-Wunsch score matrix for
// transforming old into each prefix of new, keeping only two rows.
func nwScore(old, new []byte, scorer Scorer) []int {
	last := make([]int, len(new)+1)
	this := make([]int, len(new)+1)

	for i, c := range new {
		last[i+1] = last[i] + scorer.InsertScore(c)
	}
	for _, oc := range old {
		this[0] = last[0] + scorer.DeleteScore(oc)
		for j, nc := range new {
			sub := last[j]
			if oc == nc {
				sub += scorer.MatchScore(oc)
			} else {
				sub += scorer.SubstitutionScore(oc, nc)
			}
			del := last[j+1] + scorer.DeleteScore(oc)
			ins := this[j] + scorer.InsertScore(nc)
			this[j+1] = max(sub, max(del, ins))
		}
		last, this = this, last
	}
	return last
}

func reverse(data []byte) []byte {
	r := make([]byte, len(data))
	for i, v := range data {
		r[len(data)-1-i] = v
	}
	return r
}
