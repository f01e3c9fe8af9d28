package delta

import (
	"fmt"
	"strings"
)

// Insert is an operation that adds Data immediately before Position,
// where Position is a byte offset into the baseline that was diffed.
type Insert struct {
	Position int
	Data     []byte
}

// Delete is an operation that removes Length bytes starting at Position
// in the baseline that was diffed.
type Delete struct {
	Position int
	Length   int
}

// Diff is the edit script that transforms one version into the next.
// Inserts and deletes are each ordered by ascending position. When an
// insert and a delete share a position, reconstruction applies the delete
// first; that ordering is part of the contract.
type Diff struct {
	inserts []Insert
	deletes []Delete
}

// addInsert records an insert, merging it into the previous one when both
// attach to the same baseline position.
func (d *Diff) addInsert(position int, data []byte) {
	if len(data) == 0 {
		return
	}
	if n := len(d.inserts); n > 0 && d.inserts[n-1].Position == position {
		d.inserts[n-1].Data = append(d.inserts[n-1].Data, data...)
		return
	}
	d.inserts = append(d.inserts, Insert{Position: position, Data: data})
}

// addDelete records a delete, merging it into the previous one when the
// two spans are adjacent in the baseline.
func (d *Diff) addDelete(position, length int) {
	if length == 0 {
		return
	}
	if n := len(d.deletes); n > 0 && d.deletes[n-1].Position+d.deletes[n-1].Length == position {
		d.deletes[n-1].Length += length
		return
	}
	d.deletes = append(d.deletes, Delete{Position: position, Length: length})
}

// Inserts returns the insert operations in ascending baseline position.
func (d *Diff) Inserts() []Insert {
	return d.inserts
}

// Deletes returns the delete operations in ascending baseline position.
func (d *Diff) Deletes() []Delete {
	return d.deletes
}

// Empty reports whether the diff contains no operations at all.
func (d *Diff) Empty() bool {
	return len(d.inserts) == 0 && len(d.deletes) == 0
}

// Apply reconstructs the new version from the baseline this diff was
// computed against. Operations are walked in ascending position, deletes
// before inserts at equal positions: a delete skips baseline bytes, an
// insert emits its own bytes.
func (d *Diff) Apply(baseline []byte) ([]byte, error) {
	out := make([]byte, 0, len(baseline))
	cur := 0
	ii, di := 0, 0
	for ii < len(d.inserts) || di < len(d.deletes) {
		if di < len(d.deletes) && (ii >= len(d.inserts) || d.deletes[di].Position <= d.inserts[ii].Position) {
			del := d.deletes[di]
			if del.Position < cur || del.Position+del.Length > len(baseline) {
				return nil, fmt.Errorf("delete of %d bytes at %d is out of range", del.Length, del.Position)
			}
			out = append(out, baseline[cur:del.Position]...)
			cur = del.Position + del.Length
			di++
			continue
		}

		ins := d.inserts[ii]
		if ins.Position > len(baseline) {
			return nil, fmt.Errorf("insert at %d is beyond the baseline", ins.Position)
		}
		if ins.Position > cur {
			out = append(out, baseline[cur:ins.Position]...)
			cur = ins.Position
		}
		out = append(out, ins.Data...)
		ii++
	}
	out = append(out, baseline[cur:]...)
	return out, nil
}

func (d *Diff) String() string {
	var sb strings.Builder
	sb.WriteString("Diff{inserts: [")
	for i, ins := range d.inserts {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "Insert(%d, %q)", ins.Position, ins.Data)
	}
	sb.WriteString("], deletes: [")
	for i, del := range d.deletes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "Delete(%d, %d)", del.Position, del.Length)
	}
	sb.WriteString("]}")
	return sb.String()
}

// diffBytes reduces the scanner's event stream into a coalesced edit
// script. The cursor tracks the next baseline block expected to match;
// blocks skipped between anchors become one delete, and each maximal run
// of literal bytes becomes one insert attributed to the baseline offset
// just past the last confirmed match.
func diffBytes(table *SignatureTable, baseline, data []byte) *Diff {
	d := &Diff{}
	s := newScanner(table, baseline, data)

	cursor := 0 // index of the next baseline block expected to match
	anchor := 0 // baseline offset just past the last confirmed match
	var run []byte

	for {
		ev, ok := s.scan()
		if !ok {
			break
		}
		if !ev.match {
			run = append(run, ev.lit)
			continue
		}

		b := ev.block
		if len(run) > 0 {
			d.addInsert(anchor, run)
			run = nil
		}
		if b.Index > cursor {
			skipped := table.blocks[cursor]
			d.addDelete(skipped.Offset, b.Offset-skipped.Offset)
		}
		cursor = b.Index + 1
		anchor = b.Offset + b.Length
	}

	if len(run) > 0 {
		d.addInsert(anchor, run)
	}
	if cursor < len(table.blocks) {
		skipped := table.blocks[cursor]
		d.addDelete(skipped.Offset, table.size-skipped.Offset)
	}
	return d
}
