package delta

import (
	"bytes"

	"github.com/TypeTerrors/go_delta/pkg"
	"github.com/zeebo/xxh3"
)

// scanEvent is one step of the rolling scan: either a confirmed match of
// a baseline block, or a single literal byte with no counterpart.
type scanEvent struct {
	match bool
	block Block
	lit   byte
}

// scanner slides a block-sized window over the new data, keeping the
// window's weak checksum updated in O(1) per one-byte step. Once the end
// of the input is reached the window shrinks from the left instead of
// sliding, so a short final baseline block can still be matched against
// the tail.
type scanner struct {
	table    *SignatureTable
	baseline []byte
	data     []byte
	start    int
	end      int
	weak     *pkg.RollingChecksum
	next     int // smallest block index still allowed to match
}

func newScanner(table *SignatureTable, baseline, data []byte) *scanner {
	end := table.blockSize
	if end > len(data) {
		end = len(data)
	}
	return &scanner{
		table:    table,
		baseline: baseline,
		data:     data,
		end:      end,
		weak:     pkg.NewRollingChecksum(data[:end]),
	}
}

// scan produces the next event. After a confirmed match the window jumps
// a full window length, since re-scanning inside a known-unchanged region
// cannot yield a better match; the checksum is then re-seeded for the new
// window. On a miss the leading byte becomes a literal and the window
// slides by one.
func (s *scanner) scan() (scanEvent, bool) {
	if s.start >= len(s.data) {
		return scanEvent{}, false
	}

	window := s.data[s.start:s.end]
	if b, ok := s.confirm(window); ok {
		s.next = b.Index + 1
		s.start = s.end
		s.end = s.start + s.table.blockSize
		if s.end > len(s.data) {
			s.end = len(s.data)
		}
		s.weak = pkg.NewRollingChecksum(s.data[s.start:s.end])
		return scanEvent{match: true, block: b}, true
	}

	lit := s.data[s.start]
	if s.end < len(s.data) {
		s.weak.Roll(lit, s.data[s.end])
		s.end++
	} else {
		s.weak.Trim(lit)
	}
	s.start++
	return scanEvent{lit: lit}, true
}

// confirm checks the current window against the collision chain for its
// weak checksum. Matches are only accepted at or past the expected-next
// block, keeping the anchors monotonic. The strong hash is computed once
// per window, not per candidate.
func (s *scanner) confirm(window []byte) (Block, bool) {
	chain := s.table.Lookup(s.weak.Sum())
	if len(chain) == 0 {
		return Block{}, false
	}

	strong := xxh3.Hash128(window)
	for _, b := range chain {
		if b.Index < s.next || b.Length != len(window) || b.Strong != strong {
			continue
		}
		if bytes.Equal(window, s.baseline[b.Offset:b.Offset+b.Length]) {
			return b, true
		}
	}
	return Block{}, false
}
