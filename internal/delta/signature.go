// Package delta computes the difference between successive versions of
// the same content using block-level rolling-hash matching, in the manner
// of the rsync algorithm. A VersionState holds the current baseline and
// its block signatures; DiffAndUpdate walks a new version against them
// and produces a coalesced edit script of inserts and deletes.
package delta

import (
	"errors"

	"github.com/TypeTerrors/go_delta/pkg"
	"github.com/zeebo/xxh3"
)

// ErrInvalidBlockSize is returned when a block size of zero (or less) is
// given at construction time.
var ErrInvalidBlockSize = errors.New("block size must be greater than zero")

// Block is one fixed-size slice of a baseline. Only the last block of a
// baseline may be shorter than the block size.
type Block struct {
	Index  int
	Offset int
	Length int
	Weak   uint32
	Strong xxh3.Uint128
}

// SignatureTable indexes the blocks of exactly one baseline by their weak
// checksum. Blocks are contiguous, non-overlapping and cover the baseline
// exactly.
type SignatureTable struct {
	blockSize int
	size      int
	blocks    []Block
	byWeak    map[uint32][]Block
}

// BuildSignatureTable partitions baseline into blocks of blockSize bytes
// and hashes each one. An empty baseline yields a table with zero blocks.
func BuildSignatureTable(baseline []byte, blockSize int) (*SignatureTable, error) {
	if blockSize <= 0 {
		return nil, ErrInvalidBlockSize
	}

	t := &SignatureTable{
		blockSize: blockSize,
		size:      len(baseline),
		byWeak:    make(map[uint32][]Block),
	}
	for offset := 0; offset < len(baseline); offset += blockSize {
		end := offset + blockSize
		if end > len(baseline) {
			end = len(baseline)
		}
		chunk := baseline[offset:end]
		b := Block{
			Index:  len(t.blocks),
			Offset: offset,
			Length: len(chunk),
			Weak:   pkg.WeakChecksum(chunk),
			Strong: xxh3.Hash128(chunk),
		}
		t.blocks = append(t.blocks, b)
		t.byWeak[b.Weak] = append(t.byWeak[b.Weak], b)
	}
	return t, nil
}

// Lookup returns the collision chain for a weak checksum, in block order.
// A weak hit is only a candidate: callers must confirm the length, the
// strong hash and finally the bytes themselves before trusting it.
func (t *SignatureTable) Lookup(weak uint32) []Block {
	return t.byWeak[weak]
}

// Blocks returns all blocks in baseline order.
func (t *SignatureTable) Blocks() []Block {
	return t.blocks
}

// BlockSize returns the block size the table was built with.
func (t *SignatureTable) BlockSize() int {
	return t.blockSize
}

// Size returns the length of the baseline the table was built from.
func (t *SignatureTable) Size() int {
	return t.size
}
