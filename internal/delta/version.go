package delta

import (
	"fmt"
	"io"
)

// VersionState tracks one piece of content over time. It owns the bytes
// of the version most recently committed (the baseline) together with
// that baseline's signature table, and advances to each new version as it
// is diffed.
//
// A VersionState is not safe for concurrent use. Callers must serialize
// DiffAndUpdate with any other access to the same instance; independent
// instances need no coordination.
type VersionState struct {
	blockSize int
	baseline  []byte
	table     *SignatureTable
}

// New fully reads source and builds the initial signature table over it.
func New(source io.Reader, blockSize int) (*VersionState, error) {
	if blockSize <= 0 {
		return nil, ErrInvalidBlockSize
	}
	baseline, err := io.ReadAll(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	table, err := BuildSignatureTable(baseline, blockSize)
	if err != nil {
		return nil, err
	}
	return &VersionState{
		blockSize: blockSize,
		baseline:  baseline,
		table:     table,
	}, nil
}

// DiffAndUpdate fully reads the next version of the content, returns the
// edit script from the current baseline to it, and commits it as the new
// baseline so that subsequent calls diff against it. If the read fails
// the existing baseline and table are left completely untouched.
func (v *VersionState) DiffAndUpdate(source io.Reader) (*Diff, error) {
	data, err := io.ReadAll(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	diff := diffBytes(v.table, v.baseline, data)

	table, err := BuildSignatureTable(data, v.blockSize)
	if err != nil {
		return nil, err
	}
	v.baseline, v.table = data, table
	return diff, nil
}

// BlockSize returns the fixed block size of this instance.
func (v *VersionState) BlockSize() int {
	return v.blockSize
}

// Baseline returns the bytes of the version most recently committed.
// The slice is owned by the VersionState and must not be modified.
func (v *VersionState) Baseline() []byte {
	return v.baseline
}

// Signatures returns the blocks of the current signature table in
// baseline order.
func (v *VersionState) Signatures() []Block {
	return v.table.Blocks()
}
