// Package tracker keeps a set of files under version tracking. Each file
// gets a delta.VersionState in memory and a gob-encoded snapshot of its
// baseline and signatures in BadgerDB, so tracking survives restarts.
package tracker

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/TypeTerrors/go_delta/conf"
	"github.com/TypeTerrors/go_delta/internal/delta"
	"github.com/TypeTerrors/go_delta/pkg"
	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

// ErrNotTracked is returned by Update for a path that was never tracked.
var ErrNotTracked = errors.New("file is not tracked")

// Snapshot is the persisted form of one tracked file.
type Snapshot struct {
	BlockSize int
	Baseline  []byte
	Blocks    []delta.Block
}

type Tracker struct {
	mu        sync.Mutex
	db        *badger.DB
	blockSize int
	files     map[string]*delta.VersionState
}

func NewTracker(db *badger.DB, blockSize int) (*Tracker, error) {
	if blockSize <= 0 {
		return nil, delta.ErrInvalidBlockSize
	}
	return &Tracker{
		db:        db,
		blockSize: blockSize,
		files:     make(map[string]*delta.VersionState),
	}, nil
}

// Load restores every snapshot in the database into memory. Snapshots
// that no longer decode are dropped with a warning rather than aborting
// the whole restore.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			path := string(item.Key())
			err := item.Value(func(val []byte) error {
				var snap Snapshot
				if err := gob.NewDecoder(bytes.NewReader(val)).Decode(&snap); err != nil {
					log.Warnf("Dropping unreadable snapshot for %s: %v", path, err)
					return nil
				}
				vs, err := delta.New(bytes.NewReader(snap.Baseline), snap.BlockSize)
				if err != nil {
					return fmt.Errorf("failed to restore %s: %w", path, err)
				}
				if len(vs.Signatures()) != len(snap.Blocks) {
					log.Warnf("Snapshot for %s has %d signatures, rebuilt %d", path, len(snap.Blocks), len(vs.Signatures()))
				}
				t.files[path] = vs
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Track starts tracking path from its current content. Tracking an
// already-tracked path resets its baseline.
func (t *Tracker) Track(path string) error {
	if pkg.IsTemporaryFile(path) {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	vs, err := delta.New(file, t.blockSize)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[path] = vs
	if err := t.save(path, vs); err != nil {
		return err
	}
	log.Infof("Tracking %s (%d bytes, %d blocks)", path, len(vs.Baseline()), len(vs.Signatures()))
	return nil
}

// Update diffs path's current content against its tracked baseline,
// commits the new content as the next baseline and persists it. The
// returned edit script transforms the previous baseline into the new
// content.
func (t *Tracker) Update(path string) (*delta.Diff, error) {
	if pkg.IsTemporaryFile(path) {
		return &delta.Diff{}, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	vs, ok := t.files[path]
	if !ok {
		return nil, ErrNotTracked
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	old := vs.Baseline()
	diff, err := vs.DiffAndUpdate(file)
	if err != nil {
		return nil, err
	}
	if err := t.save(path, vs); err != nil {
		return nil, err
	}

	if !diff.Empty() {
		log.Infof("%s changed: %s", path, diff)
		t.refine(path, old, vs.Baseline())
	}
	return diff, nil
}

// IsTracked reports whether path currently has a version state.
func (t *Tracker) IsTracked(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.files[path]
	return ok
}

// Baseline returns a copy of the tracked baseline for path.
func (t *Tracker) Baseline(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	vs, ok := t.files[path]
	if !ok {
		return nil, ErrNotTracked
	}
	return append([]byte(nil), vs.Baseline()...), nil
}

// Forget drops path from memory and from the database.
func (t *Tracker) Forget(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.files, path)
	err := t.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(path))
	})
	if err != nil {
		return fmt.Errorf("failed to delete snapshot for %s: %w", path, err)
	}
	log.Infof("Stopped tracking %s", path)
	return nil
}

// Paths returns the tracked paths in no particular order.
func (t *Tracker) Paths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	paths := make([]string, 0, len(t.files))
	for path := range t.files {
		paths = append(paths, path)
	}
	return paths
}

// save writes the snapshot for path. Callers hold t.mu.
func (t *Tracker) save(path string, vs *delta.VersionState) error {
	var buf bytes.Buffer
	snap := Snapshot{
		BlockSize: vs.BlockSize(),
		Baseline:  vs.Baseline(),
		Blocks:    vs.Signatures(),
	}
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot for %s: %w", path, err)
	}
	err := t.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(path), buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", path, err)
	}
	return nil
}

// refine logs a byte-accurate edit script for small text files, where
// the block-granular script is too coarse to be readable.
func (t *Tracker) refine(path string, old, new []byte) {
	limit := conf.AppConfig.RefineLimit
	if limit <= 0 || len(old) > limit || len(new) > limit {
		return
	}
	if !utf8.Valid(old) || !utf8.Valid(new) {
		return
	}
	refined := delta.FindDiff(old, new, delta.EditDistance{})
	log.Debugf("%s refined: %s", path, refined)
}
