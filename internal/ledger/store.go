package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ccwindow/ccwindow/internal/types"
)

// Store owns the persisted token ledger. The backing file is always
// replaced as a whole (temp file + rename) so a concurrent reader never
// observes a half-written document.
type Store struct {
	path  string
	debug bool
}

// New returns a Store persisting to path. The location is injected here
// rather than read from a package global so tests and the display path
// can point at their own files.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) SetDebug(debug bool) {
	s.debug = debug
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger. A missing or unparseable file yields an empty
// ledger with the degraded marker set, never an error: the display path
// runs far more often than the write path and must not crash on a
// transient write race.
func (s *Store) Load() (*types.TokenLedger, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return types.NewTokenLedger(), true
	}

	var ledger types.TokenLedger
	if err := json.Unmarshal(data, &ledger); err != nil {
		if s.debug {
			fmt.Fprintf(os.Stderr, "Debug: ledger file %s did not parse: %v\n", s.path, err)
		}
		return types.NewTokenLedger(), true
	}

	if ledger.SessionOffsets == nil {
		ledger.SessionOffsets = map[string]int{}
	}
	if ledger.Events == nil {
		ledger.Events = []types.UsageEvent{}
	}

	return &ledger, false
}

// Append extends the event sequence and updates the session's read
// cursor. The cursor update is unconditional even when no events were
// produced, but never moves backwards: the log is append-only.
func (s *Store) Append(ledger *types.TokenLedger, sessionID string, events []types.UsageEvent, newLastLineIndex int) {
	if ledger.SessionOffsets == nil {
		ledger.SessionOffsets = map[string]int{}
	}
	if newLastLineIndex > ledger.Offset(sessionID) {
		ledger.SessionOffsets[sessionID] = newLastLineIndex
	}
	ledger.Events = append(ledger.Events, events...)
}

// Prune drops every event aged past twice the window. The 2x margin
// keeps the events the full-clear computation still needs; pruning at
// the window boundary would destroy them right before they are used.
// Session offsets survive pruning indefinitely.
func (s *Store) Prune(ledger *types.TokenLedger, windowHours int, now time.Time) {
	cutoff := now.Add(-2 * time.Duration(windowHours) * time.Hour)

	kept := ledger.Events[:0]
	for _, event := range ledger.Events {
		if event.Timestamp.After(cutoff) {
			kept = append(kept, event)
		}
	}
	ledger.Events = kept
}

// Save writes the whole ledger as a single replace-in-place. The temp
// file lives in the target directory so the rename stays on one
// filesystem and is atomic.
func (s *Store) Save(ledger *types.TokenLedger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return types.StoreError{Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.StoreError{Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return types.StoreError{Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return types.StoreError{Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return types.StoreError{Path: s.path, Err: err}
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return types.StoreError{Path: s.path, Err: err}
	}

	return nil
}
