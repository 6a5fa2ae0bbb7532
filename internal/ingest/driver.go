package ingest

import (
	"time"

	"github.com/ccwindow/ccwindow/internal/extractor"
	"github.com/ccwindow/ccwindow/internal/ledger"
	"github.com/ccwindow/ccwindow/internal/types"
)

// Driver runs one ingestion unit of work per external trigger:
// read new events for a session, append, prune, persist.
type Driver struct {
	store       *ledger.Store
	extractor   *extractor.Extractor
	windowHours int
	now         func() time.Time
}

// New wires a Driver. windowHours controls the prune horizon.
func New(store *ledger.Store, ex *extractor.Extractor, windowHours int) *Driver {
	return &Driver{
		store:       store,
		extractor:   ex,
		windowHours: windowHours,
		now:         time.Now,
	}
}

// Ingest processes one session. An empty session id is a no-op. The
// ledger is only rewritten when the extraction produced events or
// advanced the offset; turns that surface no new log lines cost no
// disk write. The returned error is advisory only: callers run
// unattended on every assistant turn and must not abort on it.
func (d *Driver) Ingest(sessionID string) error {
	if sessionID == "" {
		return nil
	}

	lgr, _ := d.store.Load()
	offset := lgr.Offset(sessionID)

	events, newLast := d.extractor.ExtractNewEvents(sessionID, offset)
	if len(events) == 0 && newLast == offset {
		return nil
	}

	d.store.Append(lgr, sessionID, events, newLast)
	d.store.Prune(lgr, d.windowHours, d.now())
	return d.store.Save(lgr)
}

// Backfill rebuilds the ledger from every known session log, for
// cold-start population. Prior offsets are ignored; the result is
// pruned to the usual 2x margin and persisted.
func (d *Driver) Backfill() (*types.TokenLedger, error) {
	lgr := d.extractor.ScanAllSessions()
	d.store.Prune(lgr, d.windowHours, d.now())

	if err := d.store.Save(lgr); err != nil {
		return lgr, err
	}
	return lgr, nil
}

// Reset rewrites the ledger as empty, discarding events and offsets.
func (d *Driver) Reset() error {
	return d.store.Save(types.NewTokenLedger())
}
