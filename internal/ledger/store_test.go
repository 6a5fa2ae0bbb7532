package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccwindow/ccwindow/internal/types"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "dashboard", "usage.json"))
}

func event(ts time.Time, tokens int, cost float64) types.UsageEvent {
	return types.UsageEvent{
		Timestamp:   ts,
		InputTokens: tokens,
		TotalTokens: tokens,
		Model:       "claude-sonnet-4-5",
		CostUSD:     cost,
	}
}

func TestLoadMissingFileYieldsEmptyLedger(t *testing.T) {
	store := tempStore(t)

	ledger, degraded := store.Load()
	assert.True(t, degraded)
	assert.Empty(t, ledger.Events)
	assert.Equal(t, -1, ledger.Offset("any"))
}

func TestLoadCorruptFileYieldsEmptyLedger(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{half-writ"), 0o644))

	ledger, degraded := store.Load()
	assert.True(t, degraded)
	assert.Empty(t, ledger.Events)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := tempStore(t)
	now := time.Now().Truncate(time.Second)

	ledger := types.NewTokenLedger()
	store.Append(ledger, "sess-1", []types.UsageEvent{event(now, 120, 0.0042)}, 4)
	require.NoError(t, store.Save(ledger))

	loaded, degraded := store.Load()
	assert.False(t, degraded)
	require.Len(t, loaded.Events, 1)
	assert.Equal(t, 120, loaded.Events[0].TotalTokens)
	assert.Equal(t, 0.0042, loaded.Events[0].CostUSD)
	assert.Equal(t, 4, loaded.Offset("sess-1"))
}

func TestSaveReplacesWholeFile(t *testing.T) {
	store := tempStore(t)

	ledger := types.NewTokenLedger()
	store.Append(ledger, "sess-1", []types.UsageEvent{event(time.Now(), 100, 0.001)}, 0)
	require.NoError(t, store.Save(ledger))

	// A second save with fewer events must not leave stale bytes behind.
	require.NoError(t, store.Save(types.NewTokenLedger()))
	loaded, degraded := store.Load()
	assert.False(t, degraded)
	assert.Empty(t, loaded.Events)

	// No temp files left in the directory.
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppendOffsetNeverDecreases(t *testing.T) {
	store := tempStore(t)
	ledger := types.NewTokenLedger()

	store.Append(ledger, "sess-1", nil, 10)
	assert.Equal(t, 10, ledger.Offset("sess-1"))

	// Offset update is unconditional on empty events but monotonic.
	store.Append(ledger, "sess-1", nil, 3)
	assert.Equal(t, 10, ledger.Offset("sess-1"))

	store.Append(ledger, "sess-1", nil, 12)
	assert.Equal(t, 12, ledger.Offset("sess-1"))
}

func TestPruneBoundary(t *testing.T) {
	store := tempStore(t)
	now := time.Now()
	const windowHours = 5

	margin := 2 * windowHours * time.Hour
	ledger := types.NewTokenLedger()
	store.Append(ledger, "sess-1", []types.UsageEvent{
		event(now.Add(-margin-time.Second), 100, 0.01), // pruned
		event(now.Add(-margin), 200, 0.02),             // exactly on the boundary: pruned
		event(now.Add(-margin+time.Second), 300, 0.03), // retained
		event(now.Add(-time.Hour), 400, 0.04),          // retained
	}, 3)

	store.Prune(ledger, windowHours, now)

	require.Len(t, ledger.Events, 2)
	assert.Equal(t, 300, ledger.Events[0].TotalTokens)
	assert.Equal(t, 400, ledger.Events[1].TotalTokens)

	// Offsets are not subject to the event-age prune.
	assert.Equal(t, 3, ledger.Offset("sess-1"))
}

func TestSortedEventsDoesNotMutateLedger(t *testing.T) {
	now := time.Now()
	ledger := types.NewTokenLedger()
	ledger.Events = []types.UsageEvent{
		event(now, 2, 0),
		event(now.Add(-time.Hour), 1, 0),
	}

	sorted := ledger.SortedEvents()
	require.Len(t, sorted, 2)
	assert.Equal(t, 1, sorted[0].TotalTokens)
	// Discovery order on the ledger itself is preserved.
	assert.Equal(t, 2, ledger.Events[0].TotalTokens)
}
