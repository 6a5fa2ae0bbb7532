package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccwindow/ccwindow/internal/extractor"
	"github.com/ccwindow/ccwindow/internal/ledger"
	"github.com/ccwindow/ccwindow/internal/pricing"
)

type fixture struct {
	driver      *Driver
	store       *ledger.Store
	projectsDir string
	sessionPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	projectsDir := filepath.Join(root, "projects")
	sessionDir := filepath.Join(projectsDir, "proj-a")
	require.NoError(t, os.MkdirAll(sessionDir, 0o755))

	store := ledger.New(filepath.Join(root, "dashboard", "usage.json"))
	ex := extractor.New(projectsDir, pricing.NewTable())
	ex.SetTimezone(time.UTC)

	return &fixture{
		driver:      New(store, ex, 5),
		store:       store,
		projectsDir: projectsDir,
		sessionPath: filepath.Join(sessionDir, "sess-1.jsonl"),
	}
}

func (f *fixture) appendLine(t *testing.T, line string) {
	t.Helper()
	file, err := os.OpenFile(f.sessionPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = file.WriteString(line + "\n")
	require.NoError(t, err)
	require.NoError(t, file.Close())
}

func usageLine(ts time.Time, messageID, requestID string, input int) string {
	return fmt.Sprintf(`{"type":"assistant","timestamp":%q,"requestId":%q,"message":{"id":%q,"model":"claude-sonnet-4-5","usage":{"input_tokens":%d,"output_tokens":10}}}`,
		ts.Format(time.RFC3339), requestID, messageID, input)
}

func TestIngestAppendsAndPersists(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC().Truncate(time.Second)

	f.appendLine(t, usageLine(now, "msg-1", "req-1", 100))
	require.NoError(t, f.driver.Ingest("sess-1"))

	lgr, degraded := f.store.Load()
	assert.False(t, degraded)
	require.Len(t, lgr.Events, 1)
	assert.Equal(t, 110, lgr.Events[0].TotalTokens)
	assert.Equal(t, 0, lgr.Offset("sess-1"))
}

func TestIngestIsIdempotentWithoutNewLines(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC().Truncate(time.Second)

	f.appendLine(t, usageLine(now, "msg-1", "req-1", 100))
	require.NoError(t, f.driver.Ingest("sess-1"))

	first, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	firstInfo, err := os.Stat(f.store.Path())
	require.NoError(t, err)

	// Second run with nothing new: byte-for-byte unchanged, no rewrite.
	require.NoError(t, f.driver.Ingest("sess-1"))

	second, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	secondInfo, err := os.Stat(f.store.Path())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstInfo.ModTime(), secondInfo.ModTime())
}

func TestIngestOffsetMonotonicity(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC().Truncate(time.Second)

	var offsets []int
	for i := 0; i < 3; i++ {
		f.appendLine(t, usageLine(now, fmt.Sprintf("msg-%d", i), fmt.Sprintf("req-%d", i), 50))
		require.NoError(t, f.driver.Ingest("sess-1"))

		lgr, _ := f.store.Load()
		offsets = append(offsets, lgr.Offset("sess-1"))
	}

	assert.Equal(t, []int{0, 1, 2}, offsets)
}

func TestIngestAdvancesOffsetOnUsagelessLines(t *testing.T) {
	f := newFixture(t)

	// Lines that produce no events must still move the cursor so they
	// are never re-scanned.
	f.appendLine(t, `{"type":"user","timestamp":"2026-08-30T10:00:00Z"}`)
	f.appendLine(t, `{malformed`)
	require.NoError(t, f.driver.Ingest("sess-1"))

	lgr, _ := f.store.Load()
	assert.Empty(t, lgr.Events)
	assert.Equal(t, 1, lgr.Offset("sess-1"))
}

func TestIngestEmptySessionIDIsNoOp(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.driver.Ingest(""))
	_, err := os.Stat(f.store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestIngestMissingSessionLogIsNoOp(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.driver.Ingest("sess-unknown"))
	_, err := os.Stat(f.store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestIngestPrunesAgedEvents(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC().Truncate(time.Second)

	// Older than 2x the 5h window: extracted, then pruned before save.
	f.appendLine(t, usageLine(now.Add(-11*time.Hour), "msg-old", "req-old", 100))
	f.appendLine(t, usageLine(now, "msg-new", "req-new", 100))
	require.NoError(t, f.driver.Ingest("sess-1"))

	lgr, _ := f.store.Load()
	require.Len(t, lgr.Events, 1)
	assert.Equal(t, 110, lgr.Events[0].TotalTokens)
	assert.WithinDuration(t, now, lgr.Events[0].Timestamp, time.Second)
}

func TestBackfill(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC().Truncate(time.Second)

	f.appendLine(t, usageLine(now.Add(-1*time.Hour), "msg-1", "req-1", 100))
	f.appendLine(t, usageLine(now.Add(-20*time.Hour), "msg-2", "req-2", 100))

	lgr, err := f.driver.Backfill()
	require.NoError(t, err)
	require.Len(t, lgr.Events, 1)
	assert.Equal(t, 1, lgr.Offset("sess-1"))

	persisted, degraded := f.store.Load()
	assert.False(t, degraded)
	assert.Len(t, persisted.Events, 1)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC().Truncate(time.Second)

	f.appendLine(t, usageLine(now, "msg-1", "req-1", 100))
	require.NoError(t, f.driver.Ingest("sess-1"))
	require.NoError(t, f.driver.Reset())

	lgr, degraded := f.store.Load()
	assert.False(t, degraded)
	assert.Empty(t, lgr.Events)
	assert.Equal(t, -1, lgr.Offset("sess-1"))
}
