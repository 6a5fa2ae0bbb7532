package extractor

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ccwindow/ccwindow/internal/pricing"
	"github.com/ccwindow/ccwindow/internal/types"
)

// Extractor reads session JSONL logs incrementally and turns eligible
// assistant records into priced UsageEvents.
type Extractor struct {
	projectsDir string
	table       *pricing.Table
	timezone    *time.Location
	debug       bool
}

// New returns an Extractor reading session logs under projectsDir.
func New(projectsDir string, table *pricing.Table) *Extractor {
	return &Extractor{
		projectsDir: projectsDir,
		table:       table,
		timezone:    time.Local,
	}
}

func (e *Extractor) SetDebug(debug bool) {
	e.debug = debug
}

func (e *Extractor) SetTimezone(timezone *time.Location) {
	if timezone != nil {
		e.timezone = timezone
	}
}

// rawRecord maps the JSONL structure we care about.
type rawRecord struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId"`
	Message   *struct {
		ID    string `json:"id"`
		Model string `json:"model"`
		Usage *struct {
			InputTokens              int `json:"input_tokens"`
			OutputTokens             int `json:"output_tokens"`
			CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
			CacheReadInputTokens     int `json:"cache_read_input_tokens"`
		} `json:"usage"`
	} `json:"message"`
}

// ExtractNewEvents reads the session's log from the line after
// lastLineIndex and returns the new events plus the index of the last
// line physically read. A missing or unopenable log is a normal race
// with the external writer: empty result, offset unchanged.
func (e *Extractor) ExtractNewEvents(sessionID string, lastLineIndex int) ([]types.UsageEvent, int) {
	path := e.findSessionFile(sessionID)
	if path == "" {
		if e.debug {
			fmt.Fprintf(os.Stderr, "Debug: no session log for %s\n", sessionID)
		}
		return nil, lastLineIndex
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, lastLineIndex
	}
	defer file.Close()

	seen := make(map[string]struct{})
	events, newLast := e.scan(file, lastLineIndex, seen)

	if e.debug {
		fmt.Fprintf(os.Stderr, "Debug: session %s lines %d..%d yielded %d events\n",
			sessionID, lastLineIndex+1, newLast, len(events))
	}

	return events, newLast
}

// ScanAllSessions extracts every line of every known session log with a
// dedup set shared across the whole backfill. The returned ledger
// carries each session's final line index; callers prune and persist.
func (e *Extractor) ScanAllSessions() *types.TokenLedger {
	ledger := types.NewTokenLedger()
	seen := make(map[string]struct{})

	entries, err := os.ReadDir(e.projectsDir)
	if err != nil {
		return ledger
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pattern := filepath.Join(e.projectsDir, entry.Name(), "*.jsonl")
		paths, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, path := range paths {
			file, err := os.Open(path)
			if err != nil {
				continue
			}

			sessionID := strings.TrimSuffix(filepath.Base(path), ".jsonl")
			events, last := e.scan(file, -1, seen)
			file.Close()

			ledger.Events = append(ledger.Events, events...)
			ledger.SessionOffsets[sessionID] = last
		}
	}

	return ledger
}

// scan walks lines after lastLineIndex. One corrupt line never loses
// the remaining lines or the updated offset.
func (e *Extractor) scan(r io.Reader, lastLineIndex int, seen map[string]struct{}) ([]types.UsageEvent, int) {
	scanner := bufio.NewScanner(r)

	// Allow very long lines (large tool results embed in records).
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var events []types.UsageEvent
	newLast := lastLineIndex

	index := -1
	for scanner.Scan() {
		index++
		if index > newLast {
			newLast = index
		}
		if index <= lastLineIndex {
			continue
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		event, key, ok := e.parseLine(line)
		if !ok {
			continue
		}

		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}

		events = append(events, event)
	}

	return events, newLast
}

// parseLine returns the event, the dedup key ("" when the record lacks
// either identifier), and whether the line produced an event.
func (e *Extractor) parseLine(line []byte) (types.UsageEvent, string, bool) {
	var rec rawRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return types.UsageEvent{}, "", false
	}

	// Only assistant records carry usage.
	if rec.Type != "assistant" || rec.Message == nil || rec.Message.Usage == nil || rec.Timestamp == "" {
		return types.UsageEvent{}, "", false
	}

	ts, ok := e.parseTimestamp(rec.Timestamp)
	if !ok {
		return types.UsageEvent{}, "", false
	}

	usage := rec.Message.Usage
	total := usage.InputTokens + usage.OutputTokens + usage.CacheCreationInputTokens + usage.CacheReadInputTokens
	if total <= 0 {
		return types.UsageEvent{}, "", false
	}

	event := types.UsageEvent{
		Timestamp:           ts,
		InputTokens:         usage.InputTokens,
		OutputTokens:        usage.OutputTokens,
		CacheCreationTokens: usage.CacheCreationInputTokens,
		CacheReadTokens:     usage.CacheReadInputTokens,
		TotalTokens:         total,
		Model:               rec.Message.Model,
		CostUSD:             e.table.Cost(rec.Message.Model, usage.InputTokens, usage.OutputTokens, usage.CacheCreationInputTokens, usage.CacheReadInputTokens),
	}

	var key string
	if rec.Message.ID != "" && rec.RequestID != "" {
		key = rec.Message.ID + ":" + rec.RequestID
	}

	return event, key, true
}

// parseTimestamp normalizes a record timestamp into the ledger's time
// reference at second precision. Values with an explicit zone (the "Z"
// marker or an offset) are converted; zone-less values are assumed to
// already be in that reference.
func (e *Extractor) parseTimestamp(ts string) (time.Time, bool) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
	}
	for _, format := range formats {
		if parsed, err := time.Parse(format, ts); err == nil {
			return parsed.In(e.timezone).Truncate(time.Second), true
		}
	}

	if parsed, err := time.ParseInLocation("2006-01-02T15:04:05", ts, e.timezone); err == nil {
		return parsed.Truncate(time.Second), true
	}

	return time.Time{}, false
}

// findSessionFile looks for <projectsDir>/<project>/<sessionID>.jsonl
// across all project directories.
func (e *Extractor) findSessionFile(sessionID string) string {
	if sessionID == "" {
		return ""
	}

	entries, err := os.ReadDir(e.projectsDir)
	if err != nil {
		return ""
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(e.projectsDir, entry.Name(), sessionID+".jsonl")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
