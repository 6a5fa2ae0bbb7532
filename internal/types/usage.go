package types

import (
	"sort"
	"time"
)

// UsageEvent is one priced model invocation extracted from a session log.
// Immutable once admitted to the ledger.
type UsageEvent struct {
	Timestamp           time.Time `json:"timestamp"`
	InputTokens         int       `json:"input_tokens"`
	OutputTokens        int       `json:"output_tokens"`
	CacheCreationTokens int       `json:"cache_creation_tokens"`
	CacheReadTokens     int       `json:"cache_read_tokens"`
	TotalTokens         int       `json:"total_tokens"`
	Model               string    `json:"model"`
	CostUSD             float64   `json:"cost_usd"`
}

// TokenLedger is the persisted aggregate: events in discovery order plus
// per-session read cursors. Events are not required to be time-sorted on
// disk; queries sort before windowing.
type TokenLedger struct {
	Events         []UsageEvent   `json:"events"`
	SessionOffsets map[string]int `json:"session_offsets"`
}

// NewTokenLedger returns an empty ledger with initialized maps.
func NewTokenLedger() *TokenLedger {
	return &TokenLedger{
		Events:         []UsageEvent{},
		SessionOffsets: map[string]int{},
	}
}

// Offset returns the last line index read for a session, or -1 when the
// session has never been read.
func (l *TokenLedger) Offset(sessionID string) int {
	if l.SessionOffsets == nil {
		return -1
	}
	if idx, ok := l.SessionOffsets[sessionID]; ok {
		return idx
	}
	return -1
}

// SortedEvents returns a copy of the events sorted by timestamp.
func (l *TokenLedger) SortedEvents() []UsageEvent {
	sorted := make([]UsageEvent, len(l.Events))
	copy(sorted, l.Events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
