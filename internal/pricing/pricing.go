package pricing

import (
	"math"
	"strings"
)

// Tier is a pricing class a model identifier is mapped into.
type Tier string

const (
	TierOpus   Tier = "opus"
	TierSonnet Tier = "sonnet"
	TierHaiku  Tier = "haiku"
)

// Rates holds USD per million tokens for each token category.
type Rates struct {
	Input         float64 `json:"input" yaml:"input"`
	Output        float64 `json:"output" yaml:"output"`
	CacheCreation float64 `json:"cache_creation" yaml:"cacheCreation"`
	CacheRead     float64 `json:"cache_read" yaml:"cacheRead"`
}

// defaultRates carries the published Claude per-million rates. The
// Sonnet tier doubles as the fallback for unknown models.
var defaultRates = map[Tier]Rates{
	TierOpus:   {Input: 15.0, Output: 75.0, CacheCreation: 18.75, CacheRead: 1.50},
	TierSonnet: {Input: 3.0, Output: 15.0, CacheCreation: 3.75, CacheRead: 0.30},
	TierHaiku:  {Input: 0.80, Output: 4.0, CacheCreation: 1.0, CacheRead: 0.08},
}

// Table prices model invocations by tier.
type Table struct {
	rates map[Tier]Rates
}

// NewTable returns a table with the built-in rates.
func NewTable() *Table {
	rates := make(map[Tier]Rates, len(defaultRates))
	for tier, r := range defaultRates {
		rates[tier] = r
	}
	return &Table{rates: rates}
}

// Override replaces the rates for one tier. Unknown tier names are
// ignored so a bad config entry cannot break pricing.
func (t *Table) Override(tier Tier, r Rates) {
	if _, ok := t.rates[tier]; !ok {
		return
	}
	t.rates[tier] = r
}

// ClassifyModel maps a model identifier to a tier by case-insensitive
// substring match. Anything unrecognized, including the empty string,
// prices at the Sonnet tier. Deliberate fallback: an unknown model
// never fails.
func ClassifyModel(model string) Tier {
	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "opus"):
		return TierOpus
	case strings.Contains(lower, "haiku"):
		return TierHaiku
	default:
		return TierSonnet
	}
}

// Rates returns the active rates for a tier.
func (t *Table) Rates(tier Tier) Rates {
	return t.rates[tier]
}

// Cost prices one invocation in USD, rounded to six decimal places so
// many small events do not accumulate float drift.
func (t *Table) Cost(model string, input, output, cacheCreation, cacheRead int) float64 {
	r := t.rates[ClassifyModel(model)]

	cost := float64(input) * r.Input / 1_000_000
	cost += float64(output) * r.Output / 1_000_000
	cost += float64(cacheCreation) * r.CacheCreation / 1_000_000
	cost += float64(cacheRead) * r.CacheRead / 1_000_000

	return roundUSD(cost)
}

func roundUSD(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
