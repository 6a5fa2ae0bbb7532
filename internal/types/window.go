package types

// Severity classifies how close the window is to a limit.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Severity band thresholds in percent. Fixed, boundary-inclusive.
const (
	WarningThresholdPct  = 70.0
	CriticalThresholdPct = 90.0
)

// SeverityForPct maps a percentage-of-limit to a severity band.
func SeverityForPct(pct float64) Severity {
	switch {
	case pct >= CriticalThresholdPct:
		return SeverityCritical
	case pct >= WarningThresholdPct:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// WindowConfig is the externally supplied rate-limit configuration.
type WindowConfig struct {
	WindowHours  int     `json:"window_hours" yaml:"windowHours"`
	CostLimit    float64 `json:"cost_limit" yaml:"costLimit"`
	MessageLimit int     `json:"message_limit" yaml:"messageLimit"`
}

// WindowSnapshot is the computed state of the rolling window at one
// point in time. All countdowns are clamped to zero.
type WindowSnapshot struct {
	TokensUsed   int     `json:"tokens_used"`
	CostUsed     float64 `json:"cost_used"`
	MessagesUsed int     `json:"messages_used"`

	TokenLimit   int     `json:"token_limit"`
	CostLimit    float64 `json:"cost_limit"`
	MessageLimit int     `json:"message_limit"`

	PctTokens   float64 `json:"pct_tokens"`
	PctCost     float64 `json:"pct_cost"`
	PctMessages float64 `json:"pct_messages"`

	Severity Severity `json:"severity"`

	RechargeSeconds  int     `json:"recharge_seconds"`
	RechargeTokens   int     `json:"recharge_tokens"`
	RechargeCost     float64 `json:"recharge_cost"`
	FullClearSeconds int     `json:"full_clear_seconds"`

	WindowHours int `json:"window_hours"`
}

// MaxPct returns the highest of the three limit percentages; the overall
// severity is derived from it because any one dimension hitting its
// ceiling is a real constraint.
func (s WindowSnapshot) MaxPct() float64 {
	max := s.PctTokens
	if s.PctCost > max {
		max = s.PctCost
	}
	if s.PctMessages > max {
		max = s.PctMessages
	}
	return max
}
