package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ccwindow/ccwindow/internal/pricing"
	"github.com/ccwindow/ccwindow/internal/types"
)

// PlanPreset is a named default bundle for a subscription plan.
type PlanPreset struct {
	Name         string
	WindowHours  int
	CostLimit    float64
	MessageLimit int
}

// DefaultPlan is used whenever the config names no (or an unknown) plan.
const DefaultPlan = "pro"

var planPresets = map[string]PlanPreset{
	"pro":     {Name: "Pro", WindowHours: 5, CostLimit: 18, MessageLimit: 250},
	"max_5x":  {Name: "Max 5x", WindowHours: 5, CostLimit: 35, MessageLimit: 1000},
	"max_20x": {Name: "Max 20x", WindowHours: 5, CostLimit: 140, MessageLimit: 2000},
}

// fileConfig is the on-disk shape. Numeric fields are pointers so an
// absent field falls back to the plan preset rather than to zero.
type fileConfig struct {
	Plan         string                   `yaml:"plan"`
	WindowHours  *int                     `yaml:"windowHours"`
	CostLimit    *float64                 `yaml:"costLimit"`
	MessageLimit *int                     `yaml:"messageLimit"`
	Pricing      map[string]pricing.Rates `yaml:"pricing"`
}

// Config is the resolved window configuration.
type Config struct {
	PlanName string
	Window   types.WindowConfig
	Pricing  map[string]pricing.Rates
}

// Default returns the resolved default-plan configuration.
func Default() *Config {
	return resolve(fileConfig{})
}

// Load reads and resolves a config file. Parsed with yaml.v3, which
// also accepts the JSON form the file historically used. A missing or
// corrupt file degrades to the default preset; Load never fails.
func Load(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Default()
	}

	return resolve(fc)
}

func resolve(fc fileConfig) *Config {
	preset, ok := planPresets[fc.Plan]
	if !ok {
		preset = planPresets[DefaultPlan]
	}

	cfg := &Config{
		PlanName: preset.Name,
		Window: types.WindowConfig{
			WindowHours:  preset.WindowHours,
			CostLimit:    preset.CostLimit,
			MessageLimit: preset.MessageLimit,
		},
		Pricing: fc.Pricing,
	}

	if fc.WindowHours != nil {
		cfg.Window.WindowHours = *fc.WindowHours
	}
	if fc.CostLimit != nil {
		cfg.Window.CostLimit = *fc.CostLimit
	}
	if fc.MessageLimit != nil {
		cfg.Window.MessageLimit = *fc.MessageLimit
	}

	return cfg
}

// PricingTable builds the pricing table with any per-tier overrides
// applied. Unknown tier names in the overrides are ignored.
func (c *Config) PricingTable() *pricing.Table {
	table := pricing.NewTable()
	for tier, rates := range c.Pricing {
		table.Override(pricing.Tier(tier), rates)
	}
	return table
}
