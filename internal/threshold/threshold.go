package threshold

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PriceLevel is a single staged target price with an enable switch.
type PriceLevel struct {
	Target  decimal.Decimal `json:"target"`
	Enabled bool            `json:"enabled"`
}

// Eligible reports whether the level may ever trigger. Disabled levels and
// levels with a zero or negative target are inert.
func (l PriceLevel) Eligible() bool {
	return l.Enabled && l.Target.IsPositive()
}

// ThresholdSet holds the staged buy and sell targets. Five stages per
// direction by convention; consumers must tolerate any length.
type ThresholdSet struct {
	Buy  []PriceLevel `json:"buy"`
	Sell []PriceLevel `json:"sell"`
}

// Default returns the built-in seed thresholds: buy stages stepping down
// below par, sell stages stepping up above par, last two of each disabled.
func Default() ThresholdSet {
	return ThresholdSet{
		Buy: []PriceLevel{
			{Target: decimal.NewFromInt(1380), Enabled: true},
			{Target: decimal.NewFromInt(1370), Enabled: true},
			{Target: decimal.NewFromInt(1360), Enabled: true},
			{Target: decimal.NewFromInt(1350), Enabled: false},
			{Target: decimal.NewFromInt(1340), Enabled: false},
		},
		Sell: []PriceLevel{
			{Target: decimal.NewFromInt(1450), Enabled: true},
			{Target: decimal.NewFromInt(1460), Enabled: true},
			{Target: decimal.NewFromInt(1470), Enabled: true},
			{Target: decimal.NewFromInt(1480), Enabled: false},
			{Target: decimal.NewFromInt(1490), Enabled: false},
		},
	}
}

// LoadOrDefault decodes a stored settings payload. The payload is accepted
// only when both the buy and the sell sequence are present; anything else
// (nil, malformed JSON, a missing or null side) yields the full built-in
// default. There is no per-field recovery.
func LoadOrDefault(raw []byte) ThresholdSet {
	if len(raw) == 0 {
		return Default()
	}

	var decoded struct {
		Buy  []PriceLevel `json:"buy"`
		Sell []PriceLevel `json:"sell"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Default()
	}
	if decoded.Buy == nil || decoded.Sell == nil {
		return Default()
	}

	return ThresholdSet{Buy: decoded.Buy, Sell: decoded.Sell}
}

// Valid reports whether the set carries both direction sequences.
func (s ThresholdSet) Valid() bool {
	return s.Buy != nil && s.Sell != nil
}
