package threshold

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Stages is the conventional number of levels per direction.
const Stages = 5

// LookupFunc resolves an environment variable, reporting presence.
type LookupFunc func(key string) (string, bool)

// FromEnv assembles a ThresholdSet from the BUY_TARGET_i / BUY_ENABLED_i /
// SELL_TARGET_i / SELL_ENABLED_i variable grid, i in 1..5. A missing or
// non-numeric target parses to zero, which keeps the level ineligible.
func FromEnv(lookup LookupFunc) ThresholdSet {
	return ThresholdSet{
		Buy:  levelsFromEnv(lookup, "BUY"),
		Sell: levelsFromEnv(lookup, "SELL"),
	}
}

func levelsFromEnv(lookup LookupFunc, direction string) []PriceLevel {
	levels := make([]PriceLevel, 0, Stages)
	for i := 1; i <= Stages; i++ {
		target := decimal.Zero
		if raw, ok := lookup(fmt.Sprintf("%s_TARGET_%d", direction, i)); ok {
			if parsed, err := decimal.NewFromString(raw); err == nil {
				target = parsed
			}
		}

		enabled := false
		if raw, ok := lookup(fmt.Sprintf("%s_ENABLED_%d", direction, i)); ok {
			enabled = raw == "true"
		}

		levels = append(levels, PriceLevel{Target: target, Enabled: enabled})
	}
	return levels
}
