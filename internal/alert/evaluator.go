package alert

import (
	"time"

	"github.com/shopspring/decimal"

	"krw-rate-alerts/internal/threshold"
)

// Evaluator decides which thresholds fire for a given rate. It keeps no
// state between calls: identical inputs always produce identical output,
// and a level that stays crossed re-fires every cycle.
type Evaluator struct{}

// NewEvaluator constructs an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate returns the triggered alerts for the current rate, buy alerts
// first, each direction in ascending stage order. Comparisons are inclusive:
// a buy level fires when rate <= target, a sell level when rate >= target.
// The two directions are evaluated independently; target ordering across
// them is the user's responsibility.
func (e *Evaluator) Evaluate(rate decimal.Decimal, set threshold.ThresholdSet, at time.Time) []Alert {
	alerts := make([]Alert, 0)

	for i, level := range set.Buy {
		if !level.Eligible() {
			continue
		}
		if rate.LessThanOrEqual(level.Target) {
			alerts = append(alerts, Alert{
				Direction: DirectionBuy,
				Stage:     i + 1,
				Target:    level.Target,
				Rate:      rate,
				At:        at,
			})
		}
	}

	for i, level := range set.Sell {
		if !level.Eligible() {
			continue
		}
		if rate.GreaterThanOrEqual(level.Target) {
			alerts = append(alerts, Alert{
				Direction: DirectionSell,
				Stage:     i + 1,
				Target:    level.Target,
				Rate:      rate,
				At:        at,
			})
		}
	}

	return alerts
}
