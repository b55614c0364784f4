package alert

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"krw-rate-alerts/internal/threshold"
)

var testTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func level(target float64, enabled bool) threshold.PriceLevel {
	return threshold.PriceLevel{Target: decimal.NewFromFloat(target), Enabled: enabled}
}

func TestEvaluateBuyStages(t *testing.T) {
	set := threshold.ThresholdSet{
		Buy: []threshold.PriceLevel{
			level(1380, true), level(1370, true), level(1360, true),
			level(1350, false), level(1340, false),
		},
		Sell: []threshold.PriceLevel{
			level(1450, false), level(1460, false), level(1470, false),
			level(1480, false), level(1490, false),
		},
	}

	alerts := NewEvaluator().Evaluate(decimal.NewFromFloat(1360.00), set, testTime)

	if len(alerts) != 3 {
		t.Fatalf("expected 3 buy alerts, got %d", len(alerts))
	}
	wantTargets := []int64{1380, 1370, 1360}
	for i, a := range alerts {
		if a.Direction != DirectionBuy {
			t.Fatalf("alert %d direction = %s, want BUY", i, a.Direction)
		}
		if a.Stage != i+1 {
			t.Fatalf("alert %d stage = %d, want %d", i, a.Stage, i+1)
		}
		if !a.Target.Equal(decimal.NewFromInt(wantTargets[i])) {
			t.Fatalf("alert %d target = %s, want %d", i, a.Target, wantTargets[i])
		}
	}
}

func TestEvaluateSellStagesSkipDisabled(t *testing.T) {
	set := threshold.Default()
	// 1500 is beyond every sell target, including the disabled ones.
	alerts := NewEvaluator().Evaluate(decimal.NewFromFloat(1500.00), set, testTime)

	if len(alerts) != 3 {
		t.Fatalf("expected 3 sell alerts, got %d", len(alerts))
	}
	wantTargets := []int64{1450, 1460, 1470}
	for i, a := range alerts {
		if a.Direction != DirectionSell {
			t.Fatalf("alert %d direction = %s, want SELL", i, a.Direction)
		}
		if a.Stage != i+1 {
			t.Fatalf("alert %d stage = %d, want %d", i, a.Stage, i+1)
		}
		if !a.Target.Equal(decimal.NewFromInt(wantTargets[i])) {
			t.Fatalf("alert %d target = %s, want %d", i, a.Target, wantTargets[i])
		}
	}
}

func TestEvaluateQuietBand(t *testing.T) {
	alerts := NewEvaluator().Evaluate(decimal.NewFromFloat(1432.50), threshold.Default(), testTime)
	if len(alerts) != 0 {
		t.Fatalf("rate between all enabled targets should trigger nothing, got %d", len(alerts))
	}
}

func TestEvaluateInclusiveBoundary(t *testing.T) {
	ev := NewEvaluator()

	buyAlerts := ev.Evaluate(decimal.NewFromFloat(1380.00), threshold.Default(), testTime)
	if len(buyAlerts) != 1 || buyAlerts[0].Direction != DirectionBuy || buyAlerts[0].Stage != 1 {
		t.Fatalf("rate exactly at buy target must trigger stage 1, got %+v", buyAlerts)
	}

	sellAlerts := ev.Evaluate(decimal.NewFromFloat(1450.00), threshold.Default(), testTime)
	if len(sellAlerts) != 1 || sellAlerts[0].Direction != DirectionSell || sellAlerts[0].Stage != 1 {
		t.Fatalf("rate exactly at sell target must trigger stage 1, got %+v", sellAlerts)
	}
}

func TestEvaluateAllDisabled(t *testing.T) {
	set := threshold.ThresholdSet{
		Buy:  []threshold.PriceLevel{level(1380, false), level(1370, false)},
		Sell: []threshold.PriceLevel{level(1450, false), level(1460, false)},
	}

	for _, rate := range []float64{1, 1380, 1450, 99999} {
		if alerts := NewEvaluator().Evaluate(decimal.NewFromFloat(rate), set, testTime); len(alerts) != 0 {
			t.Fatalf("all-disabled set triggered at rate %v", rate)
		}
	}
}

func TestEvaluateNonPositiveTargetsNeverTrigger(t *testing.T) {
	set := threshold.ThresholdSet{
		Buy:  []threshold.PriceLevel{level(0, true), level(-10, true)},
		Sell: []threshold.PriceLevel{level(0, true)},
	}

	if alerts := NewEvaluator().Evaluate(decimal.NewFromFloat(1400), set, testTime); len(alerts) != 0 {
		t.Fatalf("non-positive targets must stay inert, got %+v", alerts)
	}
}

func TestEvaluateBuyBeforeSellOrdering(t *testing.T) {
	// Misconfigured on purpose: a sell target below the current rate fires
	// alongside buy alerts. Directions are independent.
	set := threshold.ThresholdSet{
		Buy:  []threshold.PriceLevel{level(1400, true), level(1390, true)},
		Sell: []threshold.PriceLevel{level(1300, true)},
	}

	alerts := NewEvaluator().Evaluate(decimal.NewFromFloat(1385), set, testTime)
	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(alerts))
	}
	if alerts[0].Direction != DirectionBuy || alerts[0].Stage != 1 {
		t.Fatalf("first alert should be buy stage 1, got %+v", alerts[0])
	}
	if alerts[1].Direction != DirectionBuy || alerts[1].Stage != 2 {
		t.Fatalf("second alert should be buy stage 2, got %+v", alerts[1])
	}
	if alerts[2].Direction != DirectionSell || alerts[2].Stage != 1 {
		t.Fatalf("sell alerts must come after all buy alerts, got %+v", alerts[2])
	}
}

func TestEvaluateIsPure(t *testing.T) {
	ev := NewEvaluator()
	rate := decimal.NewFromFloat(1360)
	set := threshold.Default()

	first := ev.Evaluate(rate, set, testTime)
	second := ev.Evaluate(rate, set, testTime)

	if len(first) != len(second) {
		t.Fatalf("repeat evaluation changed alert count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		same := first[i].Direction == second[i].Direction &&
			first[i].Stage == second[i].Stage &&
			first[i].Target.Equal(second[i].Target) &&
			first[i].Rate.Equal(second[i].Rate) &&
			first[i].At.Equal(second[i].At)
		if !same {
			t.Fatalf("repeat evaluation diverged at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestEvaluateEmptySet(t *testing.T) {
	if alerts := NewEvaluator().Evaluate(decimal.NewFromFloat(1400), threshold.ThresholdSet{}, testTime); len(alerts) != 0 {
		t.Fatal("empty threshold set must trigger nothing")
	}
}
