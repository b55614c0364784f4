package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"krw-rate-alerts/internal/threshold"
)

// Check runs a single evaluation cycle immediately and prints its summary.
func (a *App) Check(ctx context.Context) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	svc := a.newService(nil, store)

	result, err := svc.CheckOnce(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	loc := a.timezone()
	if result.NoData {
		fmt.Fprintf(os.Stdout, "no rate published for %s\n", result.CheckedAt.In(loc).Format("2006-01-02"))
		return nil
	}

	fmt.Fprintf(os.Stdout, "rate: ₩%s at %s\n", result.Rate.StringFixed(2), result.CheckedAt.In(loc).Format(time.RFC3339))
	fmt.Fprintf(os.Stdout, "alerts triggered: %d\n", result.AlertsTriggered)
	for _, alert := range result.Alerts {
		fmt.Fprintf(os.Stdout, "  %s stage %d (target ₩%s)\n", alert.Direction, alert.Stage, alert.Target.StringFixed(2))
	}

	printLevels(os.Stdout, "buy", result.Thresholds.Buy)
	printLevels(os.Stdout, "sell", result.Thresholds.Sell)
	return nil
}

func printLevels(w *os.File, direction string, levels []threshold.PriceLevel) {
	fmt.Fprintf(w, "%s targets:\n", direction)
	for i, level := range levels {
		marker := " "
		if level.Enabled {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s stage %d: ₩%s\n", marker, i+1, level.Target.StringFixed(2))
	}
}
