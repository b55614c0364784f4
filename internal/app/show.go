package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Show prints recently audited alerts.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show alerts")
	}
	if closeStore != nil {
		defer closeStore()
	}

	alerts, err := store.ListRecentAlerts(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Fprintln(os.Stdout, "no alerts found")
		return nil
	}

	loc := a.timezone()
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Checked At\tDirection\tStage\tTarget\tRate")

	for _, alert := range alerts {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%d\t%s\t%s\n",
			alert.CheckedAt.In(loc).Format(time.RFC3339),
			alert.Direction,
			alert.Stage,
			alert.Target.StringFixed(2),
			alert.Rate.StringFixed(2),
		)
	}

	writer.Flush()
	return nil
}
