package app

import (
	"context"
	"os/signal"
	"syscall"

	"krw-rate-alerts/internal/httpserver"
)

// Serve runs the HTTP surface for the companion UI. Each check-rate request
// drives one evaluation cycle on demand; there is no background scheduler
// in this mode.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	svc := a.newService(nil, store)
	server := httpserver.NewServer(svc, a.Config.Server, a.timezone(), a.Logger)
	return server.Start(ctx)
}
