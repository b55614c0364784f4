package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"krw-rate-alerts/internal/config"
	"krw-rate-alerts/internal/service"
	"krw-rate-alerts/internal/threshold"
)

// CycleService is the slice of the service the HTTP surface needs.
type CycleService interface {
	CheckOnce(ctx context.Context, at time.Time) (service.Result, error)
	CurrentSettings(ctx context.Context) threshold.ThresholdSet
	ReplaceSettings(ctx context.Context, set threshold.ThresholdSet) error
}

// Server exposes the evaluation cycle and the settings store to the
// companion UI as a small JSON API.
type Server struct {
	svc    CycleService
	cfg    config.ServerConfig
	loc    *time.Location
	logger zerolog.Logger
}

// NewServer constructs the UI-facing HTTP server.
func NewServer(svc CycleService, cfg config.ServerConfig, loc *time.Location, logger zerolog.Logger) *Server {
	if loc == nil {
		loc = time.UTC
	}
	return &Server{
		svc:    svc,
		cfg:    cfg,
		loc:    loc,
		logger: logger.With().Str("component", "httpserver").Logger(),
	}
}

// RegisterRoutes builds the route table.
func (s *Server) RegisterRoutes() http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("/api/check-rate", s.handleCheckRate)
	router.HandleFunc("/api/settings", s.handleSettings)
	router.HandleFunc("/health", s.handleHealth)
	return router
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.RegisterRoutes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
