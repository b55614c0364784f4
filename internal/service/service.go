package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"krw-rate-alerts/internal/alert"
	"krw-rate-alerts/internal/alerting"
	"krw-rate-alerts/internal/fetcher"
	"krw-rate-alerts/internal/scheduler"
	"krw-rate-alerts/internal/settings"
	"krw-rate-alerts/internal/storage"
	"krw-rate-alerts/internal/threshold"
)

// Result summarises one evaluation cycle for the caller.
type Result struct {
	Success         bool
	NoData          bool
	Rate            decimal.Decimal
	CheckedAt       time.Time
	AlertsTriggered int
	Alerts          []alert.Alert
	Thresholds      threshold.ThresholdSet
}

// Options tune service behaviour beyond its collaborators.
type Options struct {
	AlertsEnabled bool
	Dedup         bool
	Timezone      *time.Location
	LockKey       int64
}

// Service orchestrates one evaluation cycle: fetch rate, load settings,
// evaluate thresholds, render and dispatch each alert independently.
type Service struct {
	scheduler  *scheduler.Scheduler
	rates      fetcher.RateFetcher
	source     settings.Source
	crossing   settings.CrossingState
	evaluator  *alert.Evaluator
	notifier   alerting.Notifier
	alertStore storage.AlertStore
	locker     storage.AdvisoryLocker
	logger     zerolog.Logger

	alertsOn bool
	dedup    bool
	loc      *time.Location
	lockKey  int64
}

// New constructs the monitoring service. The notifier, alert store, crossing
// state, and scheduler may each be nil; the cycle degrades around them.
func New(sched *scheduler.Scheduler, rates fetcher.RateFetcher, source settings.Source, crossing settings.CrossingState, notifier alerting.Notifier, alertStore storage.AlertStore, locker storage.AdvisoryLocker, opts Options, logger zerolog.Logger) *Service {
	loc := opts.Timezone
	if loc == nil {
		loc = time.UTC
	}

	return &Service{
		scheduler:  sched,
		rates:      rates,
		source:     source,
		crossing:   crossing,
		evaluator:  alert.NewEvaluator(),
		notifier:   notifier,
		alertStore: alertStore,
		locker:     locker,
		logger:     logger.With().Str("component", "service").Logger(),
		alertsOn:   opts.AlertsEnabled,
		dedup:      opts.Dedup,
		loc:        loc,
		lockKey:    opts.LockKey,
	}
}

// Run begins the scheduled polling loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.ProcessTick)
}

// ProcessTick 执行单次调度周期，必要时先抢占 advisory lock。
func (s *Service) ProcessTick(ctx context.Context, at time.Time) error {
	unlock, proceed, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	if !proceed {
		s.logger.Debug().Time("check_at", at).Msg("skip check because advisory lock held elsewhere")
		return nil
	}
	if unlock != nil {
		defer unlock()
	}

	result, err := s.CheckOnce(ctx, at)
	if err != nil {
		return err
	}

	event := s.logger.Info().Time("check_at", at).Int("alerts", result.AlertsTriggered)
	if result.NoData {
		event.Bool("no_data", true).Msg("no official rate published for today")
	} else {
		event.Str("rate", result.Rate.StringFixed(2)).Msg("check completed")
	}
	return nil
}

// CheckOnce performs one evaluation cycle and returns its summary. A rate
// fetch failure is the only error that fails the cycle; settings and
// notification problems degrade with fallbacks.
func (s *Service) CheckOnce(ctx context.Context, at time.Time) (Result, error) {
	thresholds := s.loadThresholds(ctx)

	rate, err := s.rates.FetchRate(ctx)
	if err != nil {
		if errors.Is(err, fetcher.ErrNoData) {
			return Result{
				Success:    true,
				NoData:     true,
				CheckedAt:  at,
				Alerts:     []alert.Alert{},
				Thresholds: thresholds,
			}, nil
		}
		return Result{CheckedAt: at, Thresholds: thresholds}, fmt.Errorf("fetch rate: %w", err)
	}

	triggered := s.evaluator.Evaluate(rate, thresholds, at)
	if s.dedup {
		triggered = s.filterCrossings(ctx, triggered)
	}

	if s.alertsOn {
		s.dispatch(ctx, triggered)
	}

	return Result{
		Success:         true,
		Rate:            rate,
		CheckedAt:       at,
		AlertsTriggered: len(triggered),
		Alerts:          triggered,
		Thresholds:      thresholds,
	}, nil
}

// CurrentSettings returns the effective threshold set the next cycle would use.
func (s *Service) CurrentSettings(ctx context.Context) threshold.ThresholdSet {
	return s.loadThresholds(ctx)
}

// ReplaceSettings overwrites the stored threshold set wholesale.
func (s *Service) ReplaceSettings(ctx context.Context, set threshold.ThresholdSet) error {
	if s.source == nil {
		return fmt.Errorf("settings store not configured")
	}
	if !set.Valid() {
		return fmt.Errorf("settings must carry both buy and sell levels")
	}
	return s.source.Save(ctx, set)
}

// loadThresholds reads the stored settings, falling back to the built-in
// default whenever the store is unreachable or the payload is malformed.
func (s *Service) loadThresholds(ctx context.Context) threshold.ThresholdSet {
	if s.source == nil {
		return threshold.Default()
	}

	raw, err := s.source.Load(ctx)
	if err != nil {
		if !errors.Is(err, settings.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("settings unavailable; using built-in defaults")
		}
		return threshold.Default()
	}
	return threshold.LoadOrDefault(raw)
}

// dispatch renders and sends each alert in order. One failed send is logged
// and never blocks the remaining sends.
func (s *Service) dispatch(ctx context.Context, alerts []alert.Alert) {
	for _, a := range alerts {
		if s.alertStore != nil {
			record := storage.AlertRecord{
				CheckedAt: a.At,
				Direction: string(a.Direction),
				Stage:     a.Stage,
				Target:    a.Target,
				Rate:      a.Rate,
			}
			if _, err := s.alertStore.InsertAlert(ctx, record); err != nil {
				s.logger.Error().Err(err).Str("direction", string(a.Direction)).Int("stage", a.Stage).Msg("failed to persist alert record")
			}
		}

		if s.notifier == nil {
			continue
		}
		if err := s.notifier.Notify(ctx, alert.Render(a, s.loc)); err != nil {
			s.logger.Error().Err(err).Str("direction", string(a.Direction)).Int("stage", a.Stage).Msg("failed to dispatch alert")
		}
	}
}

// filterCrossings keeps only alerts whose level moved from not-crossed to
// crossed since the previous cycle, then stores the new crossing map. Any
// state store problem degrades to the re-fire-every-cycle baseline.
func (s *Service) filterCrossings(ctx context.Context, triggered []alert.Alert) []alert.Alert {
	if s.crossing == nil {
		return triggered
	}

	previous, err := s.crossing.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("crossing state unavailable; dedup skipped this cycle")
		previous = map[string]bool{}
	}

	current := map[string]bool{}
	for _, a := range triggered {
		current[crossingKey(a.Direction, a.Stage)] = true
	}

	kept := make([]alert.Alert, 0, len(triggered))
	for _, a := range triggered {
		if !previous[crossingKey(a.Direction, a.Stage)] {
			kept = append(kept, a)
		}
	}

	if err := s.crossing.Save(ctx, current); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store crossing state")
	}
	return kept
}

func crossingKey(direction alert.Direction, stage int) string {
	return fmt.Sprintf("%s:%d", direction, stage)
}

func (s *Service) acquireLock(ctx context.Context) (func(), bool, error) {
	if s.lockKey == 0 || s.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := s.locker.TryAdvisoryLock(ctx, s.lockKey)
	if err != nil {
		return nil, false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}
