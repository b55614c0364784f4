package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"krw-rate-alerts/internal/alerting"
	"krw-rate-alerts/internal/config"
	"krw-rate-alerts/internal/fetcher"
	"krw-rate-alerts/internal/scheduler"
	"krw-rate-alerts/internal/service"
	"krw-rate-alerts/internal/settings"
	"krw-rate-alerts/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() fetcher.RateFetcher {
	if a.Config.Rate.Provider == "official" {
		return fetcher.NewOfficial(fetcher.OfficialOptions{
			BaseURL: a.Config.Rate.OfficialBaseURL,
			AuthKey: a.Config.Rate.OfficialAuthKey,
			Timeout: a.Config.Rate.RequestTimeout,
		}, a.Logger)
	}

	return fetcher.NewMarket(fetcher.MarketOptions{
		BaseURL:   a.Config.Rate.MarketBaseURL,
		Currency:  a.Config.Rate.Currency,
		Timeout:   a.Config.Rate.RequestTimeout,
		UserAgent: a.Config.Rate.UserAgent,
	}, a.Logger)
}

func (a *App) newSource() settings.Source {
	if a.Config.Settings.Source == "env" {
		return settings.NewEnvSource(nil)
	}
	return settings.NewRedisSource(a.redisOptions(), a.Logger)
}

func (a *App) newCrossingState() settings.CrossingState {
	if !a.Config.Alerting.Dedup || a.Config.Settings.Source != "redis" {
		return nil
	}
	return settings.NewRedisCrossingState(a.redisOptions(), a.Logger)
}

func (a *App) redisOptions() settings.RedisOptions {
	return settings.RedisOptions{
		Addr:     a.Config.Settings.RedisAddr,
		Password: a.Config.Settings.RedisPassword,
		DB:       a.Config.Settings.RedisDB,
		Key:      a.Config.Settings.Key,
	}
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) timezone() *time.Location {
	name := a.Config.Alerting.Timezone
	if name == "" {
		name = "Asia/Seoul"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		a.Logger.Warn().Str("timezone", name).Msg("unknown timezone; falling back to UTC")
		return time.UTC
	}
	return loc
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

func (a *App) newService(sched *scheduler.Scheduler, store *storage.Store) *service.Service {
	var alertStore storage.AlertStore
	var locker storage.AdvisoryLocker
	if store != nil {
		alertStore = store
		locker = store
	}

	opts := service.Options{
		AlertsEnabled: a.Config.Alerting.Enabled,
		Dedup:         a.Config.Alerting.Dedup,
		Timezone:      a.timezone(),
		LockKey:       a.Config.Scheduler.AdvisoryLockKey,
	}

	return service.New(sched, a.newFetcher(), a.newSource(), a.newCrossingState(), a.newNotifier(), alertStore, locker, opts, a.Logger)
}

// Run executes the long-running polling service.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; alert auditing disabled")
	}
	if closeStore != nil {
		defer closeStore()
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToInterval,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	svc := a.newService(sched, store)

	a.Logger.Info().Msg("starting polling service")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("polling service stopped")
	return nil
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}
