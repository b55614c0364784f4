package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"krw-rate-alerts/internal/fetcher"
	"krw-rate-alerts/internal/service"
)

// SimulateAlert 用给定汇率跑一次完整的评估与告警流程。
func (a *App) SimulateAlert(ctx context.Context, rate decimal.Decimal) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting 未启用")
	}

	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("未配置任何告警通道")
	}

	opts := service.Options{
		AlertsEnabled: true,
		Timezone:      a.timezone(),
	}
	svc := service.New(nil, &staticRateFetcher{rate: rate}, a.newSource(), nil, notifier, nil, nil, opts, a.Logger)

	result, err := svc.CheckOnce(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	a.Logger.Info().
		Str("rate", result.Rate.StringFixed(2)).
		Int("alerts", result.AlertsTriggered).
		Msg("simulation completed")
	if result.AlertsTriggered == 0 {
		return fmt.Errorf("rate %s 没有触发任何阈值", rate.StringFixed(2))
	}
	return nil
}

type staticRateFetcher struct {
	rate decimal.Decimal
}

func (s *staticRateFetcher) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	return s.rate, nil
}

var _ fetcher.RateFetcher = (*staticRateFetcher)(nil)
