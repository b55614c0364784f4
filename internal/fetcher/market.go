package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const marketLatestPath = "/v4/latest/USD"

// MarketOptions parameterise the free market rate table fetcher.
type MarketOptions struct {
	BaseURL   string
	Currency  string
	Timeout   time.Duration
	UserAgent string
}

// Market fetches the latest USD rate table and picks out the KRW entry.
type Market struct {
	opts    MarketOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewMarket constructs a market rate fetcher.
func NewMarket(opts MarketOptions, logger zerolog.Logger) *Market {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.exchangerate-api.com"
	}

	if opts.Currency == "" {
		opts.Currency = "KRW"
	}

	return &Market{
		opts:    opts,
		logger:  logger.With().Str("component", "market_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// FetchRate retrieves the current USD/KRW rate from the latest table.
func (m *Market) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	endpoint := m.baseURL + marketLatestPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(m.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("rate api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var table latestResponse
	if err := json.Unmarshal(payload, &table); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode rate table: %w", err)
	}

	raw, ok := table.Rates[m.opts.Currency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("rate table missing %s entry", m.opts.Currency)
	}

	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s rate: %w", m.opts.Currency, err)
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, errors.New("rate table returned non-positive rate")
	}

	return rate, nil
}

type latestResponse struct {
	Base  string                 `json:"base"`
	Date  string                 `json:"date"`
	Rates map[string]json.Number `json:"rates"`
}

var _ RateFetcher = (*Market)(nil)
