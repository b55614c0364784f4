package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const officialRatePath = "/site/program/financial/exchangeJSON"

// OfficialOptions parameterise the Korea Eximbank daily rate fetcher.
type OfficialOptions struct {
	BaseURL  string
	AuthKey  string
	Timeout  time.Duration
	Location *time.Location
}

// Official fetches the published daily deal base rate. The table is only
// published on business days; an empty response maps to ErrNoData.
type Official struct {
	opts    OfficialOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
	loc     *time.Location
}

// NewOfficial constructs an official daily rate fetcher.
func NewOfficial(opts OfficialOptions, logger zerolog.Logger) *Official {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.koreaexim.go.kr"
	}

	loc := opts.Location
	if loc == nil {
		if seoul, err := time.LoadLocation("Asia/Seoul"); err == nil {
			loc = seoul
		} else {
			loc = time.UTC
		}
	}

	return &Official{
		opts:    opts,
		logger:  logger.With().Str("component", "official_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		loc:     loc,
	}
}

// FetchRate retrieves today's USD deal base rate.
func (o *Official) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	if o.opts.AuthKey == "" {
		return decimal.Decimal{}, errors.New("eximbank auth key not configured")
	}

	query := url.Values{}
	query.Set("authkey", o.opts.AuthKey)
	query.Set("searchdate", time.Now().In(o.loc).Format("20060102"))
	query.Set("data", "AP01")

	endpoint := o.baseURL + officialRatePath + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("eximbank api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var rows []officialRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode eximbank response: %w", err)
	}

	// 非营业日接口返回空数组。
	if len(rows) == 0 {
		return decimal.Decimal{}, ErrNoData
	}

	for _, row := range rows {
		if !strings.HasPrefix(row.CurUnit, "USD") {
			continue
		}
		if row.Result != 1 {
			return decimal.Decimal{}, fmt.Errorf("eximbank result code %d", row.Result)
		}

		rate, err := decimal.NewFromString(strings.ReplaceAll(row.DealBasR, ",", ""))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("parse deal base rate: %w", err)
		}
		if !rate.IsPositive() {
			return decimal.Decimal{}, errors.New("eximbank returned non-positive rate")
		}
		return rate, nil
	}

	return decimal.Decimal{}, errors.New("eximbank response missing USD row")
}

type officialRow struct {
	Result   int    `json:"result"`
	CurUnit  string `json:"cur_unit"`
	DealBasR string `json:"deal_bas_r"`
	CurNm    string `json:"cur_nm"`
}

var _ RateFetcher = (*Official)(nil)
