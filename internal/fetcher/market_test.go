package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestMarketFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/latest/USD" {
			t.Fatalf("路径应为 /v4/latest/USD, 实际 %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"base": "USD",
			"date": "2025-03-14",
			"rates": map[string]any{
				"KRW": 1385.23,
				"JPY": 148.1,
			},
		})
	}))
	defer srv.Close()

	m := NewMarket(MarketOptions{BaseURL: srv.URL, Timeout: time.Second, UserAgent: "test"}, noopLogger())

	rate, err := m.FetchRate(context.Background())
	if err != nil {
		t.Fatalf("成功响应不应报错: %v", err)
	}
	if !rate.Equal(decimal.NewFromFloat(1385.23)) {
		t.Fatalf("期望汇率 1385.23, 实际 %s", rate.String())
	}
}

func TestMarketFetchMissingKRW(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"rates": map[string]any{"JPY": 148.1},
		})
	}))
	defer srv.Close()

	m := NewMarket(MarketOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := m.FetchRate(context.Background()); err == nil {
		t.Fatal("缺少 KRW 条目时应返回错误")
	}
}

func TestMarketFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := NewMarket(MarketOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := m.FetchRate(context.Background()); err == nil {
		t.Fatal("HTTP 502 应返回错误")
	}
}

func TestMarketFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	m := NewMarket(MarketOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := m.FetchRate(context.Background()); err == nil {
		t.Fatal("响应体损坏时应返回错误")
	}
}
