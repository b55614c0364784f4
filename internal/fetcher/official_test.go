package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestOfficialMissingAuthKey(t *testing.T) {
	off := NewOfficial(OfficialOptions{}, noopLogger())
	if _, err := off.FetchRate(context.Background()); err == nil {
		t.Fatal("未配置 auth key 时应报错")
	}
}

func TestOfficialFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("authkey") != "test-key" {
			t.Fatalf("authkey 参数缺失: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("data") != "AP01" {
			t.Fatalf("data 参数应为 AP01")
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"result": 1, "cur_unit": "JPY(100)", "deal_bas_r": "931.21", "cur_nm": "일본 옌"},
			{"result": 1, "cur_unit": "USD", "deal_bas_r": "1,385.20", "cur_nm": "미국 달러"},
		})
	}))
	defer srv.Close()

	off := NewOfficial(OfficialOptions{BaseURL: srv.URL, AuthKey: "test-key", Timeout: time.Second, Location: time.UTC}, noopLogger())

	rate, err := off.FetchRate(context.Background())
	if err != nil {
		t.Fatalf("成功响应不应报错: %v", err)
	}
	if !rate.Equal(decimal.NewFromFloat(1385.20)) {
		t.Fatalf("期望汇率 1385.20, 实际 %s", rate.String())
	}
}

func TestOfficialFetchNonBusinessDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	off := NewOfficial(OfficialOptions{BaseURL: srv.URL, AuthKey: "test-key", Timeout: time.Second, Location: time.UTC}, noopLogger())

	_, err := off.FetchRate(context.Background())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("空响应应映射为 ErrNoData, 实际 %v", err)
	}
}

func TestOfficialFetchBadResultCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"result": 4, "cur_unit": "USD", "deal_bas_r": ""},
		})
	}))
	defer srv.Close()

	off := NewOfficial(OfficialOptions{BaseURL: srv.URL, AuthKey: "test-key", Timeout: time.Second, Location: time.UTC}, noopLogger())

	_, err := off.FetchRate(context.Background())
	if err == nil || errors.Is(err, ErrNoData) {
		t.Fatalf("result != 1 应报错且不是 ErrNoData, 实际 %v", err)
	}
}
