package settings

import (
	"context"
	"errors"
	"testing"

	"krw-rate-alerts/internal/threshold"
)

func TestEnvSourceLoadRoundTrips(t *testing.T) {
	env := map[string]string{
		"BUY_TARGET_1":   "1380",
		"BUY_ENABLED_1":  "true",
		"SELL_TARGET_1":  "1450",
		"SELL_ENABLED_1": "true",
	}
	src := NewEnvSource(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	raw, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("env load should not fail: %v", err)
	}

	set := threshold.LoadOrDefault(raw)
	if len(set.Buy) != threshold.Stages || len(set.Sell) != threshold.Stages {
		t.Fatalf("env payload should validate as a full set, got %+v", set)
	}
	if !set.Buy[0].Eligible() {
		t.Fatal("buy stage 1 should be eligible")
	}
	if set.Buy[1].Eligible() {
		t.Fatal("unset stages must stay inert")
	}
}

func TestEnvSourceIsReadOnly(t *testing.T) {
	src := NewEnvSource(func(string) (string, bool) { return "", false })

	err := src.Save(context.Background(), threshold.Default())
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("env source save should report ErrReadOnly, got %v", err)
	}
}
