package settings

import (
	"context"
	"errors"

	"krw-rate-alerts/internal/threshold"
)

// ErrNotFound indicates no settings payload exists under the fixed key.
var ErrNotFound = errors.New("settings: not found")

// ErrReadOnly indicates the source cannot persist replacements.
var ErrReadOnly = errors.New("settings: source is read-only")

// Source is the persistence boundary for threshold settings. Load returns
// the raw stored payload; validation and the default fallback live in the
// threshold package so every caller degrades identically. Save replaces the
// stored set wholesale, last write wins.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, set threshold.ThresholdSet) error
}
