package settings

import (
	"context"
	"encoding/json"
	"os"

	"krw-rate-alerts/internal/threshold"
)

// EnvSource reads the threshold grid from environment variables. It is one
// more implementation of Source, not a separate code path; saving through
// it is not possible.
type EnvSource struct {
	lookup threshold.LookupFunc
}

// NewEnvSource constructs an environment-backed settings source. A nil
// lookup uses the process environment.
func NewEnvSource(lookup threshold.LookupFunc) *EnvSource {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &EnvSource{lookup: lookup}
}

// Load serialises the env-derived set so callers run through the same
// LoadOrDefault validation as any stored payload.
func (s *EnvSource) Load(ctx context.Context) ([]byte, error) {
	set := threshold.FromEnv(s.lookup)
	return json.Marshal(set)
}

// Save is unsupported for the environment source.
func (s *EnvSource) Save(ctx context.Context, set threshold.ThresholdSet) error {
	return ErrReadOnly
}

var _ Source = (*EnvSource)(nil)
