package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// CrossingState remembers which levels were already in a triggered position
// after the previous cycle, keyed by direction+stage (e.g. "BUY:2"). It
// backs the optional notify-once-per-crossing mode; the store is
// best-effort and a read failure degrades to the re-fire-every-cycle
// baseline.
type CrossingState interface {
	Load(ctx context.Context) (map[string]bool, error)
	Save(ctx context.Context, state map[string]bool) error
}

// RedisCrossingState persists the crossing map as JSON next to the
// settings key.
type RedisCrossingState struct {
	client *redis.Client
	key    string
	logger zerolog.Logger
}

// NewRedisCrossingState constructs the Redis-backed crossing store.
func NewRedisCrossingState(opts RedisOptions, logger zerolog.Logger) *RedisCrossingState {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}

	return &RedisCrossingState{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		key:    key + ":crossed",
		logger: logger.With().Str("component", "crossing_state").Logger(),
	}
}

// Load returns the stored crossing map; an absent key is an empty map.
func (s *RedisCrossingState) Load(ctx context.Context) (map[string]bool, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("crossing state get: %w", err)
	}

	state := map[string]bool{}
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode crossing state: %w", err)
	}
	return state, nil
}

// Save overwrites the crossing map.
func (s *RedisCrossingState) Save(ctx context.Context, state map[string]bool) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal crossing state: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("crossing state set: %w", err)
	}
	return nil
}

var _ CrossingState = (*RedisCrossingState)(nil)
