package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"krw-rate-alerts/internal/threshold"
)

// DefaultKey is the fixed settings identifier. There is no per-user
// namespacing; the whole deployment shares one set.
const DefaultKey = "usdkrw-settings"

// RedisOptions parameterise the Redis-backed settings source.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisSource stores the ThresholdSet as a single JSON blob under a fixed
// key, overwrite-replace semantics only.
type RedisSource struct {
	client *redis.Client
	key    string
	logger zerolog.Logger
}

// NewRedisSource constructs a settings source over a Redis connection.
func NewRedisSource(opts RedisOptions, logger zerolog.Logger) *RedisSource {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}

	return &RedisSource{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		key:    key,
		logger: logger.With().Str("component", "settings_redis").Logger(),
	}
}

// Load returns the raw stored payload, or ErrNotFound when the key is absent.
func (s *RedisSource) Load(ctx context.Context) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("settings get: %w", err)
	}
	return raw, nil
}

// Save overwrites the stored set wholesale.
func (s *RedisSource) Save(ctx context.Context, set threshold.ThresholdSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("settings set: %w", err)
	}
	s.logger.Info().Str("key", s.key).Msg("settings replaced")
	return nil
}

// Close releases the underlying Redis client.
func (s *RedisSource) Close() error {
	return s.client.Close()
}

var _ Source = (*RedisSource)(nil)
