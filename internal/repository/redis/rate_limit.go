package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CodyErekson/kitchenKiosk/internal/core/port"
)

// DefaultKeyPrefix namespaces login attempt keys in a shared Redis instance.
const DefaultKeyPrefix = "kiosk:login_attempts"

// LoginAttemptConfig tunes the sliding-window attempt store.
type LoginAttemptConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// LoginAttemptStore records login attempts in Redis sorted sets scored by
// attempt time, which lets the sliding window be trimmed and counted with
// range operations.
type LoginAttemptStore struct {
	client *redis.Client
	cfg    LoginAttemptConfig
}

// NewLoginAttemptStore constructs a store using the provided Redis client and config.
func NewLoginAttemptStore(client *redis.Client, cfg LoginAttemptConfig) *LoginAttemptStore {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &LoginAttemptStore{client: client, cfg: cfg}
}

// RecordAttempt stores the provided timestamp and refreshes the key TTL.
func (s *LoginAttemptStore) RecordAttempt(ctx context.Context, identifier string, at time.Time) error {
	key := s.key(identifier)
	nanos := at.UnixNano()

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(nanos), Member: nanos})
	if s.cfg.TTL > 0 {
		pipe.Expire(ctx, key, s.cfg.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}

	return nil
}

// CountAttempts returns how many attempts fall inside the window ending at reference.
func (s *LoginAttemptStore) CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	min, max, err := windowBounds(window, reference)
	if err != nil {
		return 0, err
	}

	count, err := s.client.ZCount(ctx, s.key(identifier), min, max).Result()
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}

	return int(count), nil
}

// TrimWindow drops attempts older than the window relative to reference.
func (s *LoginAttemptStore) TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error {
	min, _, err := windowBounds(window, reference)
	if err != nil {
		return err
	}

	if err := s.client.ZRemRangeByScore(ctx, s.key(identifier), "-inf", min).Err(); err != nil {
		return fmt.Errorf("trim attempts: %w", err)
	}

	return nil
}

// OldestAttempt returns the earliest attempt remaining inside the active
// window, which callers use to compute the retry-after delay.
func (s *LoginAttemptStore) OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	min, max, err := windowBounds(window, reference)
	if err != nil {
		return time.Time{}, false, err
	}

	values, err := s.client.ZRangeByScore(ctx, s.key(identifier), &redis.ZRangeBy{
		Min:   min,
		Max:   max,
		Count: 1,
	}).Result()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("oldest attempt: %w", err)
	}
	if len(values) == 0 {
		return time.Time{}, false, nil
	}

	nanos, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse attempt timestamp: %w", err)
	}

	return time.Unix(0, nanos), true, nil
}

func windowBounds(window time.Duration, reference time.Time) (string, string, error) {
	if window <= 0 {
		return "", "", errors.New("window must be positive")
	}
	min := strconv.FormatFloat(float64(reference.Add(-window).UnixNano()), 'f', -1, 64)
	max := strconv.FormatFloat(float64(reference.UnixNano()), 'f', -1, 64)
	return min, max, nil
}

func (s *LoginAttemptStore) key(identifier string) string {
	return fmt.Sprintf("%s:%s", s.cfg.KeyPrefix, identifier)
}

var _ port.RateLimitStore = (*LoginAttemptStore)(nil)
