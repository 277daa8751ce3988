package lockout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	id "zonegate/pkg/domain"
	"zonegate/pkg/requestcontext"
)

const attemptKeyPrefix = "lockout:user:"

// RedisStore shares attempt state across instances. Records carry a TTL of
// the window passed to RecordFailure so stale entries age out of Redis on
// their own.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, userID id.UserID) (*AttemptRecord, error) {
	values, err := s.client.HGetAll(ctx, attemptKeyPrefix+userID.String()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get attempt record: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	count, err := strconv.Atoi(values["count"])
	if err != nil {
		return nil, fmt.Errorf("parse attempt count: %w", err)
	}
	lastNanos, err := strconv.ParseInt(values["last_failure"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse last failure time: %w", err)
	}
	return &AttemptRecord{
		UserID:        userID,
		FailureCount:  count,
		LastFailureAt: time.Unix(0, lastNanos),
	}, nil
}

func (s *RedisStore) RecordFailure(ctx context.Context, userID id.UserID, window time.Duration) (*AttemptRecord, error) {
	now := requestcontext.Now(ctx)
	key := attemptKeyPrefix + userID.String()

	// The TTL doubles as the implicit reset: once the window lapses the key
	// is gone and the next failure starts a fresh count.
	pipe := s.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, key, "count", 1)
	pipe.HSet(ctx, key, "last_failure", now.UnixNano())
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("record failure: %w", err)
	}

	return &AttemptRecord{
		UserID:        userID,
		FailureCount:  int(incr.Val()),
		LastFailureAt: now,
	}, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID id.UserID) error {
	if err := s.client.Del(ctx, attemptKeyPrefix+userID.String()).Err(); err != nil {
		return fmt.Errorf("clear attempt record: %w", err)
	}
	return nil
}
