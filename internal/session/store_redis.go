package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "zonegate/pkg/domain"
	"zonegate/pkg/platform/sentinel"
)

const (
	sessionKeyPrefix  = "session:id:"
	userSetKeyPrefix  = "session:user:"
	executeMaxRetries = 3
)

// RedisStore shares the session registry across instances. Records are
// JSON blobs with a TTL at the session's expiration time; a per-user set
// supports listing.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(sessionID id.SessionID) string { return sessionKeyPrefix + sessionID.String() }
func userSetKey(userID id.UserID) string       { return userSetKeyPrefix + userID.String() }

func (s *RedisStore) Save(ctx context.Context, session *Session) error {
	blob, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(session.ExpirationTime)
	if ttl <= 0 {
		return sentinel.ErrExpired
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), blob, ttl)
	pipe.SAdd(ctx, userSetKey(session.UserID), session.ID.String())
	pipe.Expire(ctx, userSetKey(session.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, sessionID id.SessionID) (*Session, error) {
	blob, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(blob, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID id.SessionID) error {
	session, err := s.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userSetKey(session.UserID), sessionID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) ListByUser(ctx context.Context, userID id.UserID) ([]*Session, error) {
	members, err := s.client.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	var out []*Session
	for _, member := range members {
		sessionID, err := id.ParseSessionID(member)
		if err != nil {
			continue
		}
		session, err := s.FindByID(ctx, sessionID)
		if errors.Is(err, sentinel.ErrNotFound) {
			// The session blob aged out; drop the stale set member.
			s.client.SRem(ctx, userSetKey(userID), member)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, nil
}

// Execute runs an optimistic WATCH transaction: validate and mutate the
// session, retrying on concurrent modification.
func (s *RedisStore) Execute(ctx context.Context, sessionID id.SessionID, validate func(*Session) error, mutate func(*Session)) (*Session, error) {
	key := sessionKey(sessionID)
	var result *Session

	txn := func(tx *redis.Tx) error {
		blob, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return err
		}
		var session Session
		if err := json.Unmarshal(blob, &session); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if validate != nil {
			if err := validate(&session); err != nil {
				return err
			}
		}
		if mutate != nil {
			mutate(&session)
		}
		updated, err := json.Marshal(&session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		ttl := time.Until(session.ExpirationTime)
		if ttl <= 0 {
			return sentinel.ErrExpired
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = &session
		return nil
	}

	for i := 0; i < executeMaxRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, fmt.Errorf("execute session update: %w", redis.TxFailedErr)
}
