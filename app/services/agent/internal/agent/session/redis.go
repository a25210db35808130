package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"TripShopper/app/common/consts/biz"

	"github.com/zeromicro/go-zero/core/stores/redis"
)

// RedisStore persists sessions as JSON with a sliding TTL, so several
// service instances can share them.
type RedisStore struct {
	rds *redis.Redis
	ttl time.Duration
}

func NewRedisStore(rds *redis.Redis, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = biz.SessionTTL
	}
	return &RedisStore{rds: rds, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := r.rds.GetCtx(ctx, key(id))
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if val == "" {
		return nil, ErrNotFound
	}
	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("session id is required")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	if err := r.rds.SetexCtx(ctx, key(s.ID), string(payload), int(r.ttl/time.Second)); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if _, err := r.rds.DelCtx(ctx, key(id)); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func key(id string) string {
	return biz.SessionKeyPrefix + id
}
