package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"TripShopper/app/common/consts/biz"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

var ErrSessionBusy = errors.New("session is busy")

// Locker serializes turns of the same session.
type Locker interface {
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

// LocalLocker is an in-process keyed mutex. Waiting honours ctx.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyedLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	k, ok := l.locks[sessionID]
	if !ok {
		k = &keyedLock{ch: make(chan struct{}, 1)}
		l.locks[sessionID] = k
	}
	k.refs++
	l.mu.Unlock()

	select {
	case k.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(sessionID, k, false)
		return nil, fmt.Errorf("%w: %v", ErrSessionBusy, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(sessionID, k, true) })
	}, nil
}

func (l *LocalLocker) release(sessionID string, k *keyedLock, held bool) {
	if held {
		<-k.ch
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	k.refs--
	if k.refs == 0 {
		delete(l.locks, sessionID)
	}
}

// RedisLocker serializes turns across service instances with a go-zero
// redis lock, polling until the lock is free or ctx ends.
type RedisLocker struct {
	rds       *redis.Redis
	expireSec int
	retry     time.Duration
}

func NewRedisLocker(rds *redis.Redis, expire time.Duration) *RedisLocker {
	sec := int(expire / time.Second)
	if sec <= 0 {
		sec = 60
	}
	return &RedisLocker{rds: rds, expireSec: sec, retry: 50 * time.Millisecond}
}

func (r *RedisLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	lock := redis.NewRedisLock(r.rds, biz.SessionLockKeyPrefix+sessionID)
	lock.SetExpire(r.expireSec)

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()
	for {
		ok, err := lock.AcquireCtx(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrSessionBusy, ctx.Err())
			}
			return nil, fmt.Errorf("acquire session lock: %w", err)
		}
		if ok {
			return func() {
				if _, err := lock.ReleaseCtx(context.Background()); err != nil {
					logx.Errorw("release session lock failed", logx.Field("session_id", sessionID), logx.Field("err", err))
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrSessionBusy, ctx.Err())
		case <-ticker.C:
		}
	}
}
