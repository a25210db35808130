package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

func TestLocalLockerSerializesSameSession(t *testing.T) {
	l := NewLocalLocker()
	unlock, err := l.Lock(context.Background(), "s-1")
	require.NoError(t, err)

	other, err := l.Lock(context.Background(), "s-2")
	require.NoError(t, err)
	other()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "s-1")
	assert.ErrorIs(t, err, ErrSessionBusy)

	acquired := make(chan struct{})
	go func() {
		u, err := l.Lock(context.Background(), "s-1")
		if err == nil {
			u()
		}
		close(acquired)
	}()
	unlock()
	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiting turn never acquired the lock")
	}

	l.mu.Lock()
	assert.Empty(t, l.locks)
	l.mu.Unlock()
}

func TestRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	rds := redis.New(mr.Addr())
	l := NewRedisLocker(rds, 10*time.Second)
	l.retry = 5 * time.Millisecond

	unlock, err := l.Lock(context.Background(), "s-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("assistant:session:lock:s-1"))

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "s-1")
	assert.ErrorIs(t, err, ErrSessionBusy)

	unlock()
	assert.False(t, mr.Exists("assistant:session:lock:s-1"))

	again, err := l.Lock(context.Background(), "s-1")
	require.NoError(t, err)
	again()
}
