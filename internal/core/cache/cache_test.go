package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestGetOrLoadJSONCaches(t *testing.T) {
	mr, rdb := newRedis(t)
	c := NewFromClient(rdb)
	ctx := context.Background()

	var calls atomic.Int32
	load := func(context.Context) ([]item, error) {
		calls.Add(1)
		return []item{{ID: "1", Name: "Ada"}}, nil
	}

	got, err := GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "1", Name: "Ada"}}, got)

	got, err = GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got[0].Name)
	assert.EqualValues(t, 1, calls.Load())
	assert.True(t, mr.Exists("k"))

	c.Forget(ctx, "k")
	_, err = GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("k"))
}

func TestGetOrLoadJSONDoesNotCacheErrors(t *testing.T) {
	mr, rdb := newRedis(t)
	c := NewFromClient(rdb)

	boom := errors.New("boom")
	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) ([]item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestNilCacheAlwaysLoads(t *testing.T) {
	var c *Cache
	var calls int
	for i := 0; i < 3; i++ {
		_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
	c.Forget(context.Background(), "k")
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}

func TestLimiterWindow(t *testing.T) {
	mr, rdb := newRedis(t)
	l := &Limiter{RDB: rdb, Prefix: "rl:", Limit: 3, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "login:a@x.com:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
	}
	ok, err := l.Allow(ctx, "login:a@x.com:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "login:b@x.com:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")

	mr.FastForward(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "login:a@x.com:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "window expired")
}

func TestLimiterReset(t *testing.T) {
	_, rdb := newRedis(t)
	l := &Limiter{RDB: rdb, Limit: 1, Window: time.Minute}
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, l.Reset(ctx, "k"))
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
}

func TestLimiterFailsOpenWithoutClient(t *testing.T) {
	var l *Limiter
	ok, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)

	mr, rdb := newRedis(t)
	down := &Limiter{RDB: rdb, Limit: 1, Window: time.Minute}
	mr.Close()
	ok, err = down.Allow(context.Background(), "k")
	assert.Error(t, err)
	assert.True(t, ok)
}

func TestSharedLoadSurvivesFirstCallerCancel(t *testing.T) {
	mr, rdb := newRedis(t)
	c := NewFromClient(rdb)

	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) ([]byte, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte("v"), nil
	}

	first, cancel := context.WithCancel(context.Background())
	type result struct {
		b   []byte
		err error
	}
	firstDone := make(chan result, 1)
	go func() {
		b, err := c.GetOrLoad(first, "k", time.Minute, load)
		firstDone <- result{b, err}
	}()
	<-started

	secondDone := make(chan result, 1)
	go func() {
		b, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
			return []byte("v"), nil
		})
		secondDone <- result{b, err}
	}()

	cancel()
	time.Sleep(20 * time.Millisecond)
	close(release)

	r1 := <-firstDone
	require.NoError(t, r1.err)
	assert.Equal(t, []byte("v"), r1.b)
	r2 := <-secondDone
	require.NoError(t, r2.err)
	assert.Equal(t, []byte("v"), r2.b)
	assert.True(t, mr.Exists("k"), "the shared load still populates the cache")
}
