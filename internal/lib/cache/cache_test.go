package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.Nop()
	return New(client, &logger), mr
}

func TestGetOrSetCachesValue(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*item, error) {
		calls++
		return &item{Name: "robot"}, nil
	}

	first, err := GetOrSet(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	second, err := GetOrSet(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "robot", first.Name)
	assert.Equal(t, "robot", second.Name)
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestInvalidateForcesReload(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", item{Name: "old"}, time.Minute))
	c.Invalidate(ctx, "k")

	var got item
	assert.ErrorIs(t, c.GetJSON(ctx, "k", &got), ErrMiss)
}

func TestGetOrSetPropagatesLoadError(t *testing.T) {
	c, _ := newCache(t)

	_, err := GetOrSet(context.Background(), c, "k", time.Minute, func(context.Context) (*item, error) {
		return nil, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
}

func TestFailsOpenWhenRedisIsDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	got, err := GetOrSet(context.Background(), c, "k", time.Minute, func(context.Context) (*item, error) {
		return &item{Name: "fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Name)
}

func TestNilClient(t *testing.T) {
	logger := zerolog.Nop()
	c := New(nil, &logger)

	got, err := GetOrSet(context.Background(), c, "k", time.Minute, func(context.Context) (*item, error) {
		return &item{Name: "direct"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", got.Name)
	assert.NoError(t, c.Delete(context.Background(), "k"))
}
