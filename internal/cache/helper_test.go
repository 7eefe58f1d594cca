package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var got payload
	found, err := GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", payload{Name: "alice", Count: 3}, time.Minute))

	found, err = GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "fetched", Count: calls}
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)

	// Second read is served from the cache
	var second payload
	require.NoError(t, Aside(ctx, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestAsideFetchError(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetchErr := errors.New("db down")
	var dest payload
	err := Aside(ctx, "k", &dest, time.Minute, func() error { return fetchErr })
	assert.ErrorIs(t, err, fetchErr)

	// Nothing was cached
	found, err := GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(1), payload{Name: "alice"}, time.Minute))
	InvalidateUser(ctx, 1)

	var got payload
	found, err := GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHelpersDegradeWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var got payload
	found, err := GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", payload{Name: "x"}, time.Minute))

	// Aside falls through to fetch every time
	calls := 0
	require.NoError(t, Aside(ctx, "k", &got, time.Minute, func() error {
		calls++
		got.Name = "fetched"
		return nil
	}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", got.Name)
}
