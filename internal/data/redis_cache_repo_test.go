package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajatvd/GifGenerator/internal/testutil"
)

func TestRedisCacheRepo_Set_Get_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)

	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		key := "gifgen:test:1"
		value := []byte(`{"run_id":"r1"}`)
		ttl := 5 * time.Minute

		require.NoError(t, repo.Set(ctx, key, value, ttl))

		result, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, result)

		actualTTL := client.TTL(ctx, key).Val()
		assert.True(t, actualTTL > 0 && actualTTL <= ttl)
	})

	t.Run("zero ttl does not expire", func(t *testing.T) {
		key := "gifgen:test:persist"
		require.NoError(t, repo.Set(ctx, key, []byte("x"), 0))
		assert.Equal(t, time.Duration(-1), client.TTL(ctx, key).Val())
	})

	t.Run("get non-existent key", func(t *testing.T) {
		result, err := repo.Get(ctx, "gifgen:missing")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("delete", func(t *testing.T) {
		key := "gifgen:test:2"
		require.NoError(t, repo.Set(ctx, key, []byte("bye"), time.Minute))

		deleted, err := repo.Delete(ctx, key)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, key)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("health", func(t *testing.T) {
		assert.NoError(t, repo.Health(ctx))
	})
}

func TestRedisCacheRepo_EmptyKey(t *testing.T) {
	repo := NewRedisCacheRepo(nil)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Set(ctx, "", nil, 0), ErrKeyRequired)
	_, err := repo.Get(ctx, "")
	assert.ErrorIs(t, err, ErrKeyRequired)
	_, err = repo.Delete(ctx, "")
	assert.ErrorIs(t, err, ErrKeyRequired)
}
