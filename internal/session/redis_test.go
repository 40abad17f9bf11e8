package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viastore/viastore/internal/session"
	"github.com/viastore/viastore/internal/testutil"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store := session.NewRedisStore(testutil.SetupRedis(t), time.Hour)

	sess, err := store.Create(ctx, 7)
	require.NoError(t, err)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, 5*time.Second)

	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRedisStore_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	ctx := context.Background()
	store := session.NewRedisStore(client, time.Hour)

	_, err := store.Create(ctx, 1)
	assert.Error(t, err)

	_, err = store.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = store.Get(ctx, uuid.NewString())
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrNotFound)
}
