package db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, ttl time.Duration) (*RedisService, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client, err := InitializeRedisClient(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisService(client, ttl), mr
}

func TestRedisService_SessionFlag(t *testing.T) {
	ctx := context.Background()
	svc, mr := setup(t, 0)

	ok, err := svc.IsLoggedIn(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.SetLoggedIn(ctx, "client-1"))
	assert.True(t, mr.Exists("session:client-1:logged_in"))

	ok, err = svc.IsLoggedIn(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = svc.IsLoggedIn(ctx, "client-2")
	assert.False(t, ok)

	require.NoError(t, svc.Clear(ctx, "client-1"))
	ok, _ = svc.IsLoggedIn(ctx, "client-1")
	assert.False(t, ok)

	assert.NoError(t, svc.Clear(ctx, "client-1"))
	assert.NoError(t, svc.Clear(ctx, ""))
}

func TestRedisService_TTL(t *testing.T) {
	ctx := context.Background()
	svc, mr := setup(t, 30*time.Minute)

	require.NoError(t, svc.SetLoggedIn(ctx, "client-1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:client-1:logged_in"))

	mr.FastForward(31 * time.Minute)
	ok, err := svc.IsLoggedIn(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisService_EmptyKey(t *testing.T) {
	svc, _ := setup(t, 0)

	ok, err := svc.IsLoggedIn(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Error(t, svc.SetLoggedIn(context.Background(), ""))
}

func TestRedisService_ConnectionErrors(t *testing.T) {
	ctx := context.Background()
	svc, mr := setup(t, 0)
	require.NoError(t, svc.Ping(ctx))

	mr.Close()

	_, err := svc.IsLoggedIn(ctx, "client-1")
	assert.Error(t, err)
	assert.Error(t, svc.SetLoggedIn(ctx, "client-1"))
	assert.Error(t, svc.Ping(ctx))
}

func TestInitializeRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := InitializeRedisClient(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}
