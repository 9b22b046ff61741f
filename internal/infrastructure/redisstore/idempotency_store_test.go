package redisstore_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/redisstore"
)

// newRedisFixture levanta un Redis embebido y el store apuntando a él.
func newRedisFixture(t *testing.T) (*miniredis.Miniredis, *redisstore.IdempotencyStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisstore.NewIdempotencyStore(client, "test")
}

// ──────────────────────────────────────────────────────────────────────────────

func TestRedisSetProcessing_TestAndSet(t *testing.T) {
	_, store := newRedisFixture(t)
	ctx := context.Background()

	ok, err := store.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "el script Lua debe rechazar la segunda adquisición")

	rec, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, idempotency.StateProcessing, rec.State)
	assert.Nil(t, rec.Result)
}

func TestRedisComplete_GuardaRespuestaReplayable(t *testing.T) {
	_, store := newRedisFixture(t)
	ctx := context.Background()

	ok, err := store.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	err = store.Complete(ctx, "k1", idempotency.Result{Status: 201, Body: []byte(`{"id":"m1"}`)}, 24*time.Hour)
	require.NoError(t, err)

	rec, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, idempotency.StateCompleted, rec.State)
	require.NotNil(t, rec.Result)
	assert.Equal(t, 201, rec.Result.Status)
	assert.JSONEq(t, `{"id":"m1"}`, string(rec.Result.Body))
	// Complete reinicia la expiración al TTL largo
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), rec.ExpiresAt, time.Minute)
}

// TestRedisSetProcessing_LockExpirado: pasado el TTL del lock, Redis descarta
// la clave y una nueva petición con la misma clave puede proceder.
func TestRedisSetProcessing_LockExpirado(t *testing.T) {
	mr, store := newRedisFixture(t)
	ctx := context.Background()

	ok, err := store.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(31 * time.Second)

	rec, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	ok, err = store.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisDelete_LiberaLaClave(t *testing.T) {
	_, store := newRedisFixture(t)
	ctx := context.Background()

	ok, err := store.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Delete(ctx, "k1"))

	rec, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	ok, err = store.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisPrefijo_AislaClaves(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	a := redisstore.NewIdempotencyStore(client, "servicio-a")
	b := redisstore.NewIdempotencyStore(client, "servicio-b")

	ok, err := a.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// Misma clave lógica bajo otro prefijo: no colisiona
	ok, err = b.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	rec, err := b.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, idempotency.StateProcessing, rec.State)
}

func TestRedisGet_ClaveAusente(t *testing.T) {
	_, store := newRedisFixture(t)

	rec, err := store.Get(context.Background(), "nunca-vista")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
