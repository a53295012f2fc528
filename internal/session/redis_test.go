package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStoreWithClient(client), mr
}

func TestPutGetRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	record := Record{Token: "tok1", CustomerID: "c1"}
	require.NoError(t, store.Put(ctx, "abc", record, DefaultTTL))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	// Peek semantics: the record survives the read.
	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutOverwritesExistingRecord(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", Record{Token: "tok1", CustomerID: "c1"}, DefaultTTL))
	require.NoError(t, store.Put(ctx, "abc", Record{Token: "tok2", CustomerID: "c2"}, DefaultTTL))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, Record{Token: "tok2", CustomerID: "c2"}, got)
}

func TestRecordExpiresAfterTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", Record{Token: "tok1", CustomerID: "c1"}, 2*time.Second))

	_, err := store.Get(ctx, "abc")
	require.NoError(t, err)

	mr.FastForward(3 * time.Second)

	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsumeDeletesRecord(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	record := Record{Token: "tok1", CustomerID: "c1"}
	require.NoError(t, store.Put(ctx, "abc", record, DefaultTTL))

	got, err := store.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	// A second poll after consumption observes not-found.
	_, err = store.Consume(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", Record{Token: "tok1", CustomerID: "c1"}, DefaultTTL))
	require.NoError(t, store.Delete(ctx, "abc"))
	require.NoError(t, store.Delete(ctx, "abc"))

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeysAreNamespaced(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", Record{Token: "tok1", CustomerID: "c1"}, DefaultTTL))
	assert.True(t, mr.Exists("auth:abc"))
}

func TestPingAfterServerGone(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}

func TestUnavailableStore(t *testing.T) {
	store := Unavailable()
	ctx := context.Background()

	assert.ErrorIs(t, store.Put(ctx, "abc", Record{}, DefaultTTL), ErrNotConfigured)
	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = store.Consume(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, store.Delete(ctx, "abc"), ErrNotConfigured)
	assert.ErrorIs(t, store.Ping(ctx), ErrNotConfigured)
}
