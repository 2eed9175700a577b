package idempotency

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(StoreParam{Client: client, Log: zap.NewNop()})
}

func TestLookupMissesBeforeRemember(t *testing.T) {
	store := newTestStore(t)
	rec, err := store.Lookup(context.Background(), "key-1")
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestRememberThenReplay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	body := json.RawMessage(`{"id":"sub_1"}`)
	require.NoError(t, store.Remember(ctx, "key-1", Record{Status: 200, Body: body}))

	rec, err := store.Lookup(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, 200, rec.Status)
	require.JSONEq(t, `{"id":"sub_1"}`, string(rec.Body))
}

func TestRememberKeepsFirstResponse(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Remember(ctx, "key-1", Record{Status: 200, Body: json.RawMessage(`"first"`)}))
	require.NoError(t, store.Remember(ctx, "key-1", Record{Status: 500, Body: json.RawMessage(`"second"`)}))

	rec, err := store.Lookup(ctx, "key-1")
	require.NoError(t, err)
	require.Equal(t, 200, rec.Status)
	require.Equal(t, `"first"`, string(rec.Body))
}

func TestNilClientDisablesStore(t *testing.T) {
	store := NewStore(StoreParam{Log: zap.NewNop()})
	ctx := context.Background()

	require.NoError(t, store.Remember(ctx, "key-1", Record{Status: 200}))
	rec, err := store.Lookup(ctx, "key-1")
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestEmptyKeyIgnored(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Remember(ctx, "", Record{Status: 200}))
	rec, err := store.Lookup(ctx, "")
	require.NoError(t, err)
	require.Nil(t, rec)
}
