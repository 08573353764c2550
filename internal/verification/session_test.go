package verification

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStore(client, 10*time.Minute), mr
}

func TestSessionStoreSaveGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	session := Session{VerificationID: "abc123", PhoneNumber: "+79990001122"}
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, session, *got)
}

func TestSessionStoreUnknownID(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStoreResendSupersedes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := Session{VerificationID: "first", PhoneNumber: "+79990001122"}
	second := Session{VerificationID: "second", PhoneNumber: "+79990001122"}

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	// старая сессия замещена, подтверждать по ней больше нельзя
	_, err := store.Get(ctx, "first")
	require.ErrorIs(t, err, ErrSessionNotFound)

	got, err := store.Get(ctx, "second")
	require.NoError(t, err)
	require.Equal(t, second, *got)
}

func TestSessionStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	session := Session{VerificationID: "abc123", PhoneNumber: "+79990001122"}
	require.NoError(t, store.Save(ctx, session))
	require.NoError(t, store.Delete(ctx, session))

	_, err := store.Get(ctx, "abc123")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStoreTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	session := Session{VerificationID: "abc123", PhoneNumber: "+79990001122"}
	require.NoError(t, store.Save(ctx, session))

	mr.FastForward(11 * time.Minute)

	_, err := store.Get(ctx, "abc123")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
