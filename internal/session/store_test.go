package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcportal/patient-portal/internal/gateway"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, 0, nil), mr
}

func TestSaveAndCurrent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	patient := &gateway.Patient{
		ID:        12,
		Name:      "Maria Souza",
		CPF:       "12345678901",
		BirthDate: "1990-04-12",
		Phone:     "11987654321",
		Email:     "maria@example.com",
		Address: gateway.Address{
			ID:     7,
			Street: "Rua das Flores",
			Number: "16",
			City:   "Osasco",
			State:  "SP",
		},
	}

	require.NoError(t, store.Save(ctx, "sid-1", patient))

	got := store.Current(ctx, "sid-1")
	require.NotNil(t, got)
	assert.Equal(t, patient, got)
	assert.True(t, store.IsAuthenticated(ctx, "sid-1"))
}

func TestCurrentAbsent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.Nil(t, store.Current(ctx, "nope"))
	assert.False(t, store.IsAuthenticated(ctx, "nope"))
}

func TestCurrentCorruptValueTreatedAsAbsent(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("session:sid-2", "{not json"))

	assert.Nil(t, store.Current(ctx, "sid-2"))
	assert.False(t, store.IsAuthenticated(ctx, "sid-2"))
}

func TestSaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid-3", &gateway.Patient{ID: 1, Name: "First"}))
	require.NoError(t, store.Save(ctx, "sid-3", &gateway.Patient{ID: 2, Name: "Second"}))

	got := store.Current(ctx, "sid-3")
	require.NotNil(t, got)
	assert.Equal(t, 2, got.ID)
	assert.Equal(t, "Second", got.Name)
}

func TestClearIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid-4", &gateway.Patient{ID: 4}))
	require.NoError(t, store.Clear(ctx, "sid-4"))
	assert.False(t, store.IsAuthenticated(ctx, "sid-4"))
	assert.Nil(t, store.Current(ctx, "sid-4"))

	require.NoError(t, store.Clear(ctx, "sid-4"))
}

func TestTTLApplied(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client, time.Hour, nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid-5", &gateway.Patient{ID: 5}))
	mr.FastForward(2 * time.Hour)

	assert.Nil(t, store.Current(ctx, "sid-5"))
}
