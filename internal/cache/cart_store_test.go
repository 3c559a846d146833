package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhaus/printhaus_api/internal/models"
)

// memoryKV is an in-process KV for tests. Missing keys return redis.Nil so
// the store's sentinel handling matches production.
type memoryKV struct {
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memoryKV) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestLoadMissingCartReturnsFresh(t *testing.T) {
	store := NewCartStore(newMemoryKV())

	cart, err := store.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", cart.SessionID)
	assert.Equal(t, models.CartSchemaVersion, cart.SchemaVersion)
	assert.Empty(t, cart.Items)
}

func TestLoadCorruptCartReturnsFresh(t *testing.T) {
	kv := newMemoryKV()
	kv.data["cart:session-1"] = "{not json"
	store := NewCartStore(kv)

	cart, err := store.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	kv := newMemoryKV()
	store := NewCartStore(kv)
	ctx := context.Background()

	cart := models.NewCart("session-1")
	cart.AddItem(models.CartItem{ProductID: 1, Name: "Benchy", UnitPriceCents: 1500, Quantity: 2})
	require.NoError(t, store.Save(ctx, cart))

	loaded, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, cart.Items[0].ItemID, loaded.Items[0].ItemID)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
}

func TestClearRemovesCart(t *testing.T) {
	kv := newMemoryKV()
	store := NewCartStore(kv)
	ctx := context.Background()

	cart := models.NewCart("session-1")
	cart.AddItem(models.CartItem{ProductID: 1, Quantity: 1})
	require.NoError(t, store.Save(ctx, cart))
	require.NoError(t, store.Clear(ctx, "session-1"))

	loaded, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}

func TestDecodeCartUpgradesLegacyPayload(t *testing.T) {
	// A v0 payload: no schema version, lines without cart-item ids.
	legacy := []byte(`{"items":[
		{"productId":1,"name":"Benchy","unitPriceCents":1500,"quantity":2},
		{"productId":2,"name":"Planter","unitPriceCents":2500,"quantity":1}
	]}`)

	cart, upgraded, err := DecodeCart(legacy, "session-1")
	require.NoError(t, err)
	assert.True(t, upgraded)
	assert.Equal(t, models.CartSchemaVersion, cart.SchemaVersion)
	assert.Equal(t, "session-1", cart.SessionID)
	require.Len(t, cart.Items, 2)
	assert.NotEmpty(t, cart.Items[0].ItemID)
	assert.NotEmpty(t, cart.Items[1].ItemID)
	assert.NotEqual(t, cart.Items[0].ItemID, cart.Items[1].ItemID)
}

func TestDecodeCartCurrentVersionIsStable(t *testing.T) {
	cart := models.NewCart("session-1")
	cart.AddItem(models.CartItem{ProductID: 1, Quantity: 1})
	data, err := json.Marshal(cart)
	require.NoError(t, err)

	decoded, upgraded, err := DecodeCart(data, "session-1")
	require.NoError(t, err)
	assert.False(t, upgraded)
	assert.Equal(t, cart.Items[0].ItemID, decoded.Items[0].ItemID)
}

func TestLoadPersistsUpgradedCart(t *testing.T) {
	kv := newMemoryKV()
	kv.data["cart:session-1"] = `{"items":[{"productId":1,"quantity":1}]}`
	store := NewCartStore(kv)

	cart, err := store.Load(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.NotEmpty(t, cart.Items[0].ItemID)

	// The upgraded form was written back; a second load sees the same id.
	again, err := store.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Items[0].ItemID, again.Items[0].ItemID)
}
