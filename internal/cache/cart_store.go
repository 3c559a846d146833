package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/models"
)

// cartTTL bounds how long an untouched cart survives.
const cartTTL = 30 * 24 * time.Hour

// KV is the small key-value surface the cart store needs. *RedisClient
// satisfies it; tests may supply an in-memory implementation.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CartStore persists session carts in Redis. Every mutation goes through
// Save; Load rehydrates and runs the schema upgrade exactly once per stored
// cart generation.
type CartStore struct {
	kv KV
}

// NewCartStore creates a CartStore backed by the given key-value client.
func NewCartStore(kv KV) *CartStore {
	return &CartStore{kv: kv}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Load returns the cart for a session, upgrading legacy payloads to the
// current schema version. A missing key yields a fresh empty cart.
func (s *CartStore) Load(ctx context.Context, sessionID string) (*models.Cart, error) {
	raw, err := s.kv.Get(ctx, cartKey(sessionID))
	if err != nil {
		if IsNil(err) {
			return models.NewCart(sessionID), nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	cart, upgraded, err := DecodeCart([]byte(raw), sessionID)
	if err != nil {
		// A corrupt cart is unrecoverable client state; start over rather
		// than failing every storefront request for this session.
		log.Error().Err(err).Str("session_id", sessionID).Msg("discarding undecodable cart")
		return models.NewCart(sessionID), nil
	}
	if upgraded {
		log.Info().Str("session_id", sessionID).Msg("cart upgraded to current schema")
		if err := s.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// Save persists the cart under its session key.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.kv.Set(ctx, cartKey(cart.SessionID), string(data), cartTTL)
}

// Clear removes the session's cart (after checkout).
func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	return s.kv.Delete(ctx, cartKey(sessionID))
}

// DecodeCart deserializes a stored cart and applies versioned schema
// upgrades. It reports whether an upgrade ran so the caller can persist the
// normalized form immediately instead of re-upgrading on every load.
//
// v0 -> v1: early clients stored lines without cart-item ids; assign one to
// each line that lacks it.
func DecodeCart(data []byte, sessionID string) (*models.Cart, bool, error) {
	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, false, err
	}
	cart.SessionID = sessionID

	upgraded := false
	if cart.SchemaVersion < models.CartSchemaVersion {
		for idx := range cart.Items {
			if cart.Items[idx].ItemID == "" {
				cart.Items[idx].ItemID = uuid.New().String()
				upgraded = true
			}
		}
		cart.SchemaVersion = models.CartSchemaVersion
		upgraded = true
	}
	return &cart, upgraded, nil
}
