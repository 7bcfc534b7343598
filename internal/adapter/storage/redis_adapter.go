package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jutta-lagani/storefront/internal/core/domain"
)

const (
	sessionKeyPrefix   = "session:"
	guestCartKeyPrefix = "guestcart:"
	idempotencyPrefix  = "idempotency:"

	idempotencyKeyTTL = time.Minute
)

// RedisAdapter holds the ephemeral side of the store: session tokens,
// anonymous carts, and checkout idempotency keys.
type RedisAdapter struct {
	client       *redis.Client
	sessionTTL   time.Duration
	guestCartTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, sessionTTL time.Duration) *RedisAdapter {
	return &RedisAdapter{
		client:       client,
		sessionTTL:   sessionTTL,
		guestCartTTL: sessionTTL,
	}
}

func (r *RedisAdapter) PutSession(ctx context.Context, token string, accountID int64) error {
	key := sessionKeyPrefix + token
	if err := r.client.Set(ctx, key, accountID, r.sessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *RedisAdapter) GetSession(ctx context.Context, token string) (int64, bool, error) {
	key := sessionKeyPrefix + token

	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get session: %w", err)
	}

	accountID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse session value: %w", err)
	}
	return accountID, true, nil
}

func (r *RedisAdapter) DeleteSession(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// GetGuestCart returns the anonymous cart as an ordered entry list; an
// unknown token is an empty cart.
func (r *RedisAdapter) GetGuestCart(ctx context.Context, token string) ([]domain.GuestCartEntry, error) {
	key := guestCartKeyPrefix + token

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get guest cart: %w", err)
	}

	var entries []domain.GuestCartEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal guest cart: %w", err)
	}
	return entries, nil
}

func (r *RedisAdapter) SaveGuestCart(ctx context.Context, token string, entries []domain.GuestCartEntry) error {
	key := guestCartKeyPrefix + token

	if len(entries) == 0 {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis delete guest cart: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal guest cart: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.guestCartTTL).Err(); err != nil {
		return fmt.Errorf("redis set guest cart: %w", err)
	}
	return nil
}

func (r *RedisAdapter) ClearGuestCart(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, guestCartKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("redis delete guest cart: %w", err)
	}
	return nil
}

// SetIdempotency sets a key for idempotency check, returns false if already exists.
func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, idempotencyPrefix+key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// ReleaseIdempotency drops the key so a failed request can be retried.
func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, idempotencyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
