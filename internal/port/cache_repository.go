package port

import (
	"context"

	"github.com/jutta-lagani/storefront/internal/core/domain"
)

type SessionStore interface {
	// PutSession binds a session token to an account.
	PutSession(ctx context.Context, token string, accountID int64) error

	// GetSession resolves a token; ok is false for anonymous or expired
	// sessions.
	GetSession(ctx context.Context, token string) (accountID int64, ok bool, err error)

	DeleteSession(ctx context.Context, token string) error
}

type GuestCartStore interface {
	// GetGuestCart returns the ordered entries of an anonymous cart; an
	// unknown token yields an empty cart, not an error.
	GetGuestCart(ctx context.Context, token string) ([]domain.GuestCartEntry, error)

	// SaveGuestCart replaces the anonymous cart, preserving entry order.
	SaveGuestCart(ctx context.Context, token string, entries []domain.GuestCartEntry) error

	ClearGuestCart(ctx context.Context, token string) error
}

type IdempotencyStore interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency drops the key so a failed operation can be retried.
	ReleaseIdempotency(ctx context.Context, key string) error
}
