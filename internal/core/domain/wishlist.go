package domain

import "time"

// WishlistItem is a unique (account, product) pair with no quantity.
type WishlistItem struct {
	ID        int64
	AccountID int64
	ProductID int64
	Product   *Product // populated on listing, nil otherwise
	CreatedAt time.Time
}
