package domain

import "time"

// CartLine is a persisted cart row owned by an account. One row per
// (account, product) pair; adding the same product again merges quantities.
type CartLine struct {
	ID        int64
	AccountID int64
	ProductID int64
	Quantity  int
	Size      string
	Color     string
	CreatedAt time.Time
}

// GuestCartEntry is one line of an anonymous session cart. The guest cart
// round-trips through the session store as an ordered JSON list of these.
type GuestCartEntry struct {
	LineID   int64  `json:"line_id"`
	ItemID   int64  `json:"item_id"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
}

// ResolvedLine is a cart line joined with its current catalog product.
// LineTotal is quantity * product price.
type ResolvedLine struct {
	LineID    int64
	Product   Product
	Quantity  int
	Size      string
	Color     string
	LineTotal Money
}
