package port

import (
	"context"
	"errors"

	"github.com/jutta-lagani/storefront/internal/core/domain"
)

var (
	// ErrStockExhausted is returned by CommitOrder when a conditional stock
	// decrement matches zero rows.
	ErrStockExhausted = errors.New("stock exhausted")

	// ErrDuplicateOrderNumber is returned by CommitOrder when the generated
	// order number collides with an existing one.
	ErrDuplicateOrderNumber = errors.New("duplicate order number")

	// ErrNotFound is returned by updates and deletes that match no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail and ErrDuplicateUsername are returned by account
	// writes that hit the matching UNIQUE index.
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateUsername = errors.New("duplicate username")
)

// ProductFilter narrows and orders catalog listings.
type ProductFilter struct {
	Category      domain.Category // empty means all categories
	Search        string          // substring match on name, description, brand
	Sort          string          // newest (default), price_low, price_high, name, random
	AvailableOnly bool
	Limit         int
	Offset        int
}

type AccountRepository interface {
	// CreateAccount persists a new account and fills in its ID.
	CreateAccount(ctx context.Context, a *domain.Account) error

	// GetAccount returns nil, nil when the account does not exist.
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)

	UpdateAccount(ctx context.Context, a *domain.Account) error
	CountAccounts(ctx context.Context) (int, error)
}

type ProductRepository interface {
	// GetProduct returns nil, nil when the product does not exist.
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// ListProducts returns one page of products plus the total match count.
	ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, int, error)

	// RelatedProducts returns available products sharing a category,
	// excluding the product itself.
	RelatedProducts(ctx context.Context, productID int64, category domain.Category, limit int) ([]domain.Product, error)

	CountByCategory(ctx context.Context, c domain.Category) (int, error)

	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error

	// DeleteProduct removes the product and any cart lines referencing it.
	DeleteProduct(ctx context.Context, id int64) error

	LowStockProducts(ctx context.Context, below, limit int) ([]domain.Product, error)
	CountProducts(ctx context.Context) (int, error)
}

type CartRepository interface {
	ListCartLines(ctx context.Context, accountID int64) ([]domain.CartLine, error)

	// GetCartLine returns nil, nil when the line does not exist.
	GetCartLine(ctx context.Context, id int64) (*domain.CartLine, error)

	// UpsertCartLine inserts the line, or merges its quantity into the
	// existing (account, product) row.
	UpsertCartLine(ctx context.Context, line *domain.CartLine) error

	UpdateCartLineQuantity(ctx context.Context, id int64, quantity int) error
	DeleteCartLine(ctx context.Context, id int64) error
	ClearCart(ctx context.Context, accountID int64) error
}

type OrderRepository interface {
	// CommitOrder persists the order header, its line snapshots, the
	// conditional stock decrements and the cart wipe as one transaction.
	// On any failure nothing is visible.
	CommitOrder(ctx context.Context, order *domain.Order) error

	// GetOrder returns the order with its lines, or nil, nil when missing.
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)

	ListOrdersByAccount(ctx context.Context, accountID int64) ([]domain.Order, error)

	// ListOrders pages all orders newest-first, optionally by status.
	ListOrders(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, int, error)

	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error

	CountOrders(ctx context.Context) (int, error)
	TotalRevenue(ctx context.Context) (domain.Money, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
}

type WishlistRepository interface {
	ListWishlist(ctx context.Context, accountID int64) ([]domain.WishlistItem, error)

	// AddWishlistItem inserts the pair, reporting false when it was already
	// present. Adding an existing pair is a no-op.
	AddWishlistItem(ctx context.Context, accountID, productID int64) (bool, error)

	// GetWishlistItem returns nil, nil when the item does not exist.
	GetWishlistItem(ctx context.Context, id int64) (*domain.WishlistItem, error)

	DeleteWishlistItem(ctx context.Context, id int64) error
}
