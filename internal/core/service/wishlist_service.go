package service

import (
	"context"
	"fmt"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/port"
)

type WishlistService struct {
	wishlist port.WishlistRepository
	products port.ProductRepository
}

func NewWishlistService(wishlist port.WishlistRepository, products port.ProductRepository) *WishlistService {
	return &WishlistService{wishlist: wishlist, products: products}
}

func (s *WishlistService) List(ctx context.Context, accountID int64) ([]domain.WishlistItem, error) {
	items, err := s.wishlist.ListWishlist(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent: adding a product that is already wishlisted changes
// nothing and reports added=false so callers can say "already present".
func (s *WishlistService) Add(ctx context.Context, accountID, productID int64) (added bool, err error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("fetch product: %w", err)
	}
	if product == nil {
		return false, ErrNotFound
	}

	added, err = s.wishlist.AddWishlistItem(ctx, accountID, productID)
	if err != nil {
		return false, fmt.Errorf("add wishlist item: %w", err)
	}
	return added, nil
}

// Remove deletes the item if it belongs to the account.
func (s *WishlistService) Remove(ctx context.Context, accountID, itemID int64) error {
	item, err := s.wishlist.GetWishlistItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("fetch wishlist item: %w", err)
	}
	if item == nil || item.AccountID != accountID {
		return ErrNotFound
	}
	if err := s.wishlist.DeleteWishlistItem(ctx, itemID); err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}
