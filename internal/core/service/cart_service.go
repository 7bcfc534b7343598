package service

import (
	"context"
	"fmt"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/port"
)

// CartService resolves and mutates carts for both kinds of actor: persisted
// rows for authenticated accounts, an ordered session-stored list for
// anonymous ones.
type CartService struct {
	products   port.ProductRepository
	carts      port.CartRepository
	guestCarts port.GuestCartStore
}

func NewCartService(products port.ProductRepository, carts port.CartRepository, guestCarts port.GuestCartStore) *CartService {
	return &CartService{
		products:   products,
		carts:      carts,
		guestCarts: guestCarts,
	}
}

// Resolve joins the actor's cart against the current catalog. Lines whose
// product no longer exists are silently dropped; that is a documented
// policy, not an error.
func (s *CartService) Resolve(ctx context.Context, actor domain.Actor) ([]domain.ResolvedLine, error) {
	if actor.Authenticated() {
		return s.resolveAccount(ctx, actor.Account.ID)
	}
	return s.resolveGuest(ctx, actor.Token)
}

func (s *CartService) resolveAccount(ctx context.Context, accountID int64) ([]domain.ResolvedLine, error) {
	rows, err := s.carts.ListCartLines(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}

	resolved := make([]domain.ResolvedLine, 0, len(rows))
	for _, row := range rows {
		product, err := s.products.GetProduct(ctx, row.ProductID)
		if err != nil {
			return nil, fmt.Errorf("fetch cart product: %w", err)
		}
		if product == nil {
			continue
		}
		resolved = append(resolved, domain.ResolvedLine{
			LineID:    row.ID,
			Product:   *product,
			Quantity:  row.Quantity,
			Size:      row.Size,
			Color:     row.Color,
			LineTotal: product.Price * domain.Money(row.Quantity),
		})
	}
	return resolved, nil
}

func (s *CartService) resolveGuest(ctx context.Context, token string) ([]domain.ResolvedLine, error) {
	entries, err := s.guestCarts.GetGuestCart(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load guest cart: %w", err)
	}

	resolved := make([]domain.ResolvedLine, 0, len(entries))
	for _, entry := range entries {
		product, err := s.products.GetProduct(ctx, entry.ItemID)
		if err != nil {
			return nil, fmt.Errorf("fetch cart product: %w", err)
		}
		if product == nil {
			continue
		}
		resolved = append(resolved, domain.ResolvedLine{
			LineID:    entry.LineID,
			Product:   *product,
			Quantity:  entry.Quantity,
			Size:      entry.Size,
			Color:     entry.Color,
			LineTotal: product.Price * domain.Money(entry.Quantity),
		})
	}
	return resolved, nil
}

// Add puts quantity units of a product into the actor's cart. A product
// already in the cart merges into its existing line. The requested quantity
// is checked against current stock here; the authoritative guard runs again
// inside the order commit.
func (s *CartService) Add(ctx context.Context, actor domain.Actor, productID int64, quantity int, size, color string) error {
	if quantity <= 0 {
		return &ValidationError{Fields: fieldErrors{"quantity": "must be positive"}}
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("fetch product: %w", err)
	}
	if product == nil {
		return ErrNotFound
	}
	if product.Stock < quantity {
		return ErrInsufficientStock
	}

	if actor.Authenticated() {
		line := domain.CartLine{
			AccountID: actor.Account.ID,
			ProductID: productID,
			Quantity:  quantity,
			Size:      size,
			Color:     color,
		}
		if err := s.carts.UpsertCartLine(ctx, &line); err != nil {
			return fmt.Errorf("upsert cart line: %w", err)
		}
		return nil
	}

	entries, err := s.guestCarts.GetGuestCart(ctx, actor.Token)
	if err != nil {
		return fmt.Errorf("load guest cart: %w", err)
	}

	merged := false
	for i := range entries {
		if entries[i].ItemID == productID {
			entries[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		entries = append(entries, domain.GuestCartEntry{
			LineID:   nextGuestLineID(entries),
			ItemID:   productID,
			Quantity: quantity,
			Size:     size,
			Color:    color,
		})
	}

	if err := s.guestCarts.SaveGuestCart(ctx, actor.Token, entries); err != nil {
		return fmt.Errorf("save guest cart: %w", err)
	}
	return nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, actor domain.Actor, lineID int64, quantity int) error {
	if actor.Authenticated() {
		line, err := s.carts.GetCartLine(ctx, lineID)
		if err != nil {
			return fmt.Errorf("fetch cart line: %w", err)
		}
		if line == nil || line.AccountID != actor.Account.ID {
			return ErrNotFound
		}
		if quantity <= 0 {
			return s.carts.DeleteCartLine(ctx, lineID)
		}
		return s.carts.UpdateCartLineQuantity(ctx, lineID, quantity)
	}

	entries, err := s.guestCarts.GetGuestCart(ctx, actor.Token)
	if err != nil {
		return fmt.Errorf("load guest cart: %w", err)
	}
	for i := range entries {
		if entries[i].LineID == lineID {
			if quantity <= 0 {
				entries = append(entries[:i], entries[i+1:]...)
			} else {
				entries[i].Quantity = quantity
			}
			return s.guestCarts.SaveGuestCart(ctx, actor.Token, entries)
		}
	}
	return ErrNotFound
}

// Remove drops a single line from the actor's cart.
func (s *CartService) Remove(ctx context.Context, actor domain.Actor, lineID int64) error {
	if actor.Authenticated() {
		line, err := s.carts.GetCartLine(ctx, lineID)
		if err != nil {
			return fmt.Errorf("fetch cart line: %w", err)
		}
		if line == nil || line.AccountID != actor.Account.ID {
			return ErrNotFound
		}
		return s.carts.DeleteCartLine(ctx, lineID)
	}

	entries, err := s.guestCarts.GetGuestCart(ctx, actor.Token)
	if err != nil {
		return fmt.Errorf("load guest cart: %w", err)
	}
	for i := range entries {
		if entries[i].LineID == lineID {
			entries = append(entries[:i], entries[i+1:]...)
			return s.guestCarts.SaveGuestCart(ctx, actor.Token, entries)
		}
	}
	return ErrNotFound
}

// Clear empties the actor's cart.
func (s *CartService) Clear(ctx context.Context, actor domain.Actor) error {
	if actor.Authenticated() {
		return s.carts.ClearCart(ctx, actor.Account.ID)
	}
	return s.guestCarts.ClearGuestCart(ctx, actor.Token)
}

// MergeGuestCart folds an anonymous session cart into an account's
// persisted cart and clears the session copy. Called on login so nothing
// in the basket is lost at the authentication boundary.
func (s *CartService) MergeGuestCart(ctx context.Context, token string, accountID int64) error {
	entries, err := s.guestCarts.GetGuestCart(ctx, token)
	if err != nil {
		return fmt.Errorf("load guest cart: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	for _, entry := range entries {
		product, err := s.products.GetProduct(ctx, entry.ItemID)
		if err != nil {
			return fmt.Errorf("fetch cart product: %w", err)
		}
		if product == nil {
			continue
		}
		line := domain.CartLine{
			AccountID: accountID,
			ProductID: entry.ItemID,
			Quantity:  entry.Quantity,
			Size:      entry.Size,
			Color:     entry.Color,
		}
		if err := s.carts.UpsertCartLine(ctx, &line); err != nil {
			return fmt.Errorf("merge cart line: %w", err)
		}
	}

	if err := s.guestCarts.ClearGuestCart(ctx, token); err != nil {
		return fmt.Errorf("clear guest cart: %w", err)
	}
	return nil
}

func nextGuestLineID(entries []domain.GuestCartEntry) int64 {
	var max int64
	for _, e := range entries {
		if e.LineID > max {
			max = e.LineID
		}
	}
	return max + 1
}
