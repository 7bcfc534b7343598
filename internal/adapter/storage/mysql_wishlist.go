package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jutta-lagani/storefront/internal/core/domain"
)

func (m *MySQLAdapter) ListWishlist(ctx context.Context, accountID int64) ([]domain.WishlistItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT w.id, w.account_id, w.product_id, w.created_at, `+prefixedProductColumns("p")+`
		FROM wishlist w
		JOIN products p ON p.id = w.product_id
		WHERE w.account_id = ?
		ORDER BY w.created_at DESC, w.id DESC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query wishlist: %w", err)
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		var p domain.Product
		var originalPrice sql.NullInt64
		err := rows.Scan(&item.ID, &item.AccountID, &item.ProductID, &item.CreatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &originalPrice,
			&p.Category, &p.Subcategory, &p.Brand, &p.Color, &p.Size, &p.Material,
			&p.Stock, &p.IsAvailable, &p.Image, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		if originalPrice.Valid {
			p.OriginalPrice = domain.Money(originalPrice.Int64)
		}
		item.Product = &p
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddWishlistItem leans on the UNIQUE (account_id, product_id) index: a
// duplicate insert reports added=false instead of erroring.
func (m *MySQLAdapter) AddWishlistItem(ctx context.Context, accountID, productID int64) (bool, error) {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO wishlist (account_id, product_id, created_at) VALUES (?, ?, NOW())`,
		accountID, productID)
	if err != nil {
		if isDuplicateEntry(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert wishlist item: %w", err)
	}
	return true, nil
}

func (m *MySQLAdapter) GetWishlistItem(ctx context.Context, id int64) (*domain.WishlistItem, error) {
	var item domain.WishlistItem
	err := m.db.QueryRowContext(ctx,
		`SELECT id, account_id, product_id, created_at FROM wishlist WHERE id = ?`, id,
	).Scan(&item.ID, &item.AccountID, &item.ProductID, &item.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query wishlist item: %w", err)
	}
	return &item, nil
}

func (m *MySQLAdapter) DeleteWishlistItem(ctx context.Context, id int64) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM wishlist WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}
