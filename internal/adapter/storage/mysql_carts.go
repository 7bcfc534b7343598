package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jutta-lagani/storefront/internal/core/domain"
)

func (m *MySQLAdapter) ListCartLines(ctx context.Context, accountID int64) ([]domain.CartLine, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, account_id, product_id, quantity, size, color, created_at
		FROM cart_lines WHERE account_id = ?
		ORDER BY created_at, id`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ID, &l.AccountID, &l.ProductID, &l.Quantity, &l.Size, &l.Color, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (m *MySQLAdapter) GetCartLine(ctx context.Context, id int64) (*domain.CartLine, error) {
	var l domain.CartLine
	err := m.db.QueryRowContext(ctx, `
		SELECT id, account_id, product_id, quantity, size, color, created_at
		FROM cart_lines WHERE id = ?`, id,
	).Scan(&l.ID, &l.AccountID, &l.ProductID, &l.Quantity, &l.Size, &l.Color, &l.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cart line: %w", err)
	}
	return &l, nil
}

// UpsertCartLine relies on the UNIQUE (account_id, product_id) index:
// a second add of the same product merges quantities into the existing row.
func (m *MySQLAdapter) UpsertCartLine(ctx context.Context, line *domain.CartLine) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO cart_lines (account_id, product_id, quantity, size, color, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		line.AccountID, line.ProductID, line.Quantity, line.Size, line.Color,
	)
	if err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}

	// LastInsertId is the new row id on insert, the existing id on update.
	if id, err := result.LastInsertId(); err == nil && id > 0 {
		line.ID = id
	}
	return nil
}

func (m *MySQLAdapter) UpdateCartLineQuantity(ctx context.Context, id int64, quantity int) error {
	_, err := m.db.ExecContext(ctx,
		`UPDATE cart_lines SET quantity = ? WHERE id = ?`, quantity, id)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) DeleteCartLine(ctx context.Context, id int64) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ClearCart(ctx context.Context, accountID int64) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE account_id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
