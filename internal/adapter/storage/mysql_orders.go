package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/port"
)

const orderColumns = `id, order_number, account_id, status, subtotal, shipping_cost, tax, total,
	shipping_name, shipping_address, shipping_city, shipping_phone, payment_method, created_at, updated_at`

// CommitOrder is the all-or-nothing checkout write: order header, frozen
// line snapshots, conditional stock decrements and the cart wipe in one
// transaction. A decrement that matches no row (stock ran out since the
// item was carted) aborts the whole thing with ErrStockExhausted.
func (m *MySQLAdapter) CommitOrder(ctx context.Context, order *domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (order_number, account_id, status, subtotal, shipping_cost, tax, total,
			shipping_name, shipping_address, shipping_city, shipping_phone, payment_method, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.OrderNumber, order.AccountID, order.Status,
		order.Subtotal, order.ShippingCost, order.Tax, order.Total,
		order.ShippingName, order.ShippingAddress, order.ShippingCity, order.ShippingPhone,
		order.PaymentMethod, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return port.ErrDuplicateOrderNumber
		}
		return fmt.Errorf("insert order: %w", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("order insert id: %w", err)
	}
	order.ID = orderID

	for i := range order.Lines {
		line := &order.Lines[i]
		line.OrderID = orderID

		lineResult, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, product_id, product_name, product_image, quantity, unit_price, total_price)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			line.OrderID, line.ProductID, line.ProductName, line.ProductImage,
			line.Quantity, line.UnitPrice, line.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
		if line.ID, err = lineResult.LastInsertId(); err != nil {
			return fmt.Errorf("order line insert id: %w", err)
		}

		stockResult, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - ?, updated_at = NOW()
			WHERE id = ? AND stock >= ?`,
			line.Quantity, line.ProductID, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		rows, _ := stockResult.RowsAffected()
		if rows == 0 {
			return port.ErrStockExhausted
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE account_id = ?`, order.AccountID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return tx.Commit()
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)

	order, err := scanOrder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	if order.Lines, err = m.orderLines(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (m *MySQLAdapter) ListOrdersByAccount(ctx context.Context, accountID int64) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE account_id = ?
		ORDER BY created_at DESC, id DESC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return m.attachLines(ctx, orders)
}

func (m *MySQLAdapter) ListOrders(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, int, error) {
	where := ""
	var args []interface{}
	if status != "" {
		where = " WHERE status = ?"
		args = append(args, status)
	}

	var total int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := m.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	orders, err = m.attachLines(ctx, orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (m *MySQLAdapter) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	result, err := m.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Distinguish a missing order from a no-op same-status update.
		var exists int
		if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE id = ?`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check order exists: %w", err)
		}
		if exists == 0 {
			return port.ErrNotFound
		}
	}
	return nil
}

func (m *MySQLAdapter) CountOrders(ctx context.Context) (int, error) {
	var n int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (m *MySQLAdapter) TotalRevenue(ctx context.Context) (domain.Money, error) {
	var total int64
	if err := m.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total), 0) FROM orders`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return domain.Money(total), nil
}

func (m *MySQLAdapter) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (m *MySQLAdapter) orderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, product_image, quantity, unit_price, total_price
		FROM order_lines WHERE order_id = ? ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.ProductImage,
			&l.Quantity, &l.UnitPrice, &l.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (m *MySQLAdapter) attachLines(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	for i := range orders {
		lines, err := m.orderLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func collectOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func scanOrder(scan func(dest ...interface{}) error) (*domain.Order, error) {
	var o domain.Order
	err := scan(&o.ID, &o.OrderNumber, &o.AccountID, &o.Status,
		&o.Subtotal, &o.ShippingCost, &o.Tax, &o.Total,
		&o.ShippingName, &o.ShippingAddress, &o.ShippingCity, &o.ShippingPhone,
		&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
