package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/port"
)

var productColumnList = []string{
	"id", "name", "description", "price", "original_price", "category", "subcategory",
	"brand", "color", "size", "material", "stock", "is_available", "image", "created_at", "updated_at",
}

var productColumns = strings.Join(productColumnList, ", ")

func prefixedProductColumns(alias string) string {
	cols := make([]string, len(productColumnList))
	for i, c := range productColumnList {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (m *MySQLAdapter) ListProducts(ctx context.Context, f port.ProductFilter) ([]domain.Product, int, error) {
	where, args := productWhere(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := m.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + productOrder(f.Sort)
	listArgs := args
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		listArgs = append(append([]interface{}{}, args...), f.Limit, f.Offset)
	}

	rows, err := m.db.QueryContext(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}
	return products, total, nil
}

func (m *MySQLAdapter) RelatedProducts(ctx context.Context, productID int64, category domain.Category, limit int) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE id != ? AND category = ? AND is_available = TRUE
		ORDER BY created_at DESC
		LIMIT ?`,
		productID, category, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query related products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) CountByCategory(ctx context.Context, c domain.Category) (int, error) {
	var n int
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category = ? AND is_available = TRUE`, c).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category: %w", err)
	}
	return n, nil
}

func (m *MySQLAdapter) CreateProduct(ctx context.Context, p *domain.Product) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO products (name, description, price, original_price, category, subcategory,
			brand, color, size, material, stock, is_available, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Price, p.OriginalPrice, p.Category, p.Subcategory,
		p.Brand, p.Color, p.Size, p.Material, p.Stock, p.IsAvailable, p.Image,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	p.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("product insert id: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) UpdateProduct(ctx context.Context, p *domain.Product) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, original_price = ?, category = ?, subcategory = ?,
			brand = ?, color = ?, size = ?, material = ?, stock = ?, is_available = ?, image = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Price, p.OriginalPrice, p.Category, p.Subcategory,
		p.Brand, p.Color, p.Size, p.Material, p.Stock, p.IsAvailable, p.Image,
		p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// DeleteProduct removes the product and its cart references in one
// transaction. Order lines survive; they are snapshots, not references.
func (m *MySQLAdapter) DeleteProduct(ctx context.Context, id int64) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("delete cart lines: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM wishlist WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("delete wishlist items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrNotFound
	}
	return tx.Commit()
}

func (m *MySQLAdapter) LowStockProducts(ctx context.Context, below, limit int) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE stock < ?
		ORDER BY stock ASC
		LIMIT ?`,
		below, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query low stock: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func productWhere(f port.ProductFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if f.AvailableOnly {
		clauses = append(clauses, "is_available = TRUE")
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		clauses = append(clauses, "(name LIKE ? OR description LIKE ? OR brand LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func productOrder(sort string) string {
	switch sort {
	case "price_low":
		return " ORDER BY price ASC"
	case "price_high":
		return " ORDER BY price DESC"
	case "name":
		return " ORDER BY name ASC"
	case "random":
		return " ORDER BY RAND()"
	}
	return " ORDER BY created_at DESC"
}

func scanProduct(scan func(dest ...interface{}) error) (*domain.Product, error) {
	var p domain.Product
	var originalPrice sql.NullInt64
	err := scan(&p.ID, &p.Name, &p.Description, &p.Price, &originalPrice,
		&p.Category, &p.Subcategory, &p.Brand, &p.Color, &p.Size, &p.Material,
		&p.Stock, &p.IsAvailable, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if originalPrice.Valid {
		p.OriginalPrice = domain.Money(originalPrice.Int64)
	}
	return &p, nil
}
