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

const accountColumns = `id, username, email, password_hash, full_name, phone, address, role, created_at, updated_at`

// accountConflict classifies a duplicate-key error by the UNIQUE index it
// hit. A concurrent registration can slip past the service-level lookup and
// land here.
func accountConflict(err error) error {
	if !isDuplicateEntry(err) {
		return nil
	}
	if strings.Contains(err.Error(), "uq_accounts_email") {
		return port.ErrDuplicateEmail
	}
	return port.ErrDuplicateUsername
}

func (m *MySQLAdapter) CreateAccount(ctx context.Context, a *domain.Account) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO accounts (username, email, password_hash, full_name, phone, address, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Username, a.Email, a.PasswordHash, a.FullName, a.Phone, a.Address, a.Role,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if conflict := accountConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("insert account: %w", err)
	}

	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("account insert id: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return m.scanAccount(m.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

func (m *MySQLAdapter) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return m.scanAccount(m.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
}

func (m *MySQLAdapter) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return m.scanAccount(m.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username))
}

func (m *MySQLAdapter) UpdateAccount(ctx context.Context, a *domain.Account) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE accounts
		SET username = ?, email = ?, password_hash = ?, full_name = ?, phone = ?, address = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		a.Username, a.Email, a.PasswordHash, a.FullName, a.Phone, a.Address, a.Role,
		a.UpdatedAt, a.ID,
	)
	if err != nil {
		if conflict := accountConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func (m *MySQLAdapter) scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FullName,
		&a.Phone, &a.Address, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}
