package domain

import "time"

type Role string

const (
	RoleCustomer    Role = "customer"
	RoleAdmin       Role = "admin"
	RoleMasterAdmin Role = "master_admin"
)

// IsAdmin is the single authorization check for admin-gated operations.
// Master admin is a finer distinction with no extra exposed privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleMasterAdmin
}

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleMasterAdmin:
		return true
	}
	return false
}

type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Address      string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is whoever is driving a cart/checkout request: an authenticated
// account, or an anonymous session identified only by its token.
type Actor struct {
	Account *Account
	Token   string
}

func (a Actor) Authenticated() bool {
	return a.Account != nil
}
