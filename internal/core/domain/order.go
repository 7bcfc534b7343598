package domain

import (
	"fmt"
	"math/rand"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status. Transitions are admin-driven
// and unordered, so this is the only check applied.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is an immutable purchase record. Financial fields and line
// snapshots are frozen at commit time; later catalog edits never touch them.
type Order struct {
	ID              int64
	OrderNumber     string
	AccountID       int64
	Status          OrderStatus
	Subtotal        Money
	ShippingCost    Money
	Tax             Money
	Total           Money
	ShippingName    string
	ShippingAddress string
	ShippingCity    string
	ShippingPhone   string
	PaymentMethod   string
	Lines           []OrderLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderLine is a frozen snapshot of a purchased item. Name, image and
// prices are copies taken at order time, not references into the catalog.
type OrderLine struct {
	ID           int64
	OrderID      int64
	ProductID    int64
	ProductName  string
	ProductImage string
	Quantity     int
	UnitPrice    Money
	TotalPrice   Money
}

const orderNumberPrefix = "JL"

// NewOrderNumber builds a human-readable order number: prefix, date, and a
// random 4-digit suffix. The suffix alone does not guarantee uniqueness;
// callers rely on the UNIQUE index on order_number and regenerate on
// conflict.
func NewOrderNumber(t time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", orderNumberPrefix, t.Format("20060102"), rand.Intn(9000)+1000)
}
