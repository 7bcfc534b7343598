package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/port"
)

// orderNumberAttempts bounds the regenerate-on-collision loop for the
// random order-number suffix.
const orderNumberAttempts = 5

// PaymentMethods accepted at checkout.
const (
	PaymentCashOnDelivery = "cod"
	PaymentCard           = "card"
)

// CheckoutInput is the shipping and payment detail submitted with an order.
type CheckoutInput struct {
	ShippingName    string
	ShippingAddress string
	ShippingCity    string
	ShippingPhone   string
	PaymentMethod   string
}

func (in CheckoutInput) validate() error {
	fields := fieldErrors{}
	if in.ShippingName == "" {
		fields.add("shipping_name", "name is required")
	}
	if in.ShippingAddress == "" {
		fields.add("shipping_address", "address is required")
	}
	if in.ShippingCity == "" {
		fields.add("shipping_city", "city is required")
	}
	if in.ShippingPhone == "" {
		fields.add("shipping_phone", "phone number is required")
	}
	if in.PaymentMethod != PaymentCashOnDelivery && in.PaymentMethod != PaymentCard {
		fields.add("payment_method", "must be cod or card")
	}
	return fields.err()
}

// OrderService turns a resolved cart into an immutable order. The commit is
// all-or-nothing: header, line snapshots, stock decrements and the cart wipe
// ride one transaction in the repository.
type OrderService struct {
	cart        *CartService
	orders      port.OrderRepository
	idempotency port.IdempotencyStore
	pricing     Pricing
	now         func() time.Time
}

func NewOrderService(cart *CartService, orders port.OrderRepository, idempotency port.IdempotencyStore, pricing Pricing) *OrderService {
	return &OrderService{
		cart:        cart,
		orders:      orders,
		idempotency: idempotency,
		pricing:     pricing,
		now:         time.Now,
	}
}

// PlaceOrder commits the account's cart as a new pending order.
func (s *OrderService) PlaceOrder(ctx context.Context, account *domain.Account, in CheckoutInput) (*domain.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	actor := domain.Actor{Account: account}
	lines, err := s.cart.Resolve(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("resolve cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	idempotencyKey := checkoutKey(account.ID, lines)
	ok, err := s.idempotency.SetIdempotency(ctx, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return nil, ErrDuplicateRequest
	}

	quote := s.pricing.Quote(lines)
	now := s.now()

	order := &domain.Order{
		AccountID:       account.ID,
		Status:          domain.OrderStatusPending,
		Subtotal:        quote.Subtotal,
		ShippingCost:    quote.Shipping,
		Tax:             quote.Tax,
		Total:           quote.Total,
		ShippingName:    in.ShippingName,
		ShippingAddress: in.ShippingAddress,
		ShippingCity:    in.ShippingCity,
		ShippingPhone:   in.ShippingPhone,
		PaymentMethod:   in.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, line := range lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID:    line.Product.ID,
			ProductName:  line.Product.Name,
			ProductImage: line.Product.Image,
			Quantity:     line.Quantity,
			UnitPrice:    line.Product.Price,
			TotalPrice:   line.LineTotal,
		})
	}

	if err := s.commitWithFreshNumber(ctx, order); err != nil {
		if releaseErr := s.idempotency.ReleaseIdempotency(ctx, idempotencyKey); releaseErr != nil {
			return nil, fmt.Errorf("release idempotency after %v: %w", err, releaseErr)
		}
		if errors.Is(err, port.ErrStockExhausted) {
			return nil, ErrInsufficientStock
		}
		return nil, fmt.Errorf("commit order: %w", err)
	}

	return order, nil
}

// checkoutKey fingerprints the resolved cart, so only a resubmission of the
// same cart within the guard window counts as a duplicate. A later order
// with different contents keys differently and goes through.
func checkoutKey(accountID int64, lines []domain.ResolvedLine) string {
	h := fnv.New64a()
	for _, line := range lines {
		fmt.Fprintf(h, "%d:%d:%s:%s;", line.Product.ID, line.Quantity, line.Size, line.Color)
	}
	return fmt.Sprintf("checkout:%d:%x", accountID, h.Sum64())
}

// commitWithFreshNumber regenerates the order number when the random suffix
// collides with an existing order.
func (s *OrderService) commitWithFreshNumber(ctx context.Context, order *domain.Order) error {
	var err error
	for i := 0; i < orderNumberAttempts; i++ {
		order.OrderNumber = domain.NewOrderNumber(s.now())
		err = s.orders.CommitOrder(ctx, order)
		if !errors.Is(err, port.ErrDuplicateOrderNumber) {
			return err
		}
	}
	return err
}

// GetOrder returns an order readable by its owner or any admin.
func (s *OrderService) GetOrder(ctx context.Context, account *domain.Account, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.AccountID != account.ID && !account.Role.IsAdmin() {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListOrders returns the account's order history, newest first.
func (s *OrderService) ListOrders(ctx context.Context, accountID int64) ([]domain.Order, error) {
	orders, err := s.orders.ListOrdersByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
