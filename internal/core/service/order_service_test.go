package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jutta-lagani/storefront/internal/core/domain"
)

type orderFixture struct {
	svc         *OrderService
	cart        *CartService
	products    *mockProductRepo
	carts       *mockCartRepo
	orders      *mockOrderRepo
	idempotency *mockIdempotencyStore
}

func newOrderFixture(products ...domain.Product) *orderFixture {
	productRepo := newMockProductRepo(products...)
	cartRepo := newMockCartRepo()
	guestStore := newMockGuestCartStore()
	orderRepo := newMockOrderRepo(productRepo, cartRepo)
	idem := newMockIdempotencyStore()

	cart := NewCartService(productRepo, cartRepo, guestStore)
	svc := NewOrderService(cart, orderRepo, idem, testPricing)
	return &orderFixture{
		svc:         svc,
		cart:        cart,
		products:    productRepo,
		carts:       cartRepo,
		orders:      orderRepo,
		idempotency: idem,
	}
}

func validCheckout() CheckoutInput {
	return CheckoutInput{
		ShippingName:    "Ada Lovelace",
		ShippingAddress: "12 Analytical Way",
		ShippingCity:    "London",
		ShippingPhone:   "07000000001",
		PaymentMethod:   PaymentCashOnDelivery,
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	fx := newOrderFixture(testProduct(1, 700, 10))
	account := &domain.Account{ID: 7, Role: domain.RoleCustomer}
	actor := domain.Actor{Account: account}

	if err := fx.cart.Add(context.Background(), actor, 1, 2, "", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	order, err := fx.svc.PlaceOrder(context.Background(), account, validCheckout())
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected pending status, got %s", order.Status)
	}
	if order.Subtotal != 1400 {
		t.Errorf("expected subtotal 1400, got %d", order.Subtotal)
	}
	if order.ShippingCost != 0 {
		t.Errorf("expected free shipping, got %d", order.ShippingCost)
	}
	if order.Tax != 140 {
		t.Errorf("expected tax 140, got %d", order.Tax)
	}
	if order.Total != 1540 {
		t.Errorf("expected total 1540, got %d", order.Total)
	}
	if len(order.Lines) != 1 || order.Lines[0].Quantity != 2 {
		t.Fatalf("expected one line of quantity 2, got %+v", order.Lines)
	}
	if !strings.HasPrefix(order.OrderNumber, "JL-") {
		t.Errorf("expected JL- order number, got %q", order.OrderNumber)
	}

	// Cart is wiped by the commit.
	lines, _ := fx.cart.Resolve(context.Background(), actor)
	if len(lines) != 0 {
		t.Errorf("expected empty cart after checkout, got %d lines", len(lines))
	}

	// Stock decremented.
	p, _ := fx.products.GetProduct(context.Background(), 1)
	if p.Stock != 8 {
		t.Errorf("expected stock 8, got %d", p.Stock)
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	fx := newOrderFixture(testProduct(1, 700, 10))
	account := &domain.Account{ID: 7, Role: domain.RoleCustomer}

	_, err := fx.svc.PlaceOrder(context.Background(), account, validCheckout())
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got: %v", err)
	}
}

func TestPlaceOrder_InvalidInput(t *testing.T) {
	fx := newOrderFixture(testProduct(1, 700, 10))
	account := &domain.Account{ID: 7, Role: domain.RoleCustomer}

	in := validCheckout()
	in.ShippingAddress = ""
	in.PaymentMethod = "barter"

	_, err := fx.svc.PlaceOrder(context.Background(), account, in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got: %v", err)
	}
	if _, ok := verr.Fields["shipping_address"]; !ok {
		t.Error("expected shipping_address field error")
	}
	if _, ok := verr.Fields["payment_method"]; !ok {
		t.Error("expected payment_method field error")
	}
}

func TestPlaceOrder_DuplicateRequest(t *testing.T) {
	fx := newOrderFixture(testProduct(1, 700, 10))
	account := &domain.Account{ID: 7, Role: domain.RoleCustomer}
	actor := domain.Actor{Account: account}

	if err := fx.cart.Add(context.Background(), actor, 1, 1, "", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	lines, err := fx.cart.Resolve(context.Background(), actor)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	// Hold the key for this exact cart as if a submit were in flight.
	if ok, _ := fx.idempotency.SetIdempotency(context.Background(), checkoutKey(account.ID, lines)); !ok {
		t.Fatal("failed to pre-set idempotency key")
	}

	_, err = fx.svc.PlaceOrder(context.Background(), account, validCheckout())
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("expected ErrDuplicateRequest, got: %v", err)
	}
}

func TestPlaceOrder_ConsecutiveOrdersSameAccount(t *testing.T) {
	fx := newOrderFixture(testProduct(1, 700, 10), testProduct(2, 300, 5))
	account := &domain.Account{ID: 7, Role: domain.RoleCustomer}
	actor := domain.Actor{Account: account}

	if err := fx.cart.Add(context.Background(), actor, 1, 1, "", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := fx.svc.PlaceOrder(context.Background(), account, validCheckout()); err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}

	// A fresh cart right after a successful checkout is a new order, not a
	// duplicate submit.
	if err := fx.cart.Add(context.Background(), actor, 2, 2, "", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := fx.svc.PlaceOrder(context.Background(), account, validCheckout())
	if err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}
	if order.Subtotal != 600 {
		t.Errorf("expected subtotal 600, got %d", order.Subtotal)
	}
}

func TestPlaceOrder_StockExhaustedReleasesIdempotency(t *testing.T) {
	fx := newOrderFixture(testProduct(1, 700, 1))
	account := &domain.Account{ID: 7, Role: domain.RoleCustomer}
	actor := domain.Actor{Account: account}

	if err := fx.cart.Add(context.Background(), actor, 1, 1, "", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// Stock vanishes between add-to-cart and checkout.
	p, _ := fx.products.GetProduct(context.Background(), 1)
	p.Stock = 0
	if err := fx.products.UpdateProduct(context.Background(), p); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	_, err := fx.svc.PlaceOrder(context.Background(), account, validCheckout())
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}

	// Failure is terminal: the cart survives and resubmission is allowed.
	lines, _ := fx.cart.Resolve(context.Background(), actor)
	if len(lines) != 1 {
		t.Errorf("expected cart intact after failed checkout, got %d lines", len(lines))
	}

	p.Stock = 1
	if err := fx.products.UpdateProduct(context.Background(), p); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := fx.svc.PlaceOrder(context.Background(), account, validCheckout()); err != nil {
		t.Errorf("expected resubmission to succeed, got: %v", err)
	}
}

func TestPlaceOrder_RegeneratesOrderNumberOnConflict(t *testing.T) {
	fx := newOrderFixture(testProduct(1, 700, 10))
	fx.orders.duplicateBudget = 2
	account := &domain.Account{ID: 7, Role: domain.RoleCustomer}
	actor := domain.Actor{Account: account}

	if err := fx.cart.Add(context.Background(), actor, 1, 1, "", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	order, err := fx.svc.PlaceOrder(context.Background(), account, validCheckout())
	if err != nil {
		t.Fatalf("expected retry to succeed, got: %v", err)
	}
	if order.OrderNumber == "" {
		t.Error("expected order number after regeneration")
	}
}

func TestPlaceOrder_SnapshotSurvivesCatalogEdit(t *testing.T) {
	fx := newOrderFixture(testProduct(1, 700, 10))
	account := &domain.Account{ID: 7, Role: domain.RoleCustomer}
	actor := domain.Actor{Account: account}

	if err := fx.cart.Add(context.Background(), actor, 1, 1, "", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := fx.svc.PlaceOrder(context.Background(), account, validCheckout())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// Reprice and rename the product afterwards.
	p, _ := fx.products.GetProduct(context.Background(), 1)
	p.Name = "renamed"
	p.Price = 9999
	if err := fx.products.UpdateProduct(context.Background(), p); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := fx.svc.GetOrder(context.Background(), account, order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Lines[0].ProductName != "test product" {
		t.Errorf("expected frozen name, got %q", got.Lines[0].ProductName)
	}
	if got.Lines[0].UnitPrice != 700 {
		t.Errorf("expected frozen unit price 700, got %d", got.Lines[0].UnitPrice)
	}
	if got.Total != order.Total {
		t.Errorf("expected frozen total %d, got %d", order.Total, got.Total)
	}
}

func TestGetOrder_Authorization(t *testing.T) {
	fx := newOrderFixture(testProduct(1, 700, 10))
	owner := &domain.Account{ID: 7, Role: domain.RoleCustomer}
	stranger := &domain.Account{ID: 8, Role: domain.RoleCustomer}
	admin := &domain.Account{ID: 9, Role: domain.RoleAdmin}

	if err := fx.cart.Add(context.Background(), domain.Actor{Account: owner}, 1, 1, "", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := fx.svc.PlaceOrder(context.Background(), owner, validCheckout())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if _, err := fx.svc.GetOrder(context.Background(), owner, order.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := fx.svc.GetOrder(context.Background(), admin, order.ID); err != nil {
		t.Errorf("admin read failed: %v", err)
	}
	if _, err := fx.svc.GetOrder(context.Background(), stranger, order.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for stranger, got: %v", err)
	}
}

func TestPlaceOrder_ConcurrentNeverOversells(t *testing.T) {
	initialStock := 20
	totalRequests := 50

	fx := newOrderFixture(testProduct(1, 700, initialStock))

	accounts := make([]*domain.Account, totalRequests)
	for i := range accounts {
		accounts[i] = &domain.Account{ID: int64(i + 1), Role: domain.RoleCustomer}
		actor := domain.Actor{Account: accounts[i]}
		if err := fx.cart.Add(context.Background(), actor, 1, 1, "", ""); err != nil {
			t.Fatalf("add failed for account %d: %v", i+1, err)
		}
	}

	var successCount atomic.Int32
	var stockFailCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(account *domain.Account) {
			defer wg.Done()
			_, err := fx.svc.PlaceOrder(context.Background(), account, validCheckout())
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, ErrInsufficientStock):
				stockFailCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(accounts[i])
	}
	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d committed orders, got %d", initialStock, successCount.Load())
	}
	if stockFailCount.Load() != int32(totalRequests-initialStock) {
		t.Errorf("expected %d stock failures, got %d", totalRequests-initialStock, stockFailCount.Load())
	}

	p, _ := fx.products.GetProduct(context.Background(), 1)
	if p.Stock != 0 {
		t.Errorf("expected stock 0, got %d", p.Stock)
	}
}

func TestNewOrderNumber_Format(t *testing.T) {
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		n := domain.NewOrderNumber(ts)
		if !strings.HasPrefix(n, "JL-20260314-") {
			t.Fatalf("unexpected order number %q", n)
		}
		var suffix int
		if _, err := fmt.Sscanf(n, "JL-20260314-%d", &suffix); err != nil {
			t.Fatalf("unparseable order number %q: %v", n, err)
		}
		if suffix < 1000 || suffix > 9999 {
			t.Fatalf("suffix out of range in %q", n)
		}
	}
}
