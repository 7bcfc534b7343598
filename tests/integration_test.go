package tests

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jutta-lagani/storefront/internal/adapter/storage"
	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/core/service"
)

type testEnv struct {
	mysql    *sql.DB
	db       *storage.MySQLAdapter
	cache    *storage.RedisAdapter
	accounts *service.AccountService
	catalog  *service.CatalogService
	cart     *service.CartService
	orders   *service.OrderService
	wishlist *service.WishlistService
	admin    *service.AdminService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/storefront_test?parseTime=true"
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mysqlAdapter := storage.NewMySQLAdapter(db)
	require.NoError(t, mysqlAdapter.RunMigrations("../migrations"))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	cache := storage.NewRedisAdapter(rdb, time.Hour)

	pricing := service.Pricing{
		FreeShippingThreshold: 1000,
		FlatShippingFee:       100,
		TaxRateBasisPoints:    1000,
	}
	cart := service.NewCartService(mysqlAdapter, mysqlAdapter, cache)

	return &testEnv{
		mysql:    db,
		db:       mysqlAdapter,
		cache:    cache,
		accounts: service.NewAccountService(mysqlAdapter, 4),
		catalog:  service.NewCatalogService(mysqlAdapter),
		cart:     cart,
		orders:   service.NewOrderService(cart, mysqlAdapter, cache, pricing),
		wishlist: service.NewWishlistService(mysqlAdapter, mysqlAdapter),
		admin:    service.NewAdminService(mysqlAdapter, mysqlAdapter, mysqlAdapter),
	}
}

func (env *testEnv) createProduct(t *testing.T, price domain.Money, stock int) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Name:        fmt.Sprintf("flow-test-%s", uuid.NewString()),
		Description: "integration flow product",
		Price:       price,
		Category:    domain.CategoryClothing,
		Stock:       stock,
		IsAvailable: true,
		Image:       "default-clothing.jpg",
	}
	require.NoError(t, env.db.CreateProduct(context.Background(), product))
	return product
}

// TestIntegration_FullStorefrontFlow walks the whole customer journey: an
// anonymous visitor fills a cart, registers, logs in (the guest cart merges),
// checks out, and an admin then ships the order.
func TestIntegration_FullStorefrontFlow(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, 700, 10)
	cheap := env.createProduct(t, 150, 10)

	// Anonymous browsing and cart building.
	guestToken := uuid.NewString()
	guest := domain.Actor{Token: guestToken}

	detail, related, err := env.catalog.Get(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, product.Name, detail.Name)
	for _, r := range related {
		require.NotEqual(t, product.ID, r.ID)
	}

	require.NoError(t, env.cart.Add(ctx, guest, product.ID, 2, "M", ""))
	require.NoError(t, env.cart.Add(ctx, guest, cheap.ID, 1, "", ""))

	// Registration and login.
	suffix := uuid.NewString()[:8]
	account, err := env.accounts.Register(ctx, service.RegisterInput{
		Username:        "shopper-" + suffix,
		Email:           "shopper-" + suffix + "@example.com",
		FullName:        "Flow Shopper",
		Password:        "hunter-gatherer",
		ConfirmPassword: "hunter-gatherer",
	})
	require.NoError(t, err)

	loggedIn, err := env.accounts.Login(ctx, account.Email, "hunter-gatherer")
	require.NoError(t, err)

	// The guest cart merges into the account at login.
	require.NoError(t, env.cart.MergeGuestCart(ctx, guestToken, loggedIn.ID))
	actor := domain.Actor{Account: loggedIn}
	lines, err := env.cart.Resolve(ctx, actor)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// Checkout.
	order, err := env.orders.PlaceOrder(ctx, loggedIn, service.CheckoutInput{
		ShippingName:    "Flow Shopper",
		ShippingAddress: "5 Journey Road",
		ShippingCity:    "Milan",
		ShippingPhone:   "0123456789",
		PaymentMethod:   service.PaymentCashOnDelivery,
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, order.Status)

	// Subtotal 2*700 + 150 = 1550, free shipping, 10% tax.
	require.Equal(t, domain.Money(1550), order.Subtotal)
	require.Equal(t, domain.Money(0), order.ShippingCost)
	require.Equal(t, domain.Money(155), order.Tax)
	require.Equal(t, domain.Money(1705), order.Total)

	// Cart wiped, stock decremented.
	lines, err = env.cart.Resolve(ctx, actor)
	require.NoError(t, err)
	require.Empty(t, lines)
	reloaded, err := env.db.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 8, reloaded.Stock)

	// The order shows up in history.
	history, err := env.orders.ListOrders(ctx, loggedIn.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	require.Equal(t, order.OrderNumber, history[0].OrderNumber)

	// Admin ships it.
	require.NoError(t, env.admin.UpdateOrderStatus(ctx, order.ID, "shipped"))
	shipped, err := env.admin.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusShipped, shipped.Status)
}

// TestIntegration_OrderSnapshotImmutable verifies that catalog edits after
// checkout never show through on the committed order.
func TestIntegration_OrderSnapshotImmutable(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, 2000, 5)

	suffix := uuid.NewString()[:8]
	account, err := env.accounts.Register(ctx, service.RegisterInput{
		Username:        "freeze-" + suffix,
		Email:           "freeze-" + suffix + "@example.com",
		Password:        "immutable",
		ConfirmPassword: "immutable",
	})
	require.NoError(t, err)

	actor := domain.Actor{Account: account}
	require.NoError(t, env.cart.Add(ctx, actor, product.ID, 1, "", ""))

	order, err := env.orders.PlaceOrder(ctx, account, service.CheckoutInput{
		ShippingName:    "Freeze Test",
		ShippingAddress: "9 Snapshot Street",
		ShippingCity:    "Turin",
		ShippingPhone:   "0123456789",
		PaymentMethod:   service.PaymentCard,
	})
	require.NoError(t, err)

	// Reprice and rename the product, then delete it entirely.
	originalName := product.Name
	product.Name = "renamed-" + suffix
	product.Price = 9999
	require.NoError(t, env.db.UpdateProduct(ctx, product))

	got, err := env.orders.GetOrder(ctx, account, order.ID)
	require.NoError(t, err)
	require.Equal(t, originalName, got.Lines[0].ProductName)
	require.Equal(t, domain.Money(2000), got.Lines[0].UnitPrice)
	require.Equal(t, order.Total, got.Total)
}

// TestIntegration_ConsecutiveCheckouts verifies the double-submit guard keys
// on the cart contents: a second order with a fresh cart goes through right
// after a successful checkout.
func TestIntegration_ConsecutiveCheckouts(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first := env.createProduct(t, 500, 10)
	second := env.createProduct(t, 300, 10)

	suffix := uuid.NewString()[:8]
	account, err := env.accounts.Register(ctx, service.RegisterInput{
		Username:        "repeat-" + suffix,
		Email:           "repeat-" + suffix + "@example.com",
		Password:        "buy-again",
		ConfirmPassword: "buy-again",
	})
	require.NoError(t, err)

	actor := domain.Actor{Account: account}
	checkout := service.CheckoutInput{
		ShippingName:    "Repeat Shopper",
		ShippingAddress: "1 Encore Avenue",
		ShippingCity:    "Rome",
		ShippingPhone:   "0123456789",
		PaymentMethod:   service.PaymentCashOnDelivery,
	}

	require.NoError(t, env.cart.Add(ctx, actor, first.ID, 1, "", ""))
	one, err := env.orders.PlaceOrder(ctx, account, checkout)
	require.NoError(t, err)

	// A new cart right after is a new order, not a duplicate submit.
	require.NoError(t, env.cart.Add(ctx, actor, second.ID, 2, "", ""))
	two, err := env.orders.PlaceOrder(ctx, account, checkout)
	require.NoError(t, err)

	require.NotEqual(t, one.OrderNumber, two.OrderNumber)
	require.Equal(t, domain.Money(600), two.Subtotal)

	history, err := env.orders.ListOrders(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}
