// Command stress_test demonstrates that checkout never oversells: it loads
// a product with a small fixed stock, fills a cart for many accounts, and
// fires their checkouts concurrently. Exactly stock-many orders must commit
// and the remainder must fail with insufficient stock.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/jutta-lagani/storefront/internal/adapter/storage"
	"github.com/jutta-lagani/storefront/internal/config"
	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/core/service"
)

const (
	initialStock  = 20
	totalRequests = 50
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	mysqlAdapter := storage.NewMySQLAdapter(db)
	if err := mysqlAdapter.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	redisAdapter := storage.NewRedisAdapter(rdb, cfg.SessionTTL)

	pricing := service.Pricing{
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		FlatShippingFee:       cfg.Pricing.FlatShippingFee,
		TaxRateBasisPoints:    cfg.Pricing.TaxRateBasisPoints,
	}
	cartService := service.NewCartService(mysqlAdapter, mysqlAdapter, redisAdapter)
	orderService := service.NewOrderService(cartService, mysqlAdapter, redisAdapter, pricing)

	// Scarce product under test
	product := &domain.Product{
		Name:        fmt.Sprintf("stress-test-item-%d", time.Now().UnixNano()),
		Description: "oversell check",
		Price:       2500,
		Category:    domain.CategoryShoes,
		Stock:       initialStock,
		IsAvailable: true,
		Image:       domain.CategoryShoes.DefaultImage(),
	}
	if err := mysqlAdapter.CreateProduct(ctx, product); err != nil {
		log.Fatalf("failed to create product: %v", err)
	}

	// One account with one cart line each
	accounts := make([]*domain.Account, totalRequests)
	for i := range accounts {
		a := &domain.Account{
			Username:     fmt.Sprintf("stress-%d-%d", time.Now().UnixNano(), i),
			Email:        fmt.Sprintf("stress-%d-%d@example.com", time.Now().UnixNano(), i),
			PasswordHash: "unused",
			Role:         domain.RoleCustomer,
		}
		if err := mysqlAdapter.CreateAccount(ctx, a); err != nil {
			log.Fatalf("failed to create account %d: %v", i, err)
		}
		actor := domain.Actor{Account: a}
		if err := cartService.Add(ctx, actor, product.ID, 1, "", ""); err != nil {
			log.Fatalf("failed to fill cart %d: %v", i, err)
		}
		accounts[i] = a
	}

	checkout := service.CheckoutInput{
		ShippingName:    "Stress Tester",
		ShippingAddress: "1 Load Lane",
		ShippingCity:    "Benchville",
		ShippingPhone:   "0000000000",
		PaymentMethod:   service.PaymentCashOnDelivery,
	}

	var successCount atomic.Int32
	var stockFailCount atomic.Int32
	var otherFailCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(account *domain.Account) {
			defer wg.Done()

			_, err := orderService.PlaceOrder(ctx, account, checkout)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, service.ErrInsufficientStock):
				stockFailCount.Add(1)
			default:
				otherFailCount.Add(1)
				log.Printf("unexpected checkout error: %v", err)
			}
		}(accounts[i])
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	stockFail := stockFailCount.Load()
	otherFail := otherFailCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:      %d\n", initialStock)
	fmt.Printf("Total Checkouts:    %d\n", totalRequests)
	fmt.Printf("Committed:          %d\n", success)
	fmt.Printf("Stock Exhausted:    %d\n", stockFail)
	fmt.Printf("Other Failures:     %d\n", otherFail)
	fmt.Printf("Duration:           %v\n", elapsed)
	fmt.Println("==========================================")

	if success == initialStock && stockFail == totalRequests-initialStock && otherFail == 0 {
		fmt.Printf("PASS: exactly %d orders committed, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: expected %d committed / %d rejected, got %d/%d (+%d other)\n",
			initialStock, totalRequests-initialStock, success, stockFail, otherFail)
	}

	final, err := mysqlAdapter.GetProduct(ctx, product.ID)
	if err != nil {
		log.Fatalf("failed to reload product: %v", err)
	}
	fmt.Printf("Final Stock: %d\n", final.Stock)
	if final.Stock == 0 {
		fmt.Println("PASS: stock depleted to 0")
	} else {
		fmt.Printf("FAIL: expected stock 0, got %d\n", final.Stock)
	}
}
