package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/jutta-lagani/storefront/internal/adapter/handler"
	"github.com/jutta-lagani/storefront/internal/adapter/storage"
	"github.com/jutta-lagani/storefront/internal/config"
	"github.com/jutta-lagani/storefront/internal/core/service"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	mysqlAdapter := storage.NewMySQLAdapter(db)
	if err := mysqlAdapter.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("migrations up to date")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	redisAdapter := storage.NewRedisAdapter(rdb, cfg.SessionTTL)

	// Initialize services
	pricing := service.Pricing{
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		FlatShippingFee:       cfg.Pricing.FlatShippingFee,
		TaxRateBasisPoints:    cfg.Pricing.TaxRateBasisPoints,
	}

	accountService := service.NewAccountService(mysqlAdapter, cfg.BcryptCost)
	catalogService := service.NewCatalogService(mysqlAdapter)
	cartService := service.NewCartService(mysqlAdapter, mysqlAdapter, redisAdapter)
	orderService := service.NewOrderService(cartService, mysqlAdapter, redisAdapter, pricing)
	wishlistService := service.NewWishlistService(mysqlAdapter, mysqlAdapter)
	adminService := service.NewAdminService(mysqlAdapter, mysqlAdapter, mysqlAdapter)

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(
		accountService,
		catalogService,
		cartService,
		orderService,
		wishlistService,
		adminService,
		pricing,
		redisAdapter,
		cfg.SessionCookie,
	)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Routes(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	rdb.Close()
	db.Close()
	log.Println("connections closed")
}
