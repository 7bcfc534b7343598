package config

import (
	"os"
	"strconv"
	"time"

	"github.com/jutta-lagani/storefront/internal/core/domain"
)

type Config struct {
	HTTPAddr       string
	MySQLDSN       string
	RedisAddr      string
	MigrationsPath string

	SessionTTL    time.Duration
	SessionCookie string
	BcryptCost    int

	Pricing Pricing
}

// Pricing carries the checkout constants. Amounts are in the smallest
// currency unit; the tax rate is in basis points so the arithmetic stays
// integral.
type Pricing struct {
	FreeShippingThreshold domain.Money
	FlatShippingFee       domain.Money
	TaxRateBasisPoints    int64
}

func Load() Config {
	return Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		MySQLDSN:       getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/storefront?parseTime=true"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionTTL:     getDuration("SESSION_TTL", 7*24*time.Hour),
		SessionCookie:  getEnv("SESSION_COOKIE", "storefront_session"),
		BcryptCost:     getInt("BCRYPT_COST", 10),
		Pricing: Pricing{
			FreeShippingThreshold: domain.Money(getInt64("FREE_SHIPPING_THRESHOLD", 1000)),
			FlatShippingFee:       domain.Money(getInt64("FLAT_SHIPPING_FEE", 100)),
			TaxRateBasisPoints:    getInt64("TAX_RATE_BASIS_POINTS", 1000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
