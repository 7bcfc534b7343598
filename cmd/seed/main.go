// Command seed prepares a fresh database: it runs the migrations, creates
// the master admin account, and loads a small sample catalog so the
// storefront has something to show. Safe to re-run; existing data is left
// alone.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"github.com/jutta-lagani/storefront/internal/adapter/storage"
	"github.com/jutta-lagani/storefront/internal/config"
	"github.com/jutta-lagani/storefront/internal/core/domain"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	adapter := storage.NewMySQLAdapter(db)
	if err := adapter.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("migrations up to date")

	if err := seedMasterAdmin(ctx, adapter, cfg.BcryptCost); err != nil {
		log.Fatalf("failed to seed master admin: %v", err)
	}

	if err := seedCatalog(ctx, adapter); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}

	log.Println("seed complete")
}

func seedMasterAdmin(ctx context.Context, adapter *storage.MySQLAdapter, bcryptCost int) error {
	username := envOr("SEED_ADMIN_USERNAME", "admin")
	email := envOr("SEED_ADMIN_EMAIL", "admin@example.com")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Println("SEED_ADMIN_PASSWORD not set, skipping master admin")
		return nil
	}

	existing, err := adapter.GetAccountByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Printf("master admin %q already exists", username)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Master Admin",
		Role:         domain.RoleMasterAdmin,
	}
	if err := adapter.CreateAccount(ctx, admin); err != nil {
		return err
	}
	log.Printf("created master admin %q (id %d)", username, admin.ID)
	return nil
}

func seedCatalog(ctx context.Context, adapter *storage.MySQLAdapter) error {
	count, err := adapter.CountProducts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("catalog already has %d products, skipping samples", count)
		return nil
	}

	for i := range sampleProducts {
		p := sampleProducts[i]
		if p.Image == "" {
			p.Image = p.Category.DefaultImage()
		}
		if err := adapter.CreateProduct(ctx, &p); err != nil {
			return err
		}
	}
	log.Printf("created %d sample products", len(sampleProducts))
	return nil
}

var sampleProducts = []domain.Product{
	{
		Name:        "Classic Leather Oxford",
		Description: "Hand-finished leather oxford with a stitched welt sole.",
		Price:       8999,
		Category:    domain.CategoryShoes,
		Subcategory: "formal",
		Brand:       "Jutta Lagani",
		Color:       "black",
		Size:        "42",
		Material:    "leather",
		Stock:       25,
		IsAvailable: true,
	},
	{
		Name:          "Suede Chelsea Boot",
		Description:   "Water-resistant suede boot with elastic side panels.",
		Price:         10999,
		OriginalPrice: 13999,
		Category:      domain.CategoryShoes,
		Subcategory:   "boots",
		Brand:         "Jutta Lagani",
		Color:         "tan",
		Size:          "43",
		Material:      "suede",
		Stock:         18,
		IsAvailable:   true,
	},
	{
		Name:        "Canvas Low-Top Sneaker",
		Description: "Everyday sneaker with a vulcanized rubber sole.",
		Price:       4599,
		Category:    domain.CategoryShoes,
		Subcategory: "sneakers",
		Brand:       "Jutta Lagani",
		Color:       "white",
		Size:        "41",
		Material:    "canvas",
		Stock:       40,
		IsAvailable: true,
	},
	{
		Name:          "Merino Crewneck Sweater",
		Description:   "Fine-gauge merino knit, fully fashioned seams.",
		Price:         7499,
		OriginalPrice: 9499,
		Category:      domain.CategoryClothing,
		Subcategory:   "knitwear",
		Brand:         "Jutta Lagani",
		Color:         "navy",
		Size:          "M",
		Material:      "merino wool",
		Stock:         30,
		IsAvailable:   true,
	},
	{
		Name:        "Linen Summer Shirt",
		Description: "Relaxed-fit shirt in garment-washed linen.",
		Price:       5299,
		Category:    domain.CategoryClothing,
		Subcategory: "shirts",
		Brand:       "Jutta Lagani",
		Color:       "sand",
		Size:        "L",
		Material:    "linen",
		Stock:       22,
		IsAvailable: true,
	},
	{
		Name:        "Tailored Wool Trousers",
		Description: "Mid-rise trousers with a tapered leg and side adjusters.",
		Price:       9899,
		Category:    domain.CategoryClothing,
		Subcategory: "trousers",
		Brand:       "Jutta Lagani",
		Color:       "charcoal",
		Size:        "32",
		Material:    "wool",
		Stock:       15,
		IsAvailable: true,
	},
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
