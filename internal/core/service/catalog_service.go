package service

import (
	"context"
	"fmt"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/port"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// CatalogListInput is the storefront listing request: category filter,
// search, sort and page.
type CatalogListInput struct {
	Category string
	Search   string
	Sort     string
	Page     int
	PerPage  int
}

// CatalogPage is one page of products with pagination bookkeeping.
type CatalogPage struct {
	Products []domain.Product
	Total    int
	Page     int
	PerPage  int
}

type CatalogService struct {
	products port.ProductRepository
}

func NewCatalogService(products port.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// List pages available products. Unknown categories and sorts fall back to
// no filter and newest-first rather than erroring.
func (s *CatalogService) List(ctx context.Context, in CatalogListInput) (*CatalogPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	perPage := in.PerPage
	if perPage < 1 {
		perPage = defaultPageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}

	filter := port.ProductFilter{
		Search:        in.Search,
		Sort:          normalizeSort(in.Sort),
		AvailableOnly: true,
		Limit:         perPage,
		Offset:        (page - 1) * perPage,
	}
	if c := domain.Category(in.Category); c.Valid() {
		filter.Category = c
	}

	products, total, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &CatalogPage{Products: products, Total: total, Page: page, PerPage: perPage}, nil
}

// Get returns a product and up to four related products from its category.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, []domain.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch product: %w", err)
	}
	if product == nil {
		return nil, nil, ErrNotFound
	}

	related, err := s.products.RelatedProducts(ctx, id, product.Category, 4)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch related products: %w", err)
	}
	return product, related, nil
}

// Featured picks a random selection of available products for the home
// surface.
func (s *CatalogService) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	products, _, err := s.products.ListProducts(ctx, port.ProductFilter{
		Sort:          "random",
		AvailableOnly: true,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	return products, nil
}

// NewArrivals returns the latest available products.
func (s *CatalogService) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	products, _, err := s.products.ListProducts(ctx, port.ProductFilter{
		Sort:          "newest",
		AvailableOnly: true,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list new arrivals: %w", err)
	}
	return products, nil
}

// CategoryCounts returns the available product count per category.
func (s *CatalogService) CategoryCounts(ctx context.Context) (map[domain.Category]int, error) {
	counts := make(map[domain.Category]int, 2)
	for _, c := range []domain.Category{domain.CategoryShoes, domain.CategoryClothing} {
		n, err := s.products.CountByCategory(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c, err)
		}
		counts[c] = n
	}
	return counts, nil
}

func normalizeSort(sort string) string {
	switch sort {
	case "price_low", "price_high", "name":
		return sort
	}
	return "newest"
}
