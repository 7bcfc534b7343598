package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/port"
)

const (
	adminPageSize      = 20
	lowStockThreshold  = 10
	lowStockListLength = 5
	recentOrdersLength = 10
)

// ProductInput is the admin product create/edit payload. Prices are in the
// smallest currency unit.
type ProductInput struct {
	Name          string
	Description   string
	Price         domain.Money
	OriginalPrice domain.Money
	Category      string
	Subcategory   string
	Brand         string
	Color         string
	Size          string
	Material      string
	Stock         int
	IsAvailable   bool
	Image         string
}

func (in ProductInput) validate() error {
	fields := fieldErrors{}
	if in.Name == "" {
		fields.add("name", "name is required")
	}
	if in.Description == "" {
		fields.add("description", "description is required")
	}
	if in.Price <= 0 {
		fields.add("price", "must be positive")
	}
	if in.OriginalPrice < 0 {
		fields.add("original_price", "must not be negative")
	}
	if !domain.Category(in.Category).Valid() {
		fields.add("category", "must be shoes or clothing")
	}
	if in.Stock < 0 {
		fields.add("stock", "must not be negative")
	}
	return fields.err()
}

// DashboardStats is the admin landing summary.
type DashboardStats struct {
	TotalProducts int
	TotalOrders   int
	TotalAccounts int
	TotalRevenue  domain.Money
	RecentOrders  []domain.Order
	LowStock      []domain.Product
}

// AdminService is the back office: catalog CRUD, order management, and the
// dashboard. Authorize is the single role gate for all of it.
type AdminService struct {
	products port.ProductRepository
	orders   port.OrderRepository
	accounts port.AccountRepository
	now      func() time.Time
}

func NewAdminService(products port.ProductRepository, orders port.OrderRepository, accounts port.AccountRepository) *AdminService {
	return &AdminService{
		products: products,
		orders:   orders,
		accounts: accounts,
		now:      time.Now,
	}
}

// Authorize gates every admin operation. All role checks in the system
// funnel through here and domain.Role.IsAdmin.
func (s *AdminService) Authorize(account *domain.Account) error {
	if account == nil || !account.Role.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalProducts, err = s.products.CountProducts(ctx); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if stats.TotalOrders, err = s.orders.CountOrders(ctx); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	if stats.TotalAccounts, err = s.accounts.CountAccounts(ctx); err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}
	if stats.TotalRevenue, err = s.orders.TotalRevenue(ctx); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	if stats.RecentOrders, err = s.orders.RecentOrders(ctx, recentOrdersLength); err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	if stats.LowStock, err = s.products.LowStockProducts(ctx, lowStockThreshold, lowStockListLength); err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	return stats, nil
}

// ListProducts pages the full catalog for the back office, unavailable
// products included.
func (s *AdminService) ListProducts(ctx context.Context, category string, page int) (*CatalogPage, error) {
	if page < 1 {
		page = 1
	}
	filter := port.ProductFilter{
		Sort:   "newest",
		Limit:  adminPageSize,
		Offset: (page - 1) * adminPageSize,
	}
	if c := domain.Category(category); c.Valid() {
		filter.Category = c
	}

	products, total, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &CatalogPage{Products: products, Total: total, Page: page, PerPage: adminPageSize}, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	product := &domain.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Category:      domain.Category(in.Category),
		Subcategory:   in.Subcategory,
		Brand:         in.Brand,
		Color:         in.Color,
		Size:          in.Size,
		Material:      in.Material,
		Stock:         in.Stock,
		IsAvailable:   in.IsAvailable,
		Image:         in.Image,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if product.Image == "" {
		product.Image = product.Category.DefaultImage()
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// UpdateProduct edits the live catalog entry. Historical order lines hold
// their own copies, so nothing here touches past orders.
func (s *AdminService) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch product: %w", err)
	}
	if product == nil {
		return nil, ErrNotFound
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.OriginalPrice = in.OriginalPrice
	product.Category = domain.Category(in.Category)
	product.Subcategory = in.Subcategory
	product.Brand = in.Brand
	product.Color = in.Color
	product.Size = in.Size
	product.Material = in.Material
	product.Stock = in.Stock
	product.IsAvailable = in.IsAvailable
	if in.Image != "" {
		product.Image = in.Image
	}
	product.UpdatedAt = s.now()

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product and the cart lines that reference it.
// Carts resolve missing products by dropping them, so in-flight sessions
// degrade quietly.
func (s *AdminService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch product: %w", err)
	}
	if product == nil {
		return ErrNotFound
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// OrderPage is one admin page of orders.
type OrderPage struct {
	Orders  []domain.Order
	Total   int
	Page    int
	PerPage int
}

// ListOrders pages all orders, optionally filtered by status.
func (s *AdminService) ListOrders(ctx context.Context, status string, page int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	var filter domain.OrderStatus
	if status != "" {
		filter = domain.OrderStatus(status)
		if !filter.Valid() {
			return nil, &ValidationError{Fields: fieldErrors{"status": "unknown order status"}}
		}
	}

	orders, total, err := s.orders.ListOrders(ctx, filter, adminPageSize, (page-1)*adminPageSize)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &OrderPage{Orders: orders, Total: total, Page: page, PerPage: adminPageSize}, nil
}

// GetOrder fetches any order for the back office.
func (s *AdminService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// UpdateOrderStatus sets any valid status; transitions are admin-driven
// with no ordering constraint.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	st := domain.OrderStatus(status)
	if !st.Valid() {
		return &ValidationError{Fields: fieldErrors{"status": "unknown order status"}}
	}
	if err := s.orders.UpdateOrderStatus(ctx, id, st); err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}
