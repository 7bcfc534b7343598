package handler

import (
	"time"

	"github.com/jutta-lagani/storefront/internal/core/domain"
)

type productJSON struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	OriginalPrice   int64  `json:"original_price,omitempty"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
	Category        string `json:"category"`
	Subcategory     string `json:"subcategory,omitempty"`
	Brand           string `json:"brand,omitempty"`
	Color           string `json:"color,omitempty"`
	Size            string `json:"size,omitempty"`
	Material        string `json:"material,omitempty"`
	Stock           int    `json:"stock"`
	IsAvailable     bool   `json:"is_available"`
	Image           string `json:"image"`
}

func toProductJSON(p domain.Product) productJSON {
	return productJSON{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           int64(p.Price),
		OriginalPrice:   int64(p.OriginalPrice),
		DiscountPercent: p.DiscountPercent(),
		Category:        string(p.Category),
		Subcategory:     p.Subcategory,
		Brand:           p.Brand,
		Color:           p.Color,
		Size:            p.Size,
		Material:        p.Material,
		Stock:           p.Stock,
		IsAvailable:     p.IsAvailable,
		Image:           p.Image,
	}
}

func toProductListJSON(products []domain.Product) []productJSON {
	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	return out
}

type cartLineJSON struct {
	LineID    int64       `json:"line_id"`
	Product   productJSON `json:"product"`
	Quantity  int         `json:"quantity"`
	Size      string      `json:"size,omitempty"`
	Color     string      `json:"color,omitempty"`
	LineTotal int64       `json:"line_total"`
}

type cartJSON struct {
	Lines    []cartLineJSON `json:"lines"`
	Subtotal int64          `json:"subtotal"`
	Shipping int64          `json:"shipping"`
	Total    int64          `json:"total"`
}

func toCartJSON(lines []domain.ResolvedLine, subtotal, shipping, total domain.Money) cartJSON {
	out := cartJSON{
		Lines:    make([]cartLineJSON, 0, len(lines)),
		Subtotal: int64(subtotal),
		Shipping: int64(shipping),
		Total:    int64(total),
	}
	for _, line := range lines {
		out.Lines = append(out.Lines, cartLineJSON{
			LineID:    line.LineID,
			Product:   toProductJSON(line.Product),
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
			LineTotal: int64(line.LineTotal),
		})
	}
	return out
}

type orderLineJSON struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
	TotalPrice   int64  `json:"total_price"`
}

type orderJSON struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Status          string          `json:"status"`
	Subtotal        int64           `json:"subtotal"`
	ShippingCost    int64           `json:"shipping_cost"`
	Tax             int64           `json:"tax"`
	Total           int64           `json:"total"`
	ShippingName    string          `json:"shipping_name"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingCity    string          `json:"shipping_city"`
	ShippingPhone   string          `json:"shipping_phone"`
	PaymentMethod   string          `json:"payment_method"`
	Lines           []orderLineJSON `json:"lines,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toOrderJSON(o domain.Order) orderJSON {
	out := orderJSON{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Status:          string(o.Status),
		Subtotal:        int64(o.Subtotal),
		ShippingCost:    int64(o.ShippingCost),
		Tax:             int64(o.Tax),
		Total:           int64(o.Total),
		ShippingName:    o.ShippingName,
		ShippingAddress: o.ShippingAddress,
		ShippingCity:    o.ShippingCity,
		ShippingPhone:   o.ShippingPhone,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.CreatedAt,
	}
	for _, line := range o.Lines {
		out.Lines = append(out.Lines, orderLineJSON{
			ID:           line.ID,
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			ProductImage: line.ProductImage,
			Quantity:     line.Quantity,
			UnitPrice:    int64(line.UnitPrice),
			TotalPrice:   int64(line.TotalPrice),
		})
	}
	return out
}

func toOrderListJSON(orders []domain.Order) []orderJSON {
	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderJSON(o))
	}
	return out
}

type accountJSON struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Role     string `json:"role"`
}

func toAccountJSON(a *domain.Account) accountJSON {
	return accountJSON{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		FullName: a.FullName,
		Phone:    a.Phone,
		Address:  a.Address,
		Role:     string(a.Role),
	}
}

type wishlistItemJSON struct {
	ID      int64        `json:"id"`
	Product *productJSON `json:"product,omitempty"`
	AddedAt time.Time    `json:"added_at"`
}

func toWishlistJSON(items []domain.WishlistItem) []wishlistItemJSON {
	out := make([]wishlistItemJSON, 0, len(items))
	for _, item := range items {
		j := wishlistItemJSON{ID: item.ID, AddedAt: item.CreatedAt}
		if item.Product != nil {
			p := toProductJSON(*item.Product)
			j.Product = &p
		}
		out = append(out, j)
	}
	return out
}
