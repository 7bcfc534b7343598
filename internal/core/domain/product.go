package domain

import "time"

type Category string

const (
	CategoryShoes    Category = "shoes"
	CategoryClothing Category = "clothing"
)

func (c Category) Valid() bool {
	return c == CategoryShoes || c == CategoryClothing
}

// DefaultImage is the image reference used when a product has none;
// categories fall back to their own placeholder.
func (c Category) DefaultImage() string {
	switch c {
	case CategoryShoes:
		return "default-shoes.jpg"
	case CategoryClothing:
		return "default-clothing.jpg"
	}
	return "default-product.jpg"
}

type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         Money
	OriginalPrice Money // 0 when there is no discount to show
	Category      Category
	Subcategory   string
	Brand         string
	Color         string
	Size          string
	Material      string
	Stock         int
	IsAvailable   bool
	Image         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DiscountPercent is the rounded-down discount against the original price,
// 0 when no discount applies.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice > p.Price && p.OriginalPrice > 0 {
		return int((p.OriginalPrice - p.Price) * 100 / p.OriginalPrice)
	}
	return 0
}
