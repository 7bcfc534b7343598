package service

import "github.com/jutta-lagani/storefront/internal/core/domain"

// Pricing computes checkout totals. Everything here is a pure function of
// the resolved cart; amounts are integers in the smallest currency unit and
// the tax rate is in basis points, so no rounding beyond integer truncation
// ever happens.
type Pricing struct {
	FreeShippingThreshold domain.Money
	FlatShippingFee       domain.Money
	TaxRateBasisPoints    int64
}

// Quote is the full financial breakdown shown at checkout and frozen into
// the order header.
type Quote struct {
	Subtotal domain.Money
	Shipping domain.Money
	Tax      domain.Money
	Total    domain.Money
}

// CartTotals is the breakdown shown on the cart page. Tax applies at
// checkout only, so it is absent here.
type CartTotals struct {
	Subtotal domain.Money
	Shipping domain.Money
	Total    domain.Money
}

func (p Pricing) Subtotal(lines []domain.ResolvedLine) domain.Money {
	var sum domain.Money
	for _, line := range lines {
		sum += line.LineTotal
	}
	return sum
}

func (p Pricing) Shipping(subtotal domain.Money) domain.Money {
	if subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.FlatShippingFee
}

func (p Pricing) Tax(subtotal domain.Money) domain.Money {
	return domain.Money(int64(subtotal) * p.TaxRateBasisPoints / 10000)
}

func (p Pricing) Quote(lines []domain.ResolvedLine) Quote {
	subtotal := p.Subtotal(lines)
	shipping := p.Shipping(subtotal)
	tax := p.Tax(subtotal)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}

func (p Pricing) CartView(lines []domain.ResolvedLine) CartTotals {
	subtotal := p.Subtotal(lines)
	shipping := p.Shipping(subtotal)
	return CartTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}
