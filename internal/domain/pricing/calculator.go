// internal/domain/pricing/calculator.go
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"github.com/your-org/restaurant-backend/internal/pkg/money"
)

// DiscountType represents how a discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED_AMOUNT"
)

// LineItem is one confirmed order item as seen by the calculator: the price
// snapshots taken at confirmation time, never live menu prices.
type LineItem struct {
	BasePrice    decimal.Decimal
	OptionPrices []decimal.Decimal
	Quantity     int
	Cancelled    bool
}

// Discount describes an order-level discount.
type Discount struct {
	Type  DiscountType
	Value decimal.Decimal
}

// Breakdown is the full monetary result of one recomputation.
type Breakdown struct {
	SubTotal            decimal.Decimal
	DiscountAmount      decimal.Decimal
	TaxAmount           decimal.Decimal
	ServiceChargeAmount decimal.Decimal
	GrandTotal          decimal.Decimal
}

// Calculate recomputes an order's totals from scratch. Discounts reduce the
// subtotal first; tax and service charge are derived from the discounted
// base. The grand total is clamped at zero, never rejected.
func Calculate(items []LineItem, taxRate, serviceRate decimal.Decimal, d *Discount) (Breakdown, error) {
	subTotal := decimal.Zero
	for _, item := range items {
		if item.Cancelled {
			continue
		}
		unit := item.BasePrice
		for _, opt := range item.OptionPrices {
			unit = unit.Add(opt)
		}
		itemTotal := money.Round2(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
		subTotal = subTotal.Add(itemTotal)
	}
	subTotal = money.Round2(subTotal)

	discountAmount := decimal.Zero
	if d != nil {
		var err error
		discountAmount, err = discountOf(subTotal, d)
		if err != nil {
			return Breakdown{}, err
		}
	}

	base := money.ClampNonNegative(subTotal.Sub(discountAmount))
	taxAmount := money.Round2(base.Mul(taxRate))
	serviceAmount := money.Round2(base.Mul(serviceRate))
	grandTotal := money.ClampNonNegative(base.Add(taxAmount).Add(serviceAmount))

	return Breakdown{
		SubTotal:            subTotal,
		DiscountAmount:      discountAmount,
		TaxAmount:           taxAmount,
		ServiceChargeAmount: serviceAmount,
		GrandTotal:          money.Round2(grandTotal),
	}, nil
}

func discountOf(subTotal decimal.Decimal, d *Discount) (decimal.Decimal, error) {
	switch d.Type {
	case DiscountPercentage:
		if !d.Value.IsPositive() || d.Value.GreaterThan(decimal.NewFromInt(100)) {
			return decimal.Zero, apperrors.Validation("discount percentage must be above 0 and at most 100, got %s", d.Value)
		}
		return money.Round2(subTotal.Mul(d.Value).Div(decimal.NewFromInt(100))), nil
	case DiscountFixed:
		if !d.Value.IsPositive() {
			return decimal.Zero, apperrors.Validation("fixed discount must be above 0, got %s", d.Value)
		}
		// Floor at the subtotal so the discounted base never goes below zero.
		if d.Value.GreaterThan(subTotal) {
			return subTotal, nil
		}
		return money.Round2(d.Value), nil
	default:
		return decimal.Zero, apperrors.Validation("unknown discount type %q", d.Type)
	}
}

// ImpliedPercent returns the percentage a discount takes off the given
// subtotal. Used to gate fixed-amount discounts with the same tier rules as
// percentage ones.
func ImpliedPercent(subTotal decimal.Decimal, d *Discount) decimal.Decimal {
	if d.Type == DiscountPercentage {
		return d.Value
	}
	if subTotal.IsZero() {
		return decimal.NewFromInt(100)
	}
	return d.Value.Div(subTotal).Mul(decimal.NewFromInt(100))
}
