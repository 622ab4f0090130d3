// internal/pkg/money/money.go
package money

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
)

// Zero is the 2-decimal zero amount.
var Zero = decimal.Zero

// Parse parses a monetary or rate string into a decimal. Malformed input is a
// validation error, not an internal one.
func Parse(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperrors.Validation("%s: malformed decimal value %q", field, value)
	}
	return d, nil
}

// Round2 rounds to 2 decimal places, half away from zero. All stored amounts
// go through this so cent values stay exact.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ClampNonNegative floors a value at zero.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
