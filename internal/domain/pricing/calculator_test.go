package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCalculateSingleItem(t *testing.T) {
	items := []LineItem{
		{BasePrice: d("10.10"), Quantity: 1},
	}

	b, err := Calculate(items, d("0.07"), d("0"), nil)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	if !b.SubTotal.Equal(d("10.10")) {
		t.Errorf("sub total = %s, want 10.10", b.SubTotal)
	}
	if !b.TaxAmount.Equal(d("0.71")) {
		t.Errorf("tax = %s, want 0.71", b.TaxAmount)
	}
	if !b.GrandTotal.Equal(d("10.81")) {
		t.Errorf("grand total = %s, want 10.81", b.GrandTotal)
	}
}

func TestCalculateDiscountBeforeTax(t *testing.T) {
	// Two of an item at 5.99 with a 1.00 option: subtotal 13.98.
	items := []LineItem{
		{BasePrice: d("5.99"), OptionPrices: []decimal.Decimal{d("1.00")}, Quantity: 2},
	}
	discount := &Discount{Type: DiscountPercentage, Value: d("10")}

	b, err := Calculate(items, d("0.07"), d("0.10"), discount)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	if !b.SubTotal.Equal(d("13.98")) {
		t.Errorf("sub total = %s, want 13.98", b.SubTotal)
	}
	if !b.DiscountAmount.Equal(d("1.40")) {
		t.Errorf("discount = %s, want 1.40", b.DiscountAmount)
	}
	// Tax and service derive from the discounted base 12.58.
	if !b.TaxAmount.Equal(d("0.88")) {
		t.Errorf("tax = %s, want 0.88", b.TaxAmount)
	}
	if !b.ServiceChargeAmount.Equal(d("1.26")) {
		t.Errorf("service charge = %s, want 1.26", b.ServiceChargeAmount)
	}
	if !b.GrandTotal.Equal(d("14.72")) {
		t.Errorf("grand total = %s, want 14.72", b.GrandTotal)
	}
}

func TestCalculateSkipsCancelledItems(t *testing.T) {
	items := []LineItem{
		{BasePrice: d("12.50"), Quantity: 1},
		{BasePrice: d("99.00"), Quantity: 3, Cancelled: true},
	}

	b, err := Calculate(items, d("0"), d("0"), nil)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if !b.SubTotal.Equal(d("12.50")) {
		t.Errorf("sub total = %s, want 12.50", b.SubTotal)
	}
}

func TestCalculateFixedDiscountFloorsAtSubtotal(t *testing.T) {
	items := []LineItem{
		{BasePrice: d("8.00"), Quantity: 1},
	}
	discount := &Discount{Type: DiscountFixed, Value: d("20.00")}

	b, err := Calculate(items, d("0.07"), d("0.10"), discount)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	if !b.DiscountAmount.Equal(d("8.00")) {
		t.Errorf("discount = %s, want 8.00", b.DiscountAmount)
	}
	if !b.GrandTotal.IsZero() {
		t.Errorf("grand total = %s, want 0", b.GrandTotal)
	}
}

func TestCalculateRejectsBadDiscounts(t *testing.T) {
	items := []LineItem{{BasePrice: d("10.00"), Quantity: 1}}

	cases := []struct {
		name     string
		discount *Discount
	}{
		{"percentage over 100", &Discount{Type: DiscountPercentage, Value: d("101")}},
		{"zero percentage", &Discount{Type: DiscountPercentage, Value: d("0")}},
		{"negative percentage", &Discount{Type: DiscountPercentage, Value: d("-5")}},
		{"zero fixed", &Discount{Type: DiscountFixed, Value: d("0")}},
		{"negative fixed", &Discount{Type: DiscountFixed, Value: d("-1")}},
		{"unknown type", &Discount{Type: "BOGOF", Value: d("1")}},
	}

	for _, tc := range cases {
		_, err := Calculate(items, d("0"), d("0"), tc.discount)
		if err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
			continue
		}
		if apperrors.KindOf(err) != apperrors.KindValidation {
			t.Errorf("%s: kind = %s, want validation", tc.name, apperrors.KindOf(err))
		}
	}
}

func TestCalculateEmptyOrder(t *testing.T) {
	b, err := Calculate(nil, d("0.07"), d("0.10"), nil)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if !b.GrandTotal.IsZero() {
		t.Errorf("grand total = %s, want 0", b.GrandTotal)
	}
}

func TestImpliedPercent(t *testing.T) {
	cases := []struct {
		name     string
		subTotal decimal.Decimal
		discount Discount
		want     decimal.Decimal
	}{
		{"percentage passthrough", d("200"), Discount{Type: DiscountPercentage, Value: d("25")}, d("25")},
		{"fixed on subtotal", d("50.00"), Discount{Type: DiscountFixed, Value: d("5.00")}, d("10")},
		{"fixed on zero subtotal", d("0"), Discount{Type: DiscountFixed, Value: d("5.00")}, d("100")},
	}

	for _, tc := range cases {
		got := ImpliedPercent(tc.subTotal, &tc.discount)
		if !got.Equal(tc.want) {
			t.Errorf("%s: implied percent = %s, want %s", tc.name, got, tc.want)
		}
	}
}
