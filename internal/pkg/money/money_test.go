package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
)

func TestParse(t *testing.T) {
	d, err := Parse("price", "12.50")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !d.Equal(decimal.NewFromFloat(12.50)) {
		t.Errorf("parsed %s, want 12.50", d)
	}

	_, err = Parse("price", "twelve")
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("malformed input kind = %s, want validation", apperrors.KindOf(err))
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0.707", "0.71"},
		{"1.398", "1.40"},
		{"2.345", "2.35"},
		{"-2.345", "-2.35"},
		{"5", "5"},
	}
	for _, tc := range cases {
		in, _ := decimal.NewFromString(tc.in)
		want, _ := decimal.NewFromString(tc.want)
		if got := Round2(in); !got.Equal(want) {
			t.Errorf("Round2(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestClampNonNegative(t *testing.T) {
	neg, _ := decimal.NewFromString("-3.50")
	if !ClampNonNegative(neg).IsZero() {
		t.Error("negative values should clamp to zero")
	}

	pos, _ := decimal.NewFromString("3.50")
	if !ClampNonNegative(pos).Equal(pos) {
		t.Error("positive values should pass through")
	}
}
