package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
)

func testGroups() []menu.CustomizationGroup {
	price := func(s string) decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return d
	}
	return []menu.CustomizationGroup{
		{
			ID:            1,
			Name:          "Size",
			MinSelectable: 1,
			MaxSelectable: 1,
			Options: []menu.CustomizationOption{
				{ID: 10, GroupID: 1, Name: "Regular", Price: price("0.00"), IsAvailable: true},
				{ID: 11, GroupID: 1, Name: "Large", Price: price("3.50"), IsAvailable: true},
			},
		},
		{
			ID:            2,
			Name:          "Toppings",
			MinSelectable: 0,
			MaxSelectable: 2,
			Options: []menu.CustomizationOption{
				{ID: 20, GroupID: 2, Name: "Mushrooms", Price: price("1.00"), IsAvailable: true},
				{ID: 21, GroupID: 2, Name: "Olives", Price: price("1.00"), IsAvailable: true},
				{ID: 22, GroupID: 2, Name: "Truffle", Price: price("4.00"), IsAvailable: false},
				{ID: 23, GroupID: 2, Name: "Basil", Price: price("0.50"), IsAvailable: true},
			},
		},
	}
}

func TestResolveSelectionsHappyPath(t *testing.T) {
	options, err := ResolveSelections(testGroups(), []uint{11, 20, 21})
	if err != nil {
		t.Fatalf("ResolveSelections returned error: %v", err)
	}
	if len(options) != 3 {
		t.Fatalf("resolved %d options, want 3", len(options))
	}

	if options[0].OptionID != 11 || options[0].Name != "Large" {
		t.Errorf("first option = %+v, want Large", options[0])
	}
	want, _ := decimal.NewFromString("3.50")
	if !options[0].Price.Equal(want) {
		t.Errorf("option price = %s, want 3.50", options[0].Price)
	}
}

func TestResolveSelectionsRejections(t *testing.T) {
	cases := []struct {
		name     string
		selected []uint
	}{
		{"foreign option id", []uint{11, 99}},
		{"duplicate selection", []uint{11, 11}},
		{"unavailable option", []uint{11, 22}},
		{"below group minimum", []uint{20}},
		{"above group maximum", []uint{11, 20, 21, 23}},
	}

	for _, tc := range cases {
		_, err := ResolveSelections(testGroups(), tc.selected)
		if err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
			continue
		}
		if apperrors.KindOf(err) != apperrors.KindValidation {
			t.Errorf("%s: kind = %s, want validation", tc.name, apperrors.KindOf(err))
		}
	}
}

func TestResolveSelectionsRequiredGroup(t *testing.T) {
	// No selections at all: the Size group requires one.
	_, err := ResolveSelections(testGroups(), nil)
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("missing required selection kind = %s, want validation", apperrors.KindOf(err))
	}
}
