package table

import (
	"testing"

	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusVacant, StatusSeated, true},
		{StatusVacant, StatusCleaning, true},
		{StatusVacant, StatusServed, false},
		{StatusSeated, StatusOrdering, true},
		{StatusOrdering, StatusServed, true},
		{StatusServed, StatusReadyToPay, true},
		{StatusServed, StatusOrdering, true},
		{StatusReadyToPay, StatusCleaning, true},
		{StatusReadyToPay, StatusSeated, false},
		{StatusCleaning, StatusVacant, true},
		{StatusCleaning, StatusSeated, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestSelfTransitionAlwaysAllowed(t *testing.T) {
	for _, s := range []Status{StatusVacant, StatusSeated, StatusOrdering, StatusServed, StatusReadyToPay, StatusCleaning} {
		if !CanTransition(s, s) {
			t.Errorf("CanTransition(%s, %s) = false, want true", s, s)
		}
	}
}

func TestValidateTransitionErrors(t *testing.T) {
	if err := ValidateTransition(StatusVacant, StatusSeated); err != nil {
		t.Errorf("legal transition returned error: %v", err)
	}

	err := ValidateTransition(StatusReadyToPay, StatusSeated)
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("illegal transition kind = %s, want conflict", apperrors.KindOf(err))
	}

	err = ValidateTransition(StatusVacant, Status("FLOATING"))
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("unknown status kind = %s, want validation", apperrors.KindOf(err))
	}
}
