// internal/domain/table/state_machine.go
package table

import (
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
)

// allowedTransitions lists the legal target statuses for each status.
// Self-transitions are always permitted as a no-op and are not listed.
var allowedTransitions = map[Status][]Status{
	StatusVacant:     {StatusSeated, StatusCleaning},
	StatusSeated:     {StatusOrdering, StatusVacant, StatusCleaning},
	StatusOrdering:   {StatusServed, StatusVacant, StatusCleaning},
	StatusServed:     {StatusReadyToPay, StatusOrdering, StatusVacant, StatusCleaning},
	StatusReadyToPay: {StatusCleaning, StatusVacant, StatusOrdering},
	StatusCleaning:   {StatusVacant},
}

// CanTransition reports whether from -> to is a legal transition.
// A transition to the current status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a conflict error for illegal transitions and a
// validation error for unknown statuses.
func ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return apperrors.Validation("unknown table status %q", to)
	}
	if !CanTransition(from, to) {
		return apperrors.Conflict("table status cannot change from %s to %s", from, to)
	}
	return nil
}
