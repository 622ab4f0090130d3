package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/domain/staff"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
)

func pct(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRequiredTierFor(t *testing.T) {
	cases := []struct {
		percent string
		want    staff.RoleTier
	}{
		{"0", staff.TierServer},
		{"5", staff.TierServer},
		{"9.99", staff.TierServer},
		{"10", staff.TierManager},
		{"25", staff.TierManager},
		{"50", staff.TierManager},
		{"50.01", staff.TierOwner},
		{"100", staff.TierOwner},
	}

	for _, tc := range cases {
		if got := RequiredTierFor(pct(tc.percent)); got != tc.want {
			t.Errorf("RequiredTierFor(%s) = %s, want %s", tc.percent, got, tc.want)
		}
	}
}

func TestValidateChunkTransition(t *testing.T) {
	cases := []struct {
		name string
		from ChunkStatus
		to   ChunkStatus
		kind apperrors.Kind
		ok   bool
	}{
		{"pending to in progress", ChunkPending, ChunkInProgress, 0, true},
		{"pending straight to completed", ChunkPending, ChunkCompleted, 0, true},
		{"in progress to completed", ChunkInProgress, ChunkCompleted, 0, true},
		{"same status is a no-op", ChunkInProgress, ChunkInProgress, 0, true},
		{"completed is terminal", ChunkCompleted, ChunkInProgress, apperrors.KindConflict, false},
		{"no moving backwards", ChunkInProgress, ChunkPending, apperrors.KindConflict, false},
		{"unknown status", ChunkPending, ChunkStatus("BURNED"), apperrors.KindValidation, false},
	}

	for _, tc := range cases {
		err := ValidateChunkTransition(tc.from, tc.to)
		if tc.ok {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tc.name, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
			continue
		}
		if apperrors.KindOf(err) != tc.kind {
			t.Errorf("%s: kind = %s, want %s", tc.name, apperrors.KindOf(err), tc.kind)
		}
	}
}

func TestCompletedSameStatusIsNoOp(t *testing.T) {
	if err := ValidateChunkTransition(ChunkCompleted, ChunkCompleted); err != nil {
		t.Errorf("completed -> completed should be a no-op, got %v", err)
	}
}
