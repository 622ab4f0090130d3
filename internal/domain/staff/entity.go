// internal/domain/staff/entity.go
package staff

import (
	"time"

	"gorm.io/gorm"
)

// RoleTier orders staff roles by authority. Discount authorization scales
// with the tier: servers approve small discounts, managers medium, owners
// large.
type RoleTier int

const (
	TierServer  RoleTier = 1
	TierManager RoleTier = 2
	TierOwner   RoleTier = 3
)

func (t RoleTier) String() string {
	switch t {
	case TierServer:
		return "server"
	case TierManager:
		return "manager"
	case TierOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Valid reports whether the tier is one of the known values
func (t RoleTier) Valid() bool {
	return t == TierServer || t == TierManager || t == TierOwner
}

// AtLeast reports whether this tier meets the given minimum
func (t RoleTier) AtLeast(min RoleTier) bool {
	return t >= min
}

// Staff represents an employee of a store
type Staff struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StoreID   uint           `gorm:"not null;index" json:"store_id"`
	Email     string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password  string         `gorm:"not null;size:255" json:"-"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	RoleTier  RoleTier       `gorm:"not null;default:1" json:"role_tier"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Staff) TableName() string {
	return "staff"
}
