// internal/domain/menu/entity.go
package menu

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store represents one restaurant location. Its tax and service-charge rates
// are the live configuration; orders snapshot them at confirmation time.
type Store struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"not null;size:255" json:"name"`
	TaxRate           decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"tax_rate"`
	ServiceChargeRate decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"service_charge_rate"`
	Currency          string          `gorm:"size:3;default:'USD'" json:"currency"`
	IsActive          bool            `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// MenuItem represents a dish or drink customers can order
type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	StoreID     uint            `gorm:"not null;index" json:"store_id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string          `gorm:"size:500" json:"image_url"`
	IsAvailable bool            `gorm:"default:true" json:"is_available"`
	IsArchived  bool            `gorm:"default:false" json:"is_archived"`
	SortOrder   int             `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Groups []CustomizationGroup `gorm:"foreignKey:MenuItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"groups,omitempty"`
}

// CustomizationGroup bounds how many options a guest may pick (e.g. "Size"
// with min 1 max 1, "Toppings" with min 0 max 3).
type CustomizationGroup struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MenuItemID    uint      `gorm:"not null;index" json:"menu_item_id"`
	Name          string    `gorm:"not null;size:255" json:"name"`
	MinSelectable int       `gorm:"not null;default:0" json:"min_selectable"`
	MaxSelectable int       `gorm:"not null;default:1" json:"max_selectable"`
	SortOrder     int       `gorm:"default:0" json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Options []CustomizationOption `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"options,omitempty"`
}

// CustomizationOption is one selectable choice carrying an additional price
type CustomizationOption struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	GroupID     uint            `gorm:"not null;index" json:"group_id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	IsAvailable bool            `gorm:"default:true" json:"is_available"`
	SortOrder   int             `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName overrides
func (Store) TableName() string               { return "stores" }
func (MenuItem) TableName() string            { return "menu_items" }
func (CustomizationGroup) TableName() string  { return "customization_groups" }
func (CustomizationOption) TableName() string { return "customization_options" }

// IsOrderable reports whether the item can currently be added to a cart
func (m *MenuItem) IsOrderable() bool {
	return m.IsAvailable && !m.IsArchived
}
