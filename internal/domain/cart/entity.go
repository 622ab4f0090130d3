// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the mutable scratch collection of pending items for a session.
// Created lazily on first access, hard-deleted once confirmed into an order.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"type:uuid;uniqueIndex;not null" json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// CartItem is one pending line in a cart. UnitPrice is the menu price
// snapshot taken when the item was added.
type CartItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CartID     uint            `gorm:"not null;index" json:"cart_id"`
	MenuItemID uint            `gorm:"not null;index" json:"menu_item_id"`
	Name       string          `gorm:"not null;size:255" json:"name"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	Notes      string          `gorm:"type:text" json:"notes"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relationships
	Options []CartItemOption `gorm:"foreignKey:CartItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"options"`
}

// CartItemOption is a selected customization option with its price snapshot
type CartItemOption struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CartItemID uint            `gorm:"not null;index" json:"cart_item_id"`
	OptionID   uint            `gorm:"not null;index" json:"option_id"`
	GroupID    uint            `gorm:"not null" json:"group_id"`
	Name       string          `gorm:"not null;size:255" json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName overrides
func (Cart) TableName() string           { return "carts" }
func (CartItem) TableName() string       { return "cart_items" }
func (CartItemOption) TableName() string { return "cart_item_options" }

// LineTotal returns (unit price + option prices) x quantity for one item
func (i *CartItem) LineTotal() decimal.Decimal {
	unit := i.UnitPrice
	for _, opt := range i.Options {
		unit = unit.Add(opt.Price)
	}
	return unit.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}
