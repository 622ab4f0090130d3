// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/domain/pricing"
	"github.com/your-org/restaurant-backend/internal/domain/staff"
)

// Status represents the order status
type Status string

const (
	StatusOpen Status = "OPEN"
	StatusPaid Status = "PAID"
)

// ChunkStatus drives the kitchen display workflow for one confirmed batch
type ChunkStatus string

const (
	ChunkPending    ChunkStatus = "PENDING"
	ChunkInProgress ChunkStatus = "IN_PROGRESS"
	ChunkCompleted  ChunkStatus = "COMPLETED"
)

// Valid reports whether s is one of the known chunk statuses
func (s ChunkStatus) Valid() bool {
	return s == ChunkPending || s == ChunkInProgress || s == ChunkCompleted
}

// Order is the monetary aggregate for a session. TaxRate and
// ServiceChargeRate are snapshots of the store configuration at first
// confirmation, so later store edits never alter historical totals. Totals
// are always recomputed from scratch over all chunks, never adjusted
// incrementally.
type Order struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SessionID string `gorm:"type:uuid;uniqueIndex;not null" json:"session_id"`
	StoreID   uint   `gorm:"not null;index" json:"store_id"`
	Status    Status `gorm:"not null;default:'OPEN'" json:"status"`

	SubTotal            decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"sub_total"`
	TaxRate             decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"tax_rate"`
	ServiceChargeRate   decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"service_charge_rate"`
	TaxAmount           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tax_amount"`
	ServiceChargeAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"service_charge_amount"`
	DiscountAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	GrandTotal          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"grand_total"`

	DiscountType   *pricing.DiscountType `gorm:"size:20" json:"discount_type,omitempty"`
	DiscountValue  *decimal.Decimal      `gorm:"type:decimal(10,2)" json:"discount_value,omitempty"`
	DiscountReason string                `gorm:"size:255" json:"discount_reason,omitempty"`
	DiscountTier   *staff.RoleTier       `json:"discount_tier,omitempty"`

	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relationships
	Chunks []Chunk `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"chunks"`
}

// Chunk is an immutable batch of items confirmed from a cart at one point in
// time. Items never change after creation; only the status mutates.
type Chunk struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    ChunkStatus `gorm:"not null;default:'PENDING'" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	// Relationships
	Items []ChunkItem `gorm:"foreignKey:ChunkID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// ChunkItem is a permanent line item with price snapshots copied from the
// cart at confirmation time.
type ChunkItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ChunkID    uint            `gorm:"not null;index" json:"chunk_id"`
	MenuItemID uint            `gorm:"not null;index" json:"menu_item_id"`
	Name       string          `gorm:"not null;size:255" json:"name"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Notes      string          `gorm:"type:text" json:"notes"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Cancelled  bool            `gorm:"default:false" json:"cancelled"`
	CreatedAt  time.Time       `json:"created_at"`

	// Relationships
	Options []ChunkItemOption `gorm:"foreignKey:ChunkItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"options"`
}

// ChunkItemOption is a confirmed customization option with its price snapshot
type ChunkItemOption struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ChunkItemID uint            `gorm:"not null;index" json:"chunk_item_id"`
	OptionID    uint            `gorm:"not null" json:"option_id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string           { return "orders" }
func (Chunk) TableName() string           { return "order_chunks" }
func (ChunkItem) TableName() string       { return "order_chunk_items" }
func (ChunkItemOption) TableName() string { return "order_chunk_item_options" }

// Discount returns the order's discount descriptor for the calculator, or
// nil when none is applied.
func (o *Order) Discount() *pricing.Discount {
	if o.DiscountType == nil || o.DiscountValue == nil {
		return nil
	}
	return &pricing.Discount{Type: *o.DiscountType, Value: *o.DiscountValue}
}

// LineItems flattens all chunk items into calculator inputs
func (o *Order) LineItems() []pricing.LineItem {
	var items []pricing.LineItem
	for _, chunk := range o.Chunks {
		for _, it := range chunk.Items {
			li := pricing.LineItem{
				BasePrice: it.UnitPrice,
				Quantity:  it.Quantity,
				Cancelled: it.Cancelled,
			}
			for _, opt := range it.Options {
				li.OptionPrices = append(li.OptionPrices, opt.Price)
			}
			items = append(items, li)
		}
	}
	return items
}
