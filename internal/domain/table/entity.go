// internal/domain/table/entity.go
package table

import (
	"time"
)

// Status represents the table lifecycle status
type Status string

const (
	StatusVacant     Status = "VACANT"
	StatusSeated     Status = "SEATED"
	StatusOrdering   Status = "ORDERING"
	StatusServed     Status = "SERVED"
	StatusReadyToPay Status = "READY_TO_PAY"
	StatusCleaning   Status = "CLEANING"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusVacant, StatusSeated, StatusOrdering, StatusServed, StatusReadyToPay, StatusCleaning:
		return true
	}
	return false
}

// Table represents a physical table in a store. Created at store setup,
// mutated only through the state machine, never deleted while an active
// session references it.
type Table struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StoreID       uint      `gorm:"not null;index:idx_tables_store_name,unique" json:"store_id"`
	Name          string    `gorm:"not null;size:100;index:idx_tables_store_name,unique" json:"name"`
	Capacity      int       `gorm:"default:4" json:"capacity"`
	CurrentStatus Status    `gorm:"not null;default:'VACANT'" json:"current_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Table) TableName() string {
	return "tables"
}
