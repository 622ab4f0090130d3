// internal/domain/session/entity.go
package session

import (
	"time"
)

// Status represents the session status
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// Session represents one continuous occupation of a table. At most one
// ACTIVE session may exist per table; the storage layer enforces this with a
// partial unique index on (table_id) WHERE status = 'ACTIVE', so concurrent
// open attempts race at the constraint, not in application code.
type Session struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	TableID    *uint      `gorm:"index" json:"table_id"`
	StoreID    uint       `gorm:"not null;index" json:"store_id"`
	GuestCount int        `gorm:"not null;default:1" json:"guest_count"`
	Status     Status     `gorm:"not null;default:'ACTIVE'" json:"status"`
	OpenedAt   time.Time  `json:"opened_at"`
	ClosedAt   *time.Time `json:"closed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName overrides the table name
func (Session) TableName() string {
	return "sessions"
}

// IsActive reports whether the session still accepts mutations
func (s *Session) IsActive() bool {
	return s.Status == StatusActive
}
