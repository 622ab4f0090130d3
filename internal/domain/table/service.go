// internal/domain/table/service.go
package table

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"github.com/your-org/restaurant-backend/internal/realtime"
	"gorm.io/gorm"
)

// Service handles table business logic: the floor-plan status state machine
// and batch synchronization of a store's table layout.
type Service struct {
	db     *gorm.DB
	config *config.Config
	rt     realtime.Broadcaster
	log    *logrus.Logger
}

// NewService creates a new table service
func NewService(db *gorm.DB, cfg *config.Config, rt realtime.Broadcaster, log *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		rt:     rt,
		log:    log,
	}
}

// StatusRequest represents a table status change
type StatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// TableSpec is one desired table in a batch sync
type TableSpec struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity"`
}

// SyncResult summarizes what a batch sync changed
type SyncResult struct {
	Created int     `json:"created"`
	Updated int     `json:"updated"`
	Removed int     `json:"removed"`
	Tables  []Table `json:"tables"`
}

// ListTables returns the store's tables ordered for floor-plan display
func (s *Service) ListTables(ctx context.Context, storeID uint) ([]Table, error) {
	var tables []Table
	err := s.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name ASC").
		Find(&tables).Error
	if err != nil {
		return nil, s.internal("list tables", err)
	}
	return tables, nil
}

// GetTable returns one table by id
func (s *Service) GetTable(ctx context.Context, tableID uint) (*Table, error) {
	var tbl Table
	err := s.db.WithContext(ctx).First(&tbl, tableID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("table %d not found", tableID)
	}
	if err != nil {
		return nil, s.internal("get table", err)
	}
	return &tbl, nil
}

// UpdateStatus moves a table through the state machine. A transition to the
// current status is accepted, persisted and still broadcast, so a stale
// floor-plan client resyncs itself.
func (s *Service) UpdateStatus(ctx context.Context, tableID uint, newStatus Status) (*Table, error) {
	var tbl Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tbl, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("table %d not found", tableID)
			}
			return err
		}
		if err := ValidateTransition(tbl.CurrentStatus, newStatus); err != nil {
			return err
		}
		tbl.CurrentStatus = newStatus
		return tx.Model(&Table{}).Where("id = ?", tbl.ID).Update("current_status", newStatus).Error
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, s.internal("update table status", err)
	}

	s.rt.Publish(ctx, realtime.StoreChannel(tbl.StoreID), realtime.EventTableStatusChanged, &tbl)
	return &tbl, nil
}

// SyncTables reconciles the store's table set against the desired layout in
// one atomic batch: missing tables are created, existing ones keep their
// status and get capacity updates, and tables absent from the desired set
// are removed. Removal is refused while the table still has an active
// session. The whole batch runs under the configured sync timeout.
func (s *Service) SyncTables(ctx context.Context, storeID uint, specs []TableSpec) (*SyncResult, error) {
	if len(specs) == 0 {
		return nil, apperrors.Validation("table sync requires at least one table")
	}
	desired := make(map[string]TableSpec, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, apperrors.Validation("table name must not be empty")
		}
		if _, dup := desired[spec.Name]; dup {
			return nil, apperrors.Validation("duplicate table name %q in sync request", spec.Name)
		}
		desired[spec.Name] = spec
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Store.TableSyncTimeout)
	defer cancel()

	var result SyncResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []Table
		if err := tx.Where("store_id = ?", storeID).Find(&existing).Error; err != nil {
			return err
		}

		byName := make(map[string]*Table, len(existing))
		for i := range existing {
			byName[existing[i].Name] = &existing[i]
		}

		for name, spec := range desired {
			current, ok := byName[name]
			if !ok {
				tbl := Table{
					StoreID:       storeID,
					Name:          name,
					Capacity:      spec.Capacity,
					CurrentStatus: StatusVacant,
				}
				if tbl.Capacity == 0 {
					tbl.Capacity = 4
				}
				if err := tx.Create(&tbl).Error; err != nil {
					return err
				}
				result.Created++
				continue
			}
			if spec.Capacity != 0 && spec.Capacity != current.Capacity {
				if err := tx.Model(&Table{}).Where("id = ?", current.ID).
					Update("capacity", spec.Capacity).Error; err != nil {
					return err
				}
				result.Updated++
			}
		}

		for _, current := range existing {
			if _, keep := desired[current.Name]; keep {
				continue
			}
			occupied, err := hasActiveSession(tx, current.ID)
			if err != nil {
				return err
			}
			if occupied {
				return apperrors.Conflict("table %q has an active session and cannot be removed", current.Name)
			}
			if err := tx.Delete(&Table{}, current.ID).Error; err != nil {
				return err
			}
			result.Removed++
		}

		return tx.Where("store_id = ?", storeID).Order("name ASC").Find(&result.Tables).Error
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, s.internal("sync tables", err)
	}

	s.rt.Publish(ctx, realtime.StoreChannel(storeID), realtime.EventTablesSynced, &result)
	return &result, nil
}

// hasActiveSession checks the sessions table by name; the session package
// depends on this one, so the check cannot go through it.
func hasActiveSession(tx *gorm.DB, tableID uint) (bool, error) {
	var count int64
	err := tx.Table("sessions").
		Where("table_id = ? AND status = ?", tableID, "ACTIVE").
		Count(&count).Error
	return count > 0, err
}

func (s *Service) internal(op string, err error) error {
	s.log.WithError(err).WithField("operation", op).Error("Table storage operation failed")
	return apperrors.Internal(err)
}
