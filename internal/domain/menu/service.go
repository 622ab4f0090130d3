// internal/domain/menu/service.go
package menu

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"github.com/your-org/restaurant-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Service handles menu business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	log    *logrus.Logger
}

// NewService creates a new menu service
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		log:    log,
	}
}

// ItemRequest represents a menu item create or update
type ItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	ImageURL    string `json:"image_url"`
	IsAvailable *bool  `json:"is_available"`
	SortOrder   int    `json:"sort_order"`
}

// GetStore returns a store and its live pricing configuration
func (s *Service) GetStore(ctx context.Context, storeID uint) (*Store, error) {
	var store Store
	err := s.db.WithContext(ctx).First(&store, storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("store %d not found", storeID)
	}
	if err != nil {
		return nil, s.internal("get store", err)
	}
	return &store, nil
}

// ListMenu returns the guest-facing menu: available, non-archived items with
// their customization groups, in display order.
func (s *Service) ListMenu(ctx context.Context, storeID uint) ([]MenuItem, error) {
	var items []MenuItem
	err := s.db.WithContext(ctx).
		Preload("Groups", func(db *gorm.DB) *gorm.DB {
			return db.Order("customization_groups.sort_order ASC, customization_groups.id ASC")
		}).
		Preload("Groups.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("customization_options.sort_order ASC, customization_options.id ASC")
		}).
		Where("store_id = ? AND is_available = ? AND is_archived = ?", storeID, true, false).
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, s.internal("list menu", err)
	}
	return items, nil
}

// ListAllItems returns every non-archived item, including unavailable ones,
// for the staff admin view.
func (s *Service) ListAllItems(ctx context.Context, storeID uint) ([]MenuItem, error) {
	var items []MenuItem
	err := s.db.WithContext(ctx).
		Preload("Groups.Options").
		Where("store_id = ? AND is_archived = ?", storeID, false).
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, s.internal("list items", err)
	}
	return items, nil
}

// GetItem returns one menu item with its customization groups
func (s *Service) GetItem(ctx context.Context, itemID uint) (*MenuItem, error) {
	var item MenuItem
	err := s.db.WithContext(ctx).
		Preload("Groups.Options").
		First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("menu item %d not found", itemID)
	}
	if err != nil {
		return nil, s.internal("get menu item", err)
	}
	return &item, nil
}

// CreateItem adds a menu item to the store
func (s *Service) CreateItem(ctx context.Context, storeID uint, req *ItemRequest) (*MenuItem, error) {
	price, err := money.Parse("price", req.Price)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, apperrors.Validation("price must not be negative")
	}

	item := MenuItem{
		StoreID:     storeID,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
		SortOrder:   req.SortOrder,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, s.internal("create menu item", err)
	}
	return &item, nil
}

// UpdateItem edits a menu item. Carts and confirmed chunks keep their price
// snapshots; only new additions see the change.
func (s *Service) UpdateItem(ctx context.Context, itemID uint, req *ItemRequest) (*MenuItem, error) {
	price, err := money.Parse("price", req.Price)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, apperrors.Validation("price must not be negative")
	}

	var item MenuItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("menu item %d not found", itemID)
			}
			return err
		}
		if item.IsArchived {
			return apperrors.Conflict("menu item %q is archived", item.Name)
		}

		item.Name = req.Name
		item.Description = req.Description
		item.Price = price
		item.ImageURL = req.ImageURL
		item.SortOrder = req.SortOrder
		if req.IsAvailable != nil {
			item.IsAvailable = *req.IsAvailable
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, s.internal("update menu item", err)
	}
	return &item, nil
}

// ArchiveItem hides the item from all menus permanently. Existing cart and
// chunk rows are untouched.
func (s *Service) ArchiveItem(ctx context.Context, itemID uint) error {
	res := s.db.WithContext(ctx).Model(&MenuItem{}).
		Where("id = ? AND is_archived = ?", itemID, false).
		Update("is_archived", true)
	if res.Error != nil {
		return s.internal("archive menu item", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("menu item %d not found", itemID)
	}
	return nil
}

// SetItemAvailability flips the sold-out switch without editing the item
func (s *Service) SetItemAvailability(ctx context.Context, itemID uint, available bool) error {
	res := s.db.WithContext(ctx).Model(&MenuItem{}).
		Where("id = ? AND is_archived = ?", itemID, false).
		Update("is_available", available)
	if res.Error != nil {
		return s.internal("set item availability", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("menu item %d not found", itemID)
	}
	return nil
}

func (s *Service) internal(op string, err error) error {
	s.log.WithError(err).WithField("operation", op).Error("Menu storage operation failed")
	return apperrors.Internal(err)
}
