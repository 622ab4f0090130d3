// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"github.com/your-org/restaurant-backend/internal/pkg/money"
	"github.com/your-org/restaurant-backend/internal/realtime"
	"gorm.io/gorm"
)

// Service handles cart business logic. Every mutation follows the same
// shape inside one transaction: find-or-create the cart, validate, mutate,
// re-read the full nested cart. Readers therefore never observe a
// half-applied mutation, and the broadcast payload is always the complete
// post-mutation snapshot.
type Service struct {
	db     *gorm.DB
	config *config.Config
	rt     realtime.Broadcaster
	log    *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config, rt realtime.Broadcaster, log *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		rt:     rt,
		log:    log,
	}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	Notes      string `json:"notes"`
	OptionIDs  []uint `json:"option_ids"`
}

// UpdateItemRequest represents a cart item update; at least one field must
// be supplied.
type UpdateItemRequest struct {
	Quantity *int    `json:"quantity"`
	Notes    *string `json:"notes"`
}

// Totals summarizes a cart for display; authoritative pricing happens at
// order confirmation.
type Totals struct {
	ItemCount     int             `json:"item_count"`
	TotalQuantity int             `json:"total_quantity"`
	SubTotal      decimal.Decimal `json:"sub_total"`
}

// Snapshot is the full post-mutation cart view returned by every operation
type Snapshot struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	Totals    Totals     `json:"totals"`
}

// GetCart retrieves the session's cart, creating an empty one if it does not
// exist yet.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.findOrCreate(tx, sessionID)
		if err != nil {
			return err
		}
		snap, err = s.reread(tx, c.ID, sessionID)
		return err
	})
	if err != nil {
		return nil, s.classify("get cart", err)
	}
	return snap, nil
}

// AddItem validates and adds a menu item with its selected options, then
// returns the full cart.
func (s *Service) AddItem(ctx context.Context, sessionID string, req *AddItemRequest) (*Snapshot, error) {
	if req.Quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1, got %d", req.Quantity)
	}

	var snap *Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.findOrCreate(tx, sessionID)
		if err != nil {
			return err
		}

		var item menu.MenuItem
		err = tx.Preload("Groups.Options").First(&item, req.MenuItemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("menu item %d not found", req.MenuItemID)
		}
		if err != nil {
			return err
		}
		if !item.IsOrderable() {
			return apperrors.Validation("menu item %q is not available", item.Name)
		}

		options, err := ResolveSelections(item.Groups, req.OptionIDs)
		if err != nil {
			return err
		}

		cartItem := CartItem{
			CartID:     c.ID,
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   req.Quantity,
			Notes:      req.Notes,
			UnitPrice:  item.Price,
			Options:    options,
		}
		if err := tx.Create(&cartItem).Error; err != nil {
			return err
		}

		snap, err = s.reread(tx, c.ID, sessionID)
		return err
	})
	if err != nil {
		return nil, s.classify("add cart item", err)
	}

	s.broadcast(ctx, sessionID, snap)
	return snap, nil
}

// UpdateItem changes quantity and/or notes of one cart item
func (s *Service) UpdateItem(ctx context.Context, sessionID string, itemID uint, req *UpdateItemRequest) (*Snapshot, error) {
	if req.Quantity == nil && req.Notes == nil {
		return nil, apperrors.Validation("update requires at least one of quantity or notes")
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1, got %d", *req.Quantity)
	}

	var snap *Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.findOrCreate(tx, sessionID)
		if err != nil {
			return err
		}

		var item CartItem
		err = tx.Where("id = ? AND cart_id = ?", itemID, c.ID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("cart item %d not found", itemID)
		}
		if err != nil {
			return err
		}

		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Notes != nil {
			item.Notes = *req.Notes
		}
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		snap, err = s.reread(tx, c.ID, sessionID)
		return err
	})
	if err != nil {
		return nil, s.classify("update cart item", err)
	}

	s.broadcast(ctx, sessionID, snap)
	return snap, nil
}

// RemoveItem deletes one cart item. Removing an item already gone (e.g.
// another device won the race) reports not-found so the race stays
// observable.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, itemID uint) (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.findOrCreate(tx, sessionID)
		if err != nil {
			return err
		}

		if err := tx.Where("cart_item_id = ?", itemID).Delete(&CartItemOption{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND cart_id = ?", itemID, c.ID).Delete(&CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("cart item %d not found", itemID)
		}

		snap, err = s.reread(tx, c.ID, sessionID)
		return err
	})
	if err != nil {
		return nil, s.classify("remove cart item", err)
	}

	s.broadcast(ctx, sessionID, snap)
	return snap, nil
}

// Clear removes all items from the session's cart
func (s *Service) Clear(ctx context.Context, sessionID string) (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.findOrCreate(tx, sessionID)
		if err != nil {
			return err
		}

		if err := tx.Where("cart_item_id IN (?)",
			tx.Model(&CartItem{}).Select("id").Where("cart_id = ?", c.ID),
		).Delete(&CartItemOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
			return err
		}

		snap, err = s.reread(tx, c.ID, sessionID)
		return err
	})
	if err != nil {
		return nil, s.classify("clear cart", err)
	}

	s.broadcast(ctx, sessionID, snap)
	return snap, nil
}

// findOrCreate loads the session's cart, creating it lazily. The session
// must exist and still be active. The session row is read by table name so
// the session package can depend on this one for cart lifecycle without a
// cycle.
func (s *Service) findOrCreate(tx *gorm.DB, sessionID string) (*Cart, error) {
	var sess struct {
		ID     string
		Status string
	}
	err := tx.Table("sessions").Select("id, status").Where("id = ?", sessionID).Take(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("session %s not found", sessionID)
	}
	if err != nil {
		return nil, err
	}
	if sess.Status != "ACTIVE" {
		return nil, apperrors.Conflict("session %s is closed", sessionID)
	}

	var c Cart
	err = tx.Where("session_id = ?", sessionID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = Cart{SessionID: sessionID}
		err = tx.Create(&c).Error
		// Two devices can race to recreate the cart right after a
		// confirmation deleted it; the loser joins the winner's cart.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = tx.Where("session_id = ?", sessionID).First(&c).Error
		}
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// reread loads the full nested cart state inside the mutation's transaction
func (s *Service) reread(tx *gorm.DB, cartID uint, sessionID string) (*Snapshot, error) {
	var items []CartItem
	err := tx.Preload("Options").
		Where("cart_id = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	totals := Totals{ItemCount: len(items), SubTotal: decimal.Zero}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal = totals.SubTotal.Add(item.LineTotal())
	}
	totals.SubTotal = money.Round2(totals.SubTotal)

	return &Snapshot{
		SessionID: sessionID,
		Items:     items,
		Totals:    totals,
	}, nil
}

func (s *Service) broadcast(ctx context.Context, sessionID string, snap *Snapshot) {
	s.rt.Publish(ctx, realtime.SessionChannel(sessionID), realtime.EventCartUpdated, snap)
}

// classify keeps domain errors as-is and wraps everything else as internal,
// logged with context.
func (s *Service) classify(op string, err error) error {
	if apperrors.KindOf(err) != apperrors.KindInternal {
		return err
	}
	s.log.WithError(err).WithField("operation", op).Error("Cart storage operation failed")
	return apperrors.Internal(err)
}

// DeleteForSession removes the session's cart and all nested rows inside the
// caller's transaction. Used by order confirmation and session close.
func DeleteForSession(tx *gorm.DB, sessionID string) error {
	var c Cart
	err := tx.Where("session_id = ?", sessionID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := tx.Where("cart_item_id IN (?)",
		tx.Model(&CartItem{}).Select("id").Where("cart_id = ?", c.ID),
	).Delete(&CartItemOption{}).Error; err != nil {
		return err
	}
	if err := tx.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&c).Error
}
