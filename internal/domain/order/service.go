// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/cart"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/domain/pricing"
	"github.com/your-org/restaurant-backend/internal/domain/session"
	"github.com/your-org/restaurant-backend/internal/domain/staff"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"github.com/your-org/restaurant-backend/internal/pkg/money"
	"github.com/your-org/restaurant-backend/internal/realtime"
	"gorm.io/gorm"
)

// Service handles order business logic: confirming carts into immutable
// chunks, kitchen chunk status, discounts and settlement. Totals are always
// recomputed from scratch over every chunk of the order.
type Service struct {
	db     *gorm.DB
	config *config.Config
	rt     realtime.Broadcaster
	log    *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, rt realtime.Broadcaster, log *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		rt:     rt,
		log:    log,
	}
}

// DiscountRequest represents a discount application
type DiscountRequest struct {
	Type   pricing.DiscountType `json:"type" binding:"required"`
	Value  string               `json:"value" binding:"required"`
	Reason string               `json:"reason"`
}

// RequiredTierFor returns the staff tier needed to authorize a discount of
// the given percentage magnitude: below 10% the lowest tier, 10 through 50
// inclusive the middle tier, above 50% the highest. These boundaries are a
// contract; see the tests.
func RequiredTierFor(percent decimal.Decimal) staff.RoleTier {
	switch {
	case percent.LessThan(decimal.NewFromInt(10)):
		return staff.TierServer
	case percent.LessThanOrEqual(decimal.NewFromInt(50)):
		return staff.TierManager
	default:
		return staff.TierOwner
	}
}

// ValidateChunkTransition enforces the kitchen workflow. COMPLETED is
// terminal; moving to the current status is a no-op allowed everywhere;
// moving backwards is rejected.
func ValidateChunkTransition(from, to ChunkStatus) error {
	if !to.Valid() {
		return apperrors.Validation("unknown chunk status %q", to)
	}
	if from == to {
		return nil
	}
	if from == ChunkCompleted {
		return apperrors.Conflict("chunk is already completed")
	}
	if from == ChunkInProgress && to == ChunkPending {
		return apperrors.Conflict("chunk status cannot move back from %s to %s", from, to)
	}
	return nil
}

// ConfirmCart atomically converts the session's cart into a new immutable
// order chunk: price snapshots are copied from the cart, the order's totals
// are recomputed over all its chunks, and the cart is deleted.
func (s *Service) ConfirmCart(ctx context.Context, sessionID string) (*Chunk, error) {
	var (
		chunk Chunk
		ord   *Order
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sess, err := s.activeSession(tx, sessionID)
		if err != nil {
			return err
		}

		var c cart.Cart
		err = tx.Preload("Items.Options").Where("session_id = ?", sessionID).First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(c.Items) == 0) {
			return apperrors.Validation("cart is empty")
		}
		if err != nil {
			return err
		}

		ord, err = s.findOrCreateOrder(tx, sess)
		if err != nil {
			return err
		}
		if ord.Status == StatusPaid {
			return apperrors.Conflict("order for session %s is already paid", sessionID)
		}

		chunk = Chunk{OrderID: ord.ID, Status: ChunkPending}
		for _, item := range c.Items {
			ci := ChunkItem{
				MenuItemID: item.MenuItemID,
				Name:       item.Name,
				Quantity:   item.Quantity,
				Notes:      item.Notes,
				UnitPrice:  item.UnitPrice,
			}
			for _, opt := range item.Options {
				ci.Options = append(ci.Options, ChunkItemOption{
					OptionID: opt.OptionID,
					Name:     opt.Name,
					Price:    opt.Price,
				})
			}
			chunk.Items = append(chunk.Items, ci)
		}
		if err := tx.Create(&chunk).Error; err != nil {
			return err
		}

		if err := s.recompute(tx, ord); err != nil {
			return err
		}

		return cart.DeleteForSession(tx, sessionID)
	})
	if err != nil {
		return nil, s.classify("confirm cart", err)
	}

	s.rt.Publish(ctx, realtime.SessionChannel(sessionID), realtime.EventOrderUpdated, ord)
	s.rt.Publish(ctx, realtime.StoreChannel(ord.StoreID), realtime.EventChunkCreated, &chunk)
	s.rt.Publish(ctx, realtime.SessionChannel(sessionID), realtime.EventCartUpdated, &cart.Snapshot{
		SessionID: sessionID,
		Items:     []cart.CartItem{},
	})
	return &chunk, nil
}

// GetOrder returns the session's order aggregate with all chunks
func (s *Service) GetOrder(ctx context.Context, sessionID string) (*Order, error) {
	var ord Order
	err := s.db.WithContext(ctx).
		Preload("Chunks.Items.Options").
		Where("session_id = ?", sessionID).
		First(&ord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("no order for session %s", sessionID)
	}
	if err != nil {
		return nil, s.classify("get order", err)
	}
	return &ord, nil
}

// GetOrderByID returns one order with all chunks
func (s *Service) GetOrderByID(ctx context.Context, orderID uint) (*Order, error) {
	var ord Order
	err := s.db.WithContext(ctx).
		Preload("Chunks.Items.Options").
		First(&ord, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return nil, s.classify("get order", err)
	}
	return &ord, nil
}

// UpdateChunkStatus advances one chunk through the kitchen workflow
func (s *Service) UpdateChunkStatus(ctx context.Context, chunkID uint, newStatus ChunkStatus) (*Chunk, error) {
	var (
		chunk   Chunk
		storeID uint
		sessID  string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Items.Options").First(&chunk, chunkID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("chunk %d not found", chunkID)
		}
		if err != nil {
			return err
		}

		if err := ValidateChunkTransition(chunk.Status, newStatus); err != nil {
			return err
		}

		var ord Order
		if err := tx.First(&ord, chunk.OrderID).Error; err != nil {
			return err
		}
		storeID = ord.StoreID
		sessID = ord.SessionID

		if chunk.Status == newStatus {
			return nil
		}
		chunk.Status = newStatus
		return tx.Model(&Chunk{}).Where("id = ?", chunk.ID).Update("status", newStatus).Error
	})
	if err != nil {
		return nil, s.classify("update chunk status", err)
	}

	s.rt.Publish(ctx, realtime.StoreChannel(storeID), realtime.EventChunkStatusChanged, &chunk)
	s.rt.Publish(ctx, realtime.SessionChannel(sessID), realtime.EventChunkStatusChanged, &chunk)
	return &chunk, nil
}

// ApplyDiscount attaches a discount to the session's order and recomputes
// totals. The actor's tier must cover the discount magnitude; tier
// enforcement happens here, before the calculator (which is tier-agnostic)
// runs.
func (s *Service) ApplyDiscount(ctx context.Context, sessionID string, req *DiscountRequest, actorTier staff.RoleTier) (*Order, error) {
	value, err := money.Parse("discount value", req.Value)
	if err != nil {
		return nil, err
	}
	if req.Type != pricing.DiscountPercentage && req.Type != pricing.DiscountFixed {
		return nil, apperrors.Validation("unknown discount type %q", req.Type)
	}

	var ord *Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ord, err = s.loadOpenOrder(tx, sessionID)
		if err != nil {
			return err
		}

		d := &pricing.Discount{Type: req.Type, Value: value}
		percent := pricing.ImpliedPercent(ord.SubTotal, d)
		required := RequiredTierFor(percent)
		if !actorTier.AtLeast(required) {
			return apperrors.Authorization("discount of %s%% requires %s approval", percent.Round(2), required)
		}

		ord.DiscountType = &req.Type
		ord.DiscountValue = &value
		ord.DiscountReason = req.Reason
		ord.DiscountTier = &actorTier
		return s.recompute(tx, ord)
	})
	if err != nil {
		return nil, s.classify("apply discount", err)
	}

	s.rt.Publish(ctx, realtime.SessionChannel(sessionID), realtime.EventOrderUpdated, ord)
	return ord, nil
}

// RemoveDiscount drops the order's discount; the grand total returns to the
// undiscounted value.
func (s *Service) RemoveDiscount(ctx context.Context, sessionID string) (*Order, error) {
	var ord *Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		ord, err = s.loadOpenOrder(tx, sessionID)
		if err != nil {
			return err
		}

		ord.DiscountType = nil
		ord.DiscountValue = nil
		ord.DiscountReason = ""
		ord.DiscountTier = nil
		if err := tx.Model(&Order{}).Where("id = ?", ord.ID).
			Updates(map[string]interface{}{
				"discount_type":   nil,
				"discount_value":  nil,
				"discount_reason": "",
				"discount_tier":   nil,
			}).Error; err != nil {
			return err
		}
		return s.recompute(tx, ord)
	})
	if err != nil {
		return nil, s.classify("remove discount", err)
	}

	s.rt.Publish(ctx, realtime.SessionChannel(sessionID), realtime.EventOrderUpdated, ord)
	return ord, nil
}

// PayOrder recomputes totals one final time, marks the order paid and closes
// the session, all in one transaction: a fault between the steps rolls both
// back, so a paid-but-open session cannot exist.
func (s *Service) PayOrder(ctx context.Context, sessionID string) (*Order, error) {
	var (
		ord     *Order
		sess    session.Session
		storeID uint
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		ord, err = s.loadOpenOrder(tx, sessionID)
		if err != nil {
			return err
		}
		storeID = ord.StoreID

		if err := s.recompute(tx, ord); err != nil {
			return err
		}

		now := time.Now().UTC()
		ord.Status = StatusPaid
		ord.PaidAt = &now
		if err := tx.Model(&Order{}).Where("id = ?", ord.ID).
			Updates(map[string]interface{}{"status": StatusPaid, "paid_at": now}).Error; err != nil {
			return err
		}

		if err := tx.First(&sess, "id = ?", sessionID).Error; err != nil {
			return err
		}
		if sess.Status == session.StatusActive {
			sess.Status = session.StatusClosed
			sess.ClosedAt = &now
			sess.TableID = nil
			if err := tx.Save(&sess).Error; err != nil {
				return err
			}
		}

		return cart.DeleteForSession(tx, sessionID)
	})
	if err != nil {
		return nil, s.classify("pay order", err)
	}

	s.rt.Publish(ctx, realtime.SessionChannel(sessionID), realtime.EventOrderPaid, ord)
	s.rt.Publish(ctx, realtime.StoreChannel(storeID), realtime.EventOrderPaid, ord)
	s.rt.Publish(ctx, realtime.SessionChannel(sessionID), realtime.EventSessionClosed, &sess)
	return ord, nil
}

// activeSession loads the session and requires it to still be active
func (s *Service) activeSession(tx *gorm.DB, sessionID string) (*session.Session, error) {
	var sess session.Session
	err := tx.First(&sess, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("session %s not found", sessionID)
	}
	if err != nil {
		return nil, err
	}
	if !sess.IsActive() {
		return nil, apperrors.Conflict("session %s is closed", sessionID)
	}
	return &sess, nil
}

// findOrCreateOrder loads the session's order aggregate or creates it with
// rate snapshots taken from the store's live configuration.
func (s *Service) findOrCreateOrder(tx *gorm.DB, sess *session.Session) (*Order, error) {
	var ord Order
	err := tx.Where("session_id = ?", sess.ID).First(&ord).Error
	if err == nil {
		return &ord, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var store menu.Store
	if err := tx.First(&store, sess.StoreID).Error; err != nil {
		return nil, err
	}

	ord = Order{
		SessionID:         sess.ID,
		StoreID:           sess.StoreID,
		Status:            StatusOpen,
		TaxRate:           store.TaxRate,
		ServiceChargeRate: store.ServiceChargeRate,
	}
	if err := tx.Create(&ord).Error; err != nil {
		return nil, err
	}
	return &ord, nil
}

// loadOpenOrder loads the session's order with all chunks and requires it to
// still be open.
func (s *Service) loadOpenOrder(tx *gorm.DB, sessionID string) (*Order, error) {
	var ord Order
	err := tx.Preload("Chunks.Items.Options").Where("session_id = ?", sessionID).First(&ord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("no order for session %s", sessionID)
	}
	if err != nil {
		return nil, err
	}
	if ord.Status == StatusPaid {
		return nil, apperrors.Conflict("order for session %s is already paid", sessionID)
	}
	return &ord, nil
}

// recompute reloads the order's full chunk set and rewrites its totals via
// the pricing calculator. Never incremental.
func (s *Service) recompute(tx *gorm.DB, ord *Order) error {
	var chunks []Chunk
	if err := tx.Preload("Items.Options").Where("order_id = ?", ord.ID).Find(&chunks).Error; err != nil {
		return err
	}
	ord.Chunks = chunks

	breakdown, err := pricing.Calculate(ord.LineItems(), ord.TaxRate, ord.ServiceChargeRate, ord.Discount())
	if err != nil {
		return err
	}

	ord.SubTotal = breakdown.SubTotal
	ord.DiscountAmount = breakdown.DiscountAmount
	ord.TaxAmount = breakdown.TaxAmount
	ord.ServiceChargeAmount = breakdown.ServiceChargeAmount
	ord.GrandTotal = breakdown.GrandTotal

	return tx.Model(&Order{}).Where("id = ?", ord.ID).
		Updates(map[string]interface{}{
			"sub_total":             ord.SubTotal,
			"discount_amount":       ord.DiscountAmount,
			"tax_amount":            ord.TaxAmount,
			"service_charge_amount": ord.ServiceChargeAmount,
			"grand_total":           ord.GrandTotal,
			"discount_type":         ord.DiscountType,
			"discount_value":        ord.DiscountValue,
			"discount_reason":       ord.DiscountReason,
			"discount_tier":         ord.DiscountTier,
		}).Error
}

// classify keeps domain errors as-is and wraps everything else as internal,
// logged with context.
func (s *Service) classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.KindOf(err) != apperrors.KindInternal {
		return err
	}
	s.log.WithError(err).WithField("operation", op).Error("Order storage operation failed")
	return apperrors.Internal(err)
}
