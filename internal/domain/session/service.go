// internal/domain/session/service.go
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/cart"
	"github.com/your-org/restaurant-backend/internal/domain/table"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"github.com/your-org/restaurant-backend/internal/realtime"
	"gorm.io/gorm"
)

// Service enforces the one-active-session-per-table invariant
type Service struct {
	db     *gorm.DB
	config *config.Config
	rt     realtime.Broadcaster
	log    *logrus.Logger
}

// NewService creates a new session service
func NewService(db *gorm.DB, cfg *config.Config, rt realtime.Broadcaster, log *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		rt:     rt,
		log:    log,
	}
}

// OpenRequest represents a session open request
type OpenRequest struct {
	TableID    uint `json:"table_id" binding:"required"`
	GuestCount int  `json:"guest_count" binding:"required,min=1"`
}

// OpenSession creates a new active session for a table, plus its empty cart,
// in one atomic unit. Two concurrent opens race at the partial unique index;
// the loser gets a conflict, never a duplicate session.
func (s *Service) OpenSession(ctx context.Context, req *OpenRequest) (*Session, error) {
	var tbl table.Table
	if err := s.db.WithContext(ctx).First(&tbl, req.TableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("table %d not found", req.TableID)
		}
		return nil, s.internal("open session: load table", err)
	}

	sess := &Session{
		ID:         uuid.NewString(),
		TableID:    &tbl.ID,
		StoreID:    tbl.StoreID,
		GuestCount: req.GuestCount,
		Status:     StatusActive,
		OpenedAt:   time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sess).Error; err != nil {
			return err
		}
		return tx.Create(&cart.Cart{SessionID: sess.ID}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("table %d is already occupied", req.TableID)
		}
		return nil, s.internal("open session", err)
	}

	s.rt.Publish(ctx, realtime.SessionChannel(sess.ID), realtime.EventSessionOpened, sess)
	s.rt.Publish(ctx, realtime.StoreChannel(sess.StoreID), realtime.EventSessionOpened, sess)
	return sess, nil
}

// JoinSession is the idempotent find-or-create used by guests scanning a
// table code: the first scan opens the session, every later (or concurrent)
// scan returns the same one.
func (s *Service) JoinSession(ctx context.Context, req *OpenRequest) (*Session, error) {
	if existing, err := s.findActive(ctx, req.TableID); err == nil {
		return existing, nil
	} else if apperrors.KindOf(err) != apperrors.KindNotFound {
		return nil, err
	}

	sess, err := s.OpenSession(ctx, req)
	if err == nil {
		return sess, nil
	}
	// Lost the creation race to another device; the winner's session is the
	// one to join.
	if apperrors.KindOf(err) == apperrors.KindConflict {
		return s.findActive(ctx, req.TableID)
	}
	return nil, err
}

// GetSession returns a session by id
func (s *Service) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var sess Session
	if err := s.db.WithContext(ctx).First(&sess, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("session %s not found", sessionID)
		}
		return nil, s.internal("get session", err)
	}
	return &sess, nil
}

// CloseSession marks the session closed, detaches it from its table and
// deletes the scratch cart. Closing an already closed session is a conflict.
func (s *Service) CloseSession(ctx context.Context, sessionID string) (*Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sess, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("session %s not found", sessionID)
			}
			return err
		}
		if sess.Status == StatusClosed {
			return apperrors.Conflict("session %s is already closed", sessionID)
		}

		now := time.Now().UTC()
		sess.Status = StatusClosed
		sess.ClosedAt = &now
		sess.TableID = nil
		if err := tx.Save(&sess).Error; err != nil {
			return err
		}
		return cart.DeleteForSession(tx, sessionID)
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, s.internal("close session", err)
	}

	s.rt.Publish(ctx, realtime.SessionChannel(sess.ID), realtime.EventSessionClosed, &sess)
	s.rt.Publish(ctx, realtime.StoreChannel(sess.StoreID), realtime.EventSessionClosed, &sess)
	return &sess, nil
}

// HasActiveSession reports whether the table currently has an active session
func (s *Service) HasActiveSession(ctx context.Context, tableID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Session{}).
		Where("table_id = ? AND status = ?", tableID, StatusActive).
		Count(&count).Error
	if err != nil {
		return false, s.internal("count active sessions", err)
	}
	return count > 0, nil
}

func (s *Service) findActive(ctx context.Context, tableID uint) (*Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).
		Where("table_id = ? AND status = ?", tableID, StatusActive).
		First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no active session for table %d", tableID)
		}
		return nil, s.internal("find active session", err)
	}
	return &sess, nil
}

func (s *Service) internal(op string, err error) error {
	s.log.WithError(err).WithField("operation", op).Error("Session storage operation failed")
	return apperrors.Internal(err)
}
