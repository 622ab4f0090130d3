// internal/domain/staff/service.go
package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service handles staff accounts and credential checks. Token issuance lives
// in the HTTP layer; this service only authenticates and manages records.
type Service struct {
	db     *gorm.DB
	config *config.Config
	log    *logrus.Logger
}

// NewService creates a new staff service
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		log:    log,
	}
}

// LoginRequest represents a sign-in attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateRequest represents a new staff account
type CreateRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	RoleTier RoleTier `json:"role_tier" binding:"required"`
}

// Authenticate checks credentials and returns the staff member. Wrong email
// and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, req *LoginRequest) (*Staff, error) {
	var member Staff
	err := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", strings.ToLower(req.Email), true).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Authorization("invalid email or password")
	}
	if err != nil {
		return nil, s.internal("authenticate", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(req.Password)) != nil {
		return nil, apperrors.Authorization("invalid email or password")
	}
	return &member, nil
}

// GetStaff returns one staff member by id
func (s *Service) GetStaff(ctx context.Context, staffID uint) (*Staff, error) {
	var member Staff
	err := s.db.WithContext(ctx).First(&member, staffID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("staff member %d not found", staffID)
	}
	if err != nil {
		return nil, s.internal("get staff", err)
	}
	return &member, nil
}

// ListStaff returns the store's staff roster
func (s *Service) ListStaff(ctx context.Context, storeID uint) ([]Staff, error) {
	var members []Staff
	err := s.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("role_tier DESC, name ASC").
		Find(&members).Error
	if err != nil {
		return nil, s.internal("list staff", err)
	}
	return members, nil
}

// CreateStaff adds a staff account with an already-hashed password
func (s *Service) CreateStaff(ctx context.Context, storeID uint, req *CreateRequest, hashedPassword string) (*Staff, error) {
	if !req.RoleTier.Valid() {
		return nil, apperrors.Validation("unknown role tier %d", req.RoleTier)
	}

	member := Staff{
		StoreID:  storeID,
		Email:    strings.ToLower(req.Email),
		Password: hashedPassword,
		Name:     req.Name,
		RoleTier: req.RoleTier,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("email %s is already registered", member.Email)
		}
		return nil, s.internal("create staff", err)
	}
	return &member, nil
}

// DeactivateStaff disables sign-in without deleting the record
func (s *Service) DeactivateStaff(ctx context.Context, staffID uint) error {
	res := s.db.WithContext(ctx).Model(&Staff{}).
		Where("id = ? AND is_active = ?", staffID, true).
		Update("is_active", false)
	if res.Error != nil {
		return s.internal("deactivate staff", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("staff member %d not found", staffID)
	}
	return nil
}

func (s *Service) internal(op string, err error) error {
	s.log.WithError(err).WithField("operation", op).Error("Staff storage operation failed")
	return apperrors.Internal(err)
}
