// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/staff"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"github.com/your-org/restaurant-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// AuthHandler handles staff authentication endpoints
type AuthHandler struct {
	staffService *staff.Service
	jwtManager   *auth.JWTManager
	passwords    *auth.PasswordManager
	config       *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		staffService: staff.NewService(db, cfg, log),
		jwtManager:   auth.NewJWTManager(cfg),
		passwords:    auth.NewPasswordManager(cfg),
		config:       cfg,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req staff.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	member, err := h.staffService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(member)
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}

	respondOK(c, "Signed in successfully", gin.H{
		"token": token,
		"staff": member,
	})
}

// Profile handles GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	member, err := h.staffService.GetStaff(c.Request.Context(), staffID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Profile retrieved successfully", member)
}

// ListStaff handles GET /staff
func (h *AuthHandler) ListStaff(c *gin.Context) {
	storeID, _ := middleware.GetStoreIDFromContext(c)

	members, err := h.staffService.ListStaff(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Staff retrieved successfully", members)
}

// CreateStaff handles POST /staff
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	storeID, _ := middleware.GetStoreIDFromContext(c)

	var req staff.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	hashed, err := h.passwords.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.staffService.CreateStaff(c.Request.Context(), storeID, &req, hashed)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Staff member created successfully", member)
}

// DeactivateStaff handles DELETE /staff/:id
func (h *AuthHandler) DeactivateStaff(c *gin.Context) {
	staffID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.staffService.DeactivateStaff(c.Request.Context(), staffID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Staff member deactivated successfully", nil)
}
