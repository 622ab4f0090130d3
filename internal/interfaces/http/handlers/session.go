// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/session"
	"github.com/your-org/restaurant-backend/internal/realtime"
	"gorm.io/gorm"
)

// SessionHandler handles table session endpoints
type SessionHandler struct {
	sessionService *session.Service
	config         *config.Config
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(db *gorm.DB, cfg *config.Config, rt realtime.Broadcaster, log *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: session.NewService(db, cfg, rt, log),
		config:         cfg,
	}
}

// OpenSession handles POST /sessions
func (h *SessionHandler) OpenSession(c *gin.Context) {
	var req session.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sess, err := h.sessionService.OpenSession(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Session opened successfully", sess)
}

// JoinSession handles POST /sessions/join
func (h *SessionHandler) JoinSession(c *gin.Context) {
	var req session.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sess, err := h.sessionService.JoinSession(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Session joined successfully", sess)
}

// GetSession handles GET /sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.sessionService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Session retrieved successfully", sess)
}

// CloseSession handles POST /sessions/:id/close
func (h *SessionHandler) CloseSession(c *gin.Context) {
	sess, err := h.sessionService.CloseSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Session closed successfully", sess)
}
