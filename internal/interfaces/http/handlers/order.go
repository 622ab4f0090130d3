// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/domain/order"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
	"github.com/your-org/restaurant-backend/internal/pkg/receipt"
	"github.com/your-org/restaurant-backend/internal/realtime"
	"gorm.io/gorm"
)

// OrderHandler handles order and kitchen endpoints
type OrderHandler struct {
	orderService   *order.Service
	menuService    *menu.Service
	receiptService *receipt.Service
	config         *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, cfg *config.Config, rt realtime.Broadcaster, log *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orderService:   order.NewService(db, cfg, rt, log),
		menuService:    menu.NewService(db, cfg, log),
		receiptService: receipt.NewService(cfg),
		config:         cfg,
	}
}

// ConfirmCart handles POST /sessions/:id/confirm
func (h *OrderHandler) ConfirmCart(c *gin.Context) {
	chunk, err := h.orderService.ConfirmCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Cart confirmed successfully", chunk)
}

// GetOrder handles GET /sessions/:id/order
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ord, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Order retrieved successfully", ord)
}

// UpdateChunkStatus handles PATCH /chunks/:id/status
func (h *OrderHandler) UpdateChunkStatus(c *gin.Context) {
	chunkID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status order.ChunkStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	chunk, err := h.orderService.UpdateChunkStatus(c.Request.Context(), chunkID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Chunk status updated successfully", chunk)
}

// ApplyDiscount handles POST /sessions/:id/discount
func (h *OrderHandler) ApplyDiscount(c *gin.Context) {
	tier, ok := middleware.GetRoleTierFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req order.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ord, err := h.orderService.ApplyDiscount(c.Request.Context(), c.Param("id"), &req, tier)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Discount applied successfully", ord)
}

// RemoveDiscount handles DELETE /sessions/:id/discount
func (h *OrderHandler) RemoveDiscount(c *gin.Context) {
	ord, err := h.orderService.RemoveDiscount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Discount removed successfully", ord)
}

// PayOrder handles POST /sessions/:id/pay
func (h *OrderHandler) PayOrder(c *gin.Context) {
	ord, err := h.orderService.PayOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Order paid successfully", ord)
}

// GetReceipt handles GET /sessions/:id/receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	ctx := c.Request.Context()

	ord, err := h.orderService.GetOrder(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if ord.Status != order.StatusPaid {
		respondError(c, apperrors.Conflict("receipt is only available for paid orders"))
		return
	}

	store, err := h.menuService.GetStore(ctx, ord.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := h.receiptService.Generate(ord, store)
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%d.pdf", ord.ID))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}
