// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/cart"
	"github.com/your-org/restaurant-backend/internal/realtime"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints. The cart is addressed through its
// session; every device at the table shares the same one.
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config, rt realtime.Broadcaster, log *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, cfg, rt, log),
		config:      cfg,
	}
}

// GetCart handles GET /sessions/:id/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	snap, err := h.cartService.GetCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Cart retrieved successfully", snap)
}

// AddItem handles POST /sessions/:id/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	snap, err := h.cartService.AddItem(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Item added to cart successfully", snap)
}

// UpdateItem handles PATCH /sessions/:id/cart/items/:itemId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseUintParam(c, "itemId")
	if !ok {
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	snap, err := h.cartService.UpdateItem(c.Request.Context(), c.Param("id"), itemID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Cart item updated successfully", snap)
}

// RemoveItem handles DELETE /sessions/:id/cart/items/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := parseUintParam(c, "itemId")
	if !ok {
		return
	}

	snap, err := h.cartService.RemoveItem(c.Request.Context(), c.Param("id"), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Cart item removed successfully", snap)
}

// ClearCart handles DELETE /sessions/:id/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	snap, err := h.cartService.Clear(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Cart cleared successfully", snap)
}
