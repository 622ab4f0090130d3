// internal/interfaces/http/handlers/menu.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// MenuHandler handles menu endpoints
type MenuHandler struct {
	menuService *menu.Service
	config      *config.Config
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *MenuHandler {
	return &MenuHandler{
		menuService: menu.NewService(db, cfg, log),
		config:      cfg,
	}
}

// GetMenu handles GET /menu. Guests are not authenticated; the store comes
// from the query, defaulting to the first store.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	storeID := uint(1)
	if param := c.Query("store_id"); param != "" {
		parsed, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store_id parameter"})
			return
		}
		storeID = uint(parsed)
	}

	items, err := h.menuService.ListMenu(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Menu retrieved successfully", items)
}

// GetItem handles GET /menu/items/:id
func (h *MenuHandler) GetItem(c *gin.Context) {
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	item, err := h.menuService.GetItem(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Menu item retrieved successfully", item)
}

// ListAllItems handles GET /admin/menu/items
func (h *MenuHandler) ListAllItems(c *gin.Context) {
	storeID, _ := middleware.GetStoreIDFromContext(c)

	items, err := h.menuService.ListAllItems(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Menu items retrieved successfully", items)
}

// CreateItem handles POST /admin/menu/items
func (h *MenuHandler) CreateItem(c *gin.Context) {
	storeID, _ := middleware.GetStoreIDFromContext(c)

	var req menu.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.menuService.CreateItem(c.Request.Context(), storeID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Menu item created successfully", item)
}

// UpdateItem handles PUT /admin/menu/items/:id
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req menu.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.menuService.UpdateItem(c.Request.Context(), itemID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Menu item updated successfully", item)
}

// ArchiveItem handles DELETE /admin/menu/items/:id
func (h *MenuHandler) ArchiveItem(c *gin.Context) {
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.ArchiveItem(c.Request.Context(), itemID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Menu item archived successfully", nil)
}

// SetAvailability handles PATCH /admin/menu/items/:id/availability
func (h *MenuHandler) SetAvailability(c *gin.Context) {
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.menuService.SetItemAvailability(c.Request.Context(), itemID, *req.IsAvailable); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Menu item availability updated successfully", nil)
}
