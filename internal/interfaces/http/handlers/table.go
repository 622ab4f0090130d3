// internal/interfaces/http/handlers/table.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/table"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
	"github.com/your-org/restaurant-backend/internal/realtime"
	"gorm.io/gorm"
)

// TableHandler handles floor-plan endpoints
type TableHandler struct {
	tableService *table.Service
	config       *config.Config
}

// NewTableHandler creates a new table handler
func NewTableHandler(db *gorm.DB, cfg *config.Config, rt realtime.Broadcaster, log *logrus.Logger) *TableHandler {
	return &TableHandler{
		tableService: table.NewService(db, cfg, rt, log),
		config:       cfg,
	}
}

// ListTables handles GET /tables
func (h *TableHandler) ListTables(c *gin.Context) {
	storeID, _ := middleware.GetStoreIDFromContext(c)

	tables, err := h.tableService.ListTables(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Tables retrieved successfully", tables)
}

// GetTable handles GET /tables/:id
func (h *TableHandler) GetTable(c *gin.Context) {
	tableID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	tbl, err := h.tableService.GetTable(c.Request.Context(), tableID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Table retrieved successfully", tbl)
}

// UpdateStatus handles PATCH /tables/:id/status
func (h *TableHandler) UpdateStatus(c *gin.Context) {
	tableID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req table.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	tbl, err := h.tableService.UpdateStatus(c.Request.Context(), tableID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Table status updated successfully", tbl)
}

// SyncTables handles PUT /tables/sync
func (h *TableHandler) SyncTables(c *gin.Context) {
	storeID, _ := middleware.GetStoreIDFromContext(c)

	var req struct {
		Tables []table.TableSpec `json:"tables" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.tableService.SyncTables(c.Request.Context(), storeID, req.Tables)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Tables synchronized successfully", result)
}
