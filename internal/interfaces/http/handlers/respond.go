// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/restaurant-backend/internal/pkg/apperrors"
)

// respondError maps a domain error onto the HTTP status taxonomy. Internal
// details never leak; the client sees the classified message only.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	message := apperrors.MessageOf(err)
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	c.JSON(status, gin.H{
		"error": message,
	})
}

// respondOK wraps successful payloads in the standard envelope
func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    data,
	})
}

// respondCreated wraps created payloads in the standard envelope
func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"message": message,
		"data":    data,
	})
}

// parseUintParam reads a numeric path parameter, writing the 400 itself on
// failure.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(value), true
}
