package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const APIVersion = "1.0.0"

type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type SystemHandler struct {
	db  Pinger
	now func() time.Time
}

func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db, now: time.Now}
}

func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Kopi Nusantara API",
		"data": gin.H{
			"version": APIVersion,
			"endpoints": gin.H{
				"menu":   "/api/menu",
				"orders": "/api/orders",
				"auth":   "/api/auth",
				"health": "/health",
			},
		},
	})
}

// Health reports 503 when the database does not answer within 2 seconds.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, database, code := "OK", "connected", http.StatusOK
	if err := h.db.HealthCheck(ctx); err != nil {
		status, database, code = "ERROR", "disconnected", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"database":  database,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
