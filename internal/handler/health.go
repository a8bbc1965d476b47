package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Bry504/red-de-agencias/internal/infra"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB connectivity and reports the CRM circuit breaker state; never
// exposes credentials or internals.
func Health(db *gorm.DB, hl *infra.HighLevelClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":          status == http.StatusOK,
			"db":          dbStatus,
			"crm_circuit": hl.BreakerState(),
		})
	}
}
