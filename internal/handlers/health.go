package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mvergara-dev/project-management-api/internal/database"
)

// Health reports service and database liveness
func Health(c *gin.Context) {
	sqlDB, err := database.GetDB().DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
