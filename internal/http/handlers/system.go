package handlers

import (
	"net/http"

	intconfig "ferry-backend/internal/config"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func DBCheck(c *gin.Context) {
	db := intconfig.DB
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": "database not initialized"})
		return
	}
	if err := db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
