package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

const version = "1.0.0"

// RoomCounter reports how many sessions are live.
type RoomCounter interface {
	Count() int
}

// HealthCheck returns server health status
func HealthCheck(rooms RoomCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "pong-server",
			"version": version,
			"uptime":  time.Since(startTime).String(),
			"rooms":   rooms.Count(),
		})
	}
}
