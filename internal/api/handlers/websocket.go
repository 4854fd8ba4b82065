package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/playmatatu/pong-server/internal/ws"
)

// HandleGameWebSocket upgrades the request onto the game hub.
func HandleGameWebSocket(hub *ws.Hub) gin.HandlerFunc {
	return gin.WrapF(hub.ServeWS)
}
