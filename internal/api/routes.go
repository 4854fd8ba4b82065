package api

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/playmatatu/pong-server/internal/api/handlers"
	"github.com/playmatatu/pong-server/internal/config"
	"github.com/playmatatu/pong-server/internal/game"
	"github.com/playmatatu/pong-server/internal/middleware"
	"github.com/playmatatu/pong-server/internal/store"
	"github.com/playmatatu/pong-server/internal/ws"
)

// Deps are the long-lived components the routes are bound to.
type Deps struct {
	Config *config.Config
	Hub    *ws.Hub
	Games  *game.Registry
	Store  *store.Store
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, deps Deps) {
	cfg := deps.Config

	router.Use(middleware.CORSMiddleware(cfg))

	if !cfg.IsProduction() {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	// Game transport
	router.GET("/ws", handlers.HandleGameWebSocket(deps.Hub))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(deps.Games))
		v1.POST("/admin/login", handlers.AdminLogin(cfg))

		adminGroup := v1.Group("/admin", middleware.AdminAuth(cfg))
		{
			adminGroup.GET("/rooms", handlers.ListRooms(deps.Games))
			adminGroup.DELETE("/rooms/:room", handlers.CloseRoom(deps.Games))
			adminGroup.GET("/matches", handlers.ListMatches(deps.Store))
		}
	}

	router.NoRoute(staticFiles(cfg.StaticDir))
}

// staticFiles serves the browser client for any GET that no route matched.
func staticFiles(dir string) gin.HandlerFunc {
	if _, err := os.Stat(dir); err != nil {
		log.Printf("[STATIC] %s not found; static client disabled", dir)
	}
	files := http.FileServer(http.Dir(dir))

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}
