package middleware

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/playmatatu/pong-server/internal/config"
)

// CORSMiddleware returns a CORS middleware configured for the environment
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	log.Printf("[CORS] Environment: %s, FrontendURL: %s", cfg.Environment, cfg.FrontendURL)

	corsConfig := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization",
			"Accept", "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	switch {
	case cfg.IsProduction() && cfg.FrontendURL == "":
		// Only the bundled client, served from this origin, is expected.
		corsConfig.AllowAllOrigins = true
		log.Printf("[CORS] FRONTEND_URL not set; allowing all origins without credentials")
	case cfg.IsProduction():
		corsConfig.AllowOrigins = allowedOrigins(cfg)
		corsConfig.AllowCredentials = true
		log.Printf("[CORS] Production allowed origins: %v", corsConfig.AllowOrigins)
	default:
		corsConfig.AllowOriginFunc = isLocalOrigin
		corsConfig.AllowCredentials = true
	}

	return cors.New(corsConfig)
}

// CheckOrigin validates websocket upgrade origins. Requests without an
// Origin header come from non-browser clients and are accepted.
func CheckOrigin(cfg *config.Config) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if !cfg.IsProduction() {
			return isLocalOrigin(origin) || sameHost(origin, r.Host)
		}
		if sameHost(origin, r.Host) {
			return true
		}
		for _, allowed := range allowedOrigins(cfg) {
			if origin == allowed {
				return true
			}
		}
		log.Printf("[CORS] websocket origin %s rejected", origin)
		return false
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if cfg.FrontendURL == "" {
		return nil
	}
	return []string{strings.TrimSuffix(cfg.FrontendURL, "/")}
}

func isLocalOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") ||
		strings.HasPrefix(origin, "http://127.0.0.1:") ||
		origin == "http://localhost" || origin == "http://127.0.0.1"
}

// sameHost accepts pages served by this process, which hosts the client.
func sameHost(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == host
}
