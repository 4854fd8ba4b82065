package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/playmatatu/pong-server/internal/admin"
	"github.com/playmatatu/pong-server/internal/config"
	"github.com/playmatatu/pong-server/internal/game"
	"github.com/playmatatu/pong-server/internal/models"
	"github.com/playmatatu/pong-server/internal/store"
)

// RoomDirectory is the registry as seen by operators.
type RoomDirectory interface {
	Rooms() []game.Summary
	CloseRoom(room string) error
}

// MatchHistory lists finished matches.
type MatchHistory interface {
	RecentResults(ctx context.Context, limit int) ([]models.MatchResult, error)
}

// AdminLogin exchanges the operator token for a session JWT.
func AdminLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Token string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		if cfg.AdminTokenHash == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin access not configured"})
			return
		}
		if !admin.VerifyToken(cfg.AdminTokenHash, strings.TrimSpace(req.Token)) {
			log.Printf("[ADMIN] Login failed from %s", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, exp, err := admin.IssueSession(cfg.JWTSecret, cfg.SessionTimeout())
		if err != nil {
			log.Printf("[ADMIN] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		log.Printf("[ADMIN] Login from %s", c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp.UTC().Format(time.RFC3339)})
	}
}

// ListRooms returns every live session.
func ListRooms(rooms RoomDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := rooms.Rooms()
		c.JSON(http.StatusOK, gin.H{"rooms": list, "count": len(list)})
	}
}

// CloseRoom tears a session down as though a player had disconnected.
func CloseRoom(rooms RoomDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("room")
		if err := rooms.CloseRoom(name); err != nil {
			if errors.Is(err, game.ErrUnknownRoom) {
				c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
				return
			}
			log.Printf("[ADMIN] close room %s: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		log.Printf("[ADMIN] room %s closed by %s", name, c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"closed": name})
	}
}

// ListMatches returns recent finished matches, newest first.
func ListMatches(history MatchHistory) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		results, err := history.RecentResults(c.Request.Context(), limit)
		if err != nil {
			if errors.Is(err, store.ErrDisabled) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match history not configured"})
				return
			}
			log.Printf("[ADMIN] list matches: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"matches": results, "count": len(results)})
	}
}
