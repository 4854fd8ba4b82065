package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/playmatatu/pong-server/internal/api"
	"github.com/playmatatu/pong-server/internal/config"
	"github.com/playmatatu/pong-server/internal/database"
	"github.com/playmatatu/pong-server/internal/game"
	"github.com/playmatatu/pong-server/internal/middleware"
	"github.com/playmatatu/pong-server/internal/migrations"
	"github.com/playmatatu/pong-server/internal/redis"
	"github.com/playmatatu/pong-server/internal/store"
	"github.com/playmatatu/pong-server/internal/ws"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Match history is optional
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			log.Println("Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL, migrations.DefaultSource); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}

		var err error
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
	} else {
		log.Println("[STORE] DATABASE_URL not set; match history disabled")
	}

	// Snapshots and room commands are optional
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		var err error
		rdb, err = redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Println("[STORE] REDIS_URL not set; snapshots and room commands disabled")
	}

	st := store.New(rdb, db)
	hub := ws.NewHub(middleware.CheckOrigin(cfg))
	games := game.NewRegistry(cfg.GameEnvironment(), cfg.GameParameters(), hub, st)
	hub.SetDispatcher(ws.NewGameDispatcher(hub, games))

	go hub.Run(ctx)
	ws.StartCommandSubscriber(ctx, rdb, games)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, api.Deps{Config: cfg, Hub: hub, Games: games, Store: st})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting pong server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	games.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
