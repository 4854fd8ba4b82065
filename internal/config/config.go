package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/playmatatu/pong-server/internal/game"
)

// DefaultJWTSecret is the development fallback for JWT_SECRET.
const DefaultJWTSecret = "change-me-in-production"

type Config struct {
	// Environment
	Environment string

	// Database (optional; match history is disabled when empty)
	DatabaseURL    string
	MigrateOnStart bool

	// Redis (optional; snapshots and room commands are disabled when empty)
	RedisURL string

	// Server
	Port        string
	FrontendURL string
	StaticDir   string

	// Admin
	JWTSecret         string
	AdminTokenHash    string
	SessionTimeoutMin int

	// Game Settings
	FrameIntervalMs int
	RoundBreakMs    int
	PlayerSpeed     int
	WinningScore    int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		RedisURL: getEnv("REDIS_URL", ""),

		Port:        getEnv("PORT", getEnv("APP_PORT", "8080")),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		StaticDir:   getEnv("STATIC_DIR", "public"),

		JWTSecret:         getEnv("JWT_SECRET", DefaultJWTSecret),
		AdminTokenHash:    getEnv("ADMIN_TOKEN_HASH", ""),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 30),

		FrameIntervalMs: getEnvInt("FRAME_INTERVAL_MS", 20),
		RoundBreakMs:    getEnvInt("ROUND_BREAK_MS", 3000),
		PlayerSpeed:     getEnvInt("PLAYER_SPEED", 5),
		WinningScore:    getEnvInt("WINNING_SCORE", 5),
	}
}

// GameEnvironment returns the table geometry with the configured frame
// interval.
func (c *Config) GameEnvironment() game.Environment {
	env := game.DefaultEnvironment()
	if c.FrameIntervalMs > 0 {
		env.FrameInterval = time.Duration(c.FrameIntervalMs) * time.Millisecond
	}
	return env
}

// GameParameters returns the rule constants. The start delay always
// matches the round break.
func (c *Config) GameParameters() game.Parameters {
	params := game.DefaultParameters()
	if c.RoundBreakMs > 0 {
		params.RoundBreak = time.Duration(c.RoundBreakMs) * time.Millisecond
		params.StartDelay = params.RoundBreak
	}
	if c.PlayerSpeed > 0 {
		params.PlayerSpeed = float64(c.PlayerSpeed)
	}
	if c.WinningScore > 0 {
		params.WinningScore = c.WinningScore
	}
	return params
}

// SessionTimeout is the lifetime of admin tokens.
func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutMin) * time.Minute
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate rejects settings that are only acceptable during development.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
