package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_PORT", "REDIS_URL", "DATABASE_URL", "FRAME_INTERVAL_MS", "ROUND_BREAK_MS", "PLAYER_SPEED", "WINNING_SCORE", "MIGRATE_ON_START"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.MigrateOnStart)

	env := cfg.GameEnvironment()
	assert.Equal(t, 20*time.Millisecond, env.FrameInterval)
	assert.Equal(t, 1500.0, env.TableWidth)

	params := cfg.GameParameters()
	assert.Equal(t, 3*time.Second, params.RoundBreak)
	assert.Equal(t, 3*time.Second, params.StartDelay)
	assert.Equal(t, 5.0, params.PlayerSpeed)
	assert.Equal(t, 5, params.WinningScore)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("FRAME_INTERVAL_MS", "16")
	t.Setenv("ROUND_BREAK_MS", "1000")
	t.Setenv("PLAYER_SPEED", "8")
	t.Setenv("WINNING_SCORE", "11")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("SESSION_TIMEOUT_MINUTES", "5")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, 16*time.Millisecond, cfg.GameEnvironment().FrameInterval)
	assert.Equal(t, 5*time.Minute, cfg.SessionTimeout())

	params := cfg.GameParameters()
	assert.Equal(t, time.Second, params.RoundBreak)
	assert.Equal(t, time.Second, params.StartDelay)
	assert.Equal(t, 8.0, params.PlayerSpeed)
	assert.Equal(t, 11, params.WinningScore)
}

func TestPortTakesPrecedence(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("APP_PORT", "9090")

	assert.Equal(t, "3000", Load().Port)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("WINNING_SCORE", "lots")
	t.Setenv("MIGRATE_ON_START", "maybe")

	cfg := Load()
	assert.Equal(t, 5, cfg.WinningScore)
	assert.False(t, cfg.MigrateOnStart)
}

func TestValidateDefaultSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	cfg.Environment = "development"
	assert.NoError(t, cfg.Validate())

	cfg.Environment = "production"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "a-real-secret"
	assert.NoError(t, cfg.Validate())
}
