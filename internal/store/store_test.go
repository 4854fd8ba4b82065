package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/pong-server/internal/game"
	"github.com/playmatatu/pong-server/internal/redis"
)

func TestDisabledStoreIsNoop(t *testing.T) {
	s := New(nil, nil)
	ctx := context.Background()

	assert.False(t, s.HasRedis())
	assert.False(t, s.HasDatabase())
	assert.NoError(t, s.SaveSnapshot(ctx, game.Snapshot{Room: "R1"}))
	assert.NoError(t, s.DeleteSnapshot(ctx, "R1"))
	assert.NoError(t, s.RecordResult(ctx, game.MatchResult{Room: "R1", Winner: 1}))

	_, err := s.RecentResults(ctx, 10)
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = s.LoadSnapshot(ctx, "R1")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "room:R1:state", SnapshotKey("R1"))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0))
	assert.Equal(t, 20, ClampLimit(-4))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, 200, ClampLimit(5000))
}

func TestToModelLeavesUnstartedNil(t *testing.T) {
	finished := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	row := toModel(game.MatchResult{Room: "R1", Player1: "Alice", Player2: "Bob", Score1: 5, Winner: 1, FinishedAt: finished})
	assert.Nil(t, row.StartedAt)
	assert.Equal(t, finished, row.FinishedAt)

	started := finished.Add(-time.Minute)
	row = toModel(game.MatchResult{Room: "R1", StartedAt: started, FinishedAt: finished})
	require.NotNil(t, row.StartedAt)
	assert.Equal(t, started, *row.StartedAt)
}

// Runs against a real server when TEST_REDIS_URL is set.
func TestSnapshotRoundTripRedis(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	rdb, err := redis.Connect(url)
	require.NoError(t, err)
	defer rdb.Close()

	s := New(rdb, nil)
	ctx := context.Background()
	room := "test-" + time.Now().Format("150405.000000")

	snap := game.Snapshot{Room: room, Phase: game.PhaseRunning, UpdatedAt: time.Now().UTC()}
	snap.State.P1.Name = "Alice"
	require.NoError(t, s.SaveSnapshot(ctx, snap))

	got, err := s.LoadSnapshot(ctx, room)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.State.P1.Name)
	assert.Equal(t, game.PhaseRunning, got.Phase)

	ttl, err := rdb.TTL(ctx, SnapshotKey(room)).Result()
	require.NoError(t, err)
	assert.InDelta(t, SnapshotTTL.Seconds(), ttl.Seconds(), 5)

	require.NoError(t, s.DeleteSnapshot(ctx, room))
	_, err = s.LoadSnapshot(ctx, room)
	assert.Error(t, err)
}
