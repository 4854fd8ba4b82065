// Package store persists what the game engine reports: live snapshots in
// Redis and finished matches in Postgres. Either backend may be absent.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/playmatatu/pong-server/internal/game"
	"github.com/playmatatu/pong-server/internal/models"
)

const (
	// SnapshotTTL bounds how long an abandoned snapshot lingers.
	SnapshotTTL = time.Hour

	// EventsChannel receives a notice for every write.
	EventsChannel = "room_events"

	defaultResultsLimit = 20
	maxResultsLimit     = 200
)

// ErrDisabled is returned by reads whose backend is not configured.
var ErrDisabled = errors.New("store: backend not configured")

// Store implements game.Recorder.
type Store struct {
	rdb *redis.Client
	db  *sqlx.DB
}

var _ game.Recorder = (*Store)(nil)

// New creates a store. Either client may be nil.
func New(rdb *redis.Client, db *sqlx.DB) *Store {
	return &Store{rdb: rdb, db: db}
}

func (s *Store) HasDatabase() bool {
	return s.db != nil
}

func (s *Store) HasRedis() bool {
	return s.rdb != nil
}

func SnapshotKey(room string) string {
	return fmt.Sprintf("room:%s:state", room)
}

type roomEvent struct {
	Type   string     `json:"type"`
	Room   string     `json:"room"`
	Phase  game.Phase `json:"phase,omitempty"`
	Score1 int        `json:"score1"`
	Score2 int        `json:"score2"`
	Winner int        `json:"winner,omitempty"`
	At     time.Time  `json:"at"`
}

// SaveSnapshot writes the session state under SnapshotKey with SnapshotTTL.
func (s *Store) SaveSnapshot(ctx context.Context, snap game.Snapshot) error {
	if s.rdb == nil {
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, SnapshotKey(snap.Room), data, SnapshotTTL).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.Room, err)
	}

	s.publish(ctx, roomEvent{
		Type:   "snapshot",
		Room:   snap.Room,
		Phase:  snap.Phase,
		Score1: snap.State.P1.Score,
		Score2: snap.State.P2.Score,
		At:     snap.UpdatedAt,
	})
	return nil
}

// LoadSnapshot reads a snapshot back. Nothing in the engine resumes from it;
// it exists for operators and tests.
func (s *Store) LoadSnapshot(ctx context.Context, room string) (*game.Snapshot, error) {
	if s.rdb == nil {
		return nil, ErrDisabled
	}

	data, err := s.rdb.Get(ctx, SnapshotKey(room)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", room, err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", room, err)
	}
	return &snap, nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, room string) error {
	if s.rdb == nil {
		return nil
	}

	if err := s.rdb.Del(ctx, SnapshotKey(room)).Err(); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", room, err)
	}
	s.publish(ctx, roomEvent{Type: "room_closed", Room: room, At: time.Now()})
	return nil
}

// RecordResult inserts a finished match into match_results.
func (s *Store) RecordResult(ctx context.Context, res game.MatchResult) error {
	if s.db == nil {
		return nil
	}

	row := toModel(res)
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO match_results (room, player1, player2, score1, score2, winner, started_at, finished_at)
		VALUES (:room, :player1, :player2, :score1, :score2, :winner, :started_at, :finished_at)
	`, row)
	if err != nil {
		return fmt.Errorf("insert match result for %s: %w", res.Room, err)
	}

	log.Printf("[STORE] recorded %s: %s %d - %d %s", res.Room, res.Player1, res.Score1, res.Score2, res.Player2)
	if s.rdb != nil {
		s.publish(ctx, roomEvent{
			Type:   "match_finished",
			Room:   res.Room,
			Phase:  game.PhaseFinished,
			Score1: res.Score1,
			Score2: res.Score2,
			Winner: res.Winner,
			At:     res.FinishedAt,
		})
	}
	return nil
}

// RecentResults returns the latest finished matches, newest first.
func (s *Store) RecentResults(ctx context.Context, limit int) ([]models.MatchResult, error) {
	if s.db == nil {
		return nil, ErrDisabled
	}

	results := []models.MatchResult{}
	err := s.db.SelectContext(ctx, &results, `
		SELECT id, room, player1, player2, score1, score2, winner, started_at, finished_at, created_at
		FROM match_results
		ORDER BY finished_at DESC
		LIMIT $1
	`, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("select match results: %w", err)
	}
	return results, nil
}

// ClampLimit maps a requested page size into [1, 200], defaulting to 20.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultResultsLimit
	case limit > maxResultsLimit:
		return maxResultsLimit
	}
	return limit
}

func (s *Store) publish(ctx context.Context, ev roomEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, EventsChannel, data).Err(); err != nil {
		log.Printf("[STORE] publish %s for %s failed: %v", ev.Type, ev.Room, err)
	}
}

func toModel(res game.MatchResult) models.MatchResult {
	row := models.MatchResult{
		Room:       res.Room,
		Player1:    res.Player1,
		Player2:    res.Player2,
		Score1:     res.Score1,
		Score2:     res.Score2,
		Winner:     res.Winner,
		FinishedAt: res.FinishedAt,
	}
	if !res.StartedAt.IsZero() {
		started := res.StartedAt
		row.StartedAt = &started
	}
	return row
}
