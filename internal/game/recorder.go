package game

import (
	"context"
	"time"
)

// Snapshot is a point-in-time copy of a session published for observers.
// Snapshots are never read back into a session.
type Snapshot struct {
	Room      string     `json:"room"`
	Phase     Phase      `json:"phase"`
	State     StateView  `json:"state"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MatchResult is written once when a session reaches the winning score.
type MatchResult struct {
	Room       string
	Player1    string
	Player2    string
	Score1     int
	Score2     int
	Winner     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Recorder receives session history. Calls are made off the session's lock
// and their errors never affect play.
type Recorder interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	DeleteSnapshot(ctx context.Context, room string) error
	RecordResult(ctx context.Context, res MatchResult) error
}
