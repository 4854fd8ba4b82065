package game

import "time"

// Phase is where a session is in its lifecycle.
type Phase string

const (
	PhaseWaiting    Phase = "WAITING"     // fewer than two players
	PhaseStarting   Phase = "STARTING"    // second player seated, start delay pending
	PhaseRunning    Phase = "RUNNING"     // simulation ticking
	PhaseRoundBreak Phase = "ROUND_BREAK" // point scored, ball frozen until reset
	PhaseFinished   Phase = "FINISHED"    // winning score reached, timer stopped
	PhaseClosed     Phase = "CLOSED"      // torn down, no longer in the registry
)

// Player is one seat in a session.
type Player struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Score  int     `json:"score"`
	Paused bool    `json:"paused"`
}

func (p *Player) Position() Vec2 {
	return Vec2{X: p.X, Y: p.Y}
}

// StateView is a copy of a session's game state, used for the gameState
// payload and for snapshots.
type StateView struct {
	Ball Ball   `json:"ball"`
	P1   Player `json:"p1"`
	P2   Player `json:"p2"`
}

// Summary describes a session for listings.
type Summary struct {
	Room      string     `json:"room"`
	Phase     Phase      `json:"phase"`
	Player1   string     `json:"player1"`
	Player2   string     `json:"player2"`
	Score1    int        `json:"score1"`
	Score2    int        `json:"score2"`
	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}
