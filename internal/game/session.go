package game

import (
	"context"
	"log"
	"sync"
	"time"
)

const recordTimeout = 5 * time.Second

// Session is one room's authoritative game: the ball, both players, the
// phase and the simulation timer. All state is guarded by mu; the ticker
// goroutine, intent handlers and deferred callbacks each take it for the
// whole of their work, and every broadcast is issued while it is held so
// room members see events in mutation order.
type Session struct {
	room   string
	env    Environment
	params Parameters
	out    Broadcaster
	rec    Recorder
	writes *sync.WaitGroup // optional; tracks in-flight recorder calls

	mu        sync.Mutex
	phase     Phase
	ball      Ball
	p1        Player
	p2        Player
	stop      chan struct{} // non-nil while the ticker goroutine runs
	gen       uint64        // bumped on finish and teardown; stale callbacks compare against it
	createdAt time.Time
	startedAt *time.Time
}

func newSession(room string, env Environment, params Parameters, out Broadcaster, rec Recorder) *Session {
	s := &Session{
		room:      room,
		env:       env,
		params:    params,
		out:       out,
		rec:       rec,
		phase:     PhaseWaiting,
		createdAt: time.Now(),
	}
	s.ball.serve(env, params)

	home1, home2 := env.P1Home(), env.P2Home()
	s.p1 = Player{X: home1.X, Y: home1.Y}
	s.p2 = Player{X: home2.X, Y: home2.Y}
	return s
}

func (s *Session) Room() string {
	return s.room
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// State returns a copy of the current game state.
func (s *Session) State() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Room:      s.room,
		Phase:     s.phase,
		Player1:   s.p1.Name,
		Player2:   s.p2.Name,
		Score1:    s.p1.Score,
		Score2:    s.p2.Score,
		CreatedAt: s.createdAt,
		StartedAt: s.startedAt,
	}
}

func (s *Session) viewLocked() StateView {
	return StateView{Ball: s.ball, P1: s.p1, P2: s.p2}
}

func (s *Session) player(slot int) *Player {
	switch slot {
	case 1:
		return &s.p1
	case 2:
		return &s.p2
	}
	return nil
}

// join seats name in the first free slot and announces the new state. The
// joiner is told its slot; everybody else in the room gets a state refresh.
// Seating the second player starts the countdown to the first tick.
func (s *Session) join(connID, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var slot int
	switch {
	case s.phase == PhaseClosed:
		return 0, ErrUnknownRoom
	case s.p1.Name == "":
		s.p1.Name = name
		slot = 1
	case s.p2.Name == "":
		s.p2.Name = name
		slot = 2
	default:
		return 0, ErrRoomFull
	}

	s.out.Join(connID, s.room)

	env, state := s.env.View(), s.viewLocked()
	s.out.Send(connID, EventGameData, GameData{PlayerNumber: slot, GameEnv: env, GameState: state})
	s.out.BroadcastExcept(s.room, connID, EventGameData, GameData{GameEnv: env, GameState: state})

	log.Printf("[ROOM] %s joined room %s as player %d", name, s.room, slot)

	if slot == 2 {
		s.phase = PhaseStarting
		s.out.Broadcast(s.room, EventStartGame, StartGame{})
		gen := s.gen
		time.AfterFunc(s.params.StartDelay, func() { s.launch(gen) })
	}
	return slot, nil
}

// launch starts the simulation ticker once the start delay has elapsed.
func (s *Session) launch(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || s.phase != PhaseStarting {
		return
	}

	now := time.Now()
	s.startedAt = &now
	s.phase = PhaseRunning
	s.stop = make(chan struct{})
	go s.loop(time.NewTicker(s.env.FrameInterval), s.stop)

	log.Printf("[ROOM] room %s started (%s vs %s)", s.room, s.p1.Name, s.p2.Name)
	s.snapshotLocked()
}

func (s *Session) loop(ticker *time.Ticker, stop <-chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

func (s *Session) stopLoopLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// Tick advances the simulation by one frame: move the ball, bounce it, then
// check for a point and for a winner. Nothing happens while either player
// is paused or outside the running phases.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRunning && s.phase != PhaseRoundBreak {
		return
	}
	if s.p1.Paused || s.p2.Paused {
		return
	}

	s.moveBallLocked()
	s.collideLocked()
	s.scoreLocked()
	s.winnerLocked()
}

func (s *Session) moveBallLocked() {
	s.ball.advance()
	s.out.Broadcast(s.room, EventLocationUpdate, LocationUpdate{
		PlayerNumber: ObjectBall,
		NewLocation:  s.ball.Position(),
	})
}

// collideLocked tests the ball against the paddle on its half of the table.
func (s *Session) collideLocked() {
	paddle := &s.p1
	if s.ball.X < s.env.TableCenter().X {
		paddle = &s.p2
	}
	if DetectCollision(s.env, &s.ball, paddle.X, paddle.Y) {
		s.out.Broadcast(s.room, EventCollision, Collision{})
	}
}

// scoreLocked awards a point once the ball is fully past a goal line. The
// ball leaving on the left is player 1's point, on the right player 2's.
func (s *Session) scoreLocked() {
	p1Scored := s.ball.X < 0
	p2Scored := s.ball.X+2*s.env.BallRadius > s.env.TableWidth
	if !p1Scored && !p2Scored {
		return
	}

	if p1Scored {
		s.p1.Score++
	}
	if p2Scored {
		s.p2.Score++
	}
	s.out.Broadcast(s.room, EventScoreUpdate, ScoreUpdate{S1: s.p1.Score, S2: s.p2.Score})
	log.Printf("[ROOM] room %s score %d-%d", s.room, s.p1.Score, s.p2.Score)

	s.phase = PhaseRoundBreak
	s.p1.Paused = true
	gen := s.gen
	time.AfterFunc(s.params.RoundBreak, func() { s.resume(gen) })

	s.snapshotLocked()
}

// resume ends a round break: players unfrozen, ball re-served, paddles home.
func (s *Session) resume(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || s.phase != PhaseRoundBreak {
		return
	}

	s.p1.Paused = false
	s.phase = PhaseRunning

	s.ball.serve(s.env, s.params)
	s.p1.Y = s.env.P1Home().Y
	s.p2.Y = s.env.P2Home().Y

	s.out.Broadcast(s.room, EventLocationUpdate, LocationUpdate{PlayerNumber: ObjectBall, NewLocation: s.ball.Position()})
	s.out.Broadcast(s.room, EventLocationUpdate, LocationUpdate{PlayerNumber: ObjectPlayer1, NewLocation: s.p1.Position()})
	s.out.Broadcast(s.room, EventLocationUpdate, LocationUpdate{PlayerNumber: ObjectPlayer2, NewLocation: s.p2.Position()})
}

// winnerLocked finishes the game when a player reaches the winning score.
// The session stays registered until a player disconnects.
func (s *Session) winnerLocked() {
	var winner int
	switch {
	case s.p1.Score == s.params.WinningScore:
		winner = 1
	case s.p2.Score == s.params.WinningScore:
		winner = 2
	default:
		return
	}

	s.out.Broadcast(s.room, EventWinnerUpdate, WinnerUpdate{WinnerNumber: winner})
	s.p1.Paused = true
	s.phase = PhaseFinished
	s.gen++
	s.stopLoopLocked()

	log.Printf("[ROOM] room %s finished, player %d wins %d-%d", s.room, winner, s.p1.Score, s.p2.Score)

	res := MatchResult{
		Room:       s.room,
		Player1:    s.p1.Name,
		Player2:    s.p2.Name,
		Score1:     s.p1.Score,
		Score2:     s.p2.Score,
		Winner:     winner,
		FinishedAt: time.Now(),
	}
	if s.startedAt != nil {
		res.StartedAt = *s.startedAt
	}
	s.record("record result", func(ctx context.Context) error { return s.rec.RecordResult(ctx, res) })
	s.snapshotLocked()
}

// MovePlayer moves a paddle by one step. Direction 1 moves toward y = 0 and
// -1 toward the bottom of the table; the result is clamped to the table and
// broadcast even when the paddle did not move.
func (s *Session) MovePlayer(slot, direction int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed {
		return ErrUnknownRoom
	}
	p := s.player(slot)
	if p == nil {
		return ErrInvalidRequest
	}

	switch direction {
	case 1:
		p.Y = clamp(p.Y-s.params.PlayerSpeed, 0, s.env.MaxPaddleY())
	case -1:
		p.Y = clamp(p.Y+s.params.PlayerSpeed, 0, s.env.MaxPaddleY())
	}

	s.out.Broadcast(s.room, EventLocationUpdate, LocationUpdate{PlayerNumber: slot, NewLocation: p.Position()})
	return nil
}

// TogglePause flips a player's paused flag and tells the room. The flag is
// the same one the round break sets on player 1, so a manual toggle during
// a break releases the freeze early.
func (s *Session) TogglePause(slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed {
		return ErrUnknownRoom
	}
	p := s.player(slot)
	if p == nil {
		return ErrInvalidRequest
	}

	p.Paused = !p.Paused
	s.out.Broadcast(s.room, EventInterrupt, Interrupt{Code: slot})
	return nil
}

// teardown stops the timer, invalidates pending callbacks, interrupts the
// remaining members and dissolves the room's broadcast group.
func (s *Session) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed {
		return
	}
	s.stopLoopLocked()
	s.gen++
	s.phase = PhaseClosed

	s.out.Broadcast(s.room, EventInterrupt, Interrupt{Code: InterruptDisconnect})
	s.out.CloseRoom(s.room)

	log.Printf("[ROOM] room %s torn down", s.room)

	room := s.room
	s.record("delete snapshot", func(ctx context.Context) error { return s.rec.DeleteSnapshot(ctx, room) })
}

func (s *Session) snapshotLocked() {
	snap := Snapshot{
		Room:      s.room,
		Phase:     s.phase,
		State:     s.viewLocked(),
		StartedAt: s.startedAt,
		UpdatedAt: time.Now(),
	}
	s.record("save snapshot", func(ctx context.Context) error { return s.rec.SaveSnapshot(ctx, snap) })
}

// record runs fn against the recorder in the background.
func (s *Session) record(what string, fn func(ctx context.Context) error) {
	if s.rec == nil {
		return
	}
	if s.writes != nil {
		s.writes.Add(1)
	}
	go func() {
		if s.writes != nil {
			defer s.writes.Done()
		}
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("[ROOM] %s for room %s failed: %v", what, s.room, err)
		}
	}()
}
