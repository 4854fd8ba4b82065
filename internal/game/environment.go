package game

import "time"

// Environment describes the table geometry. One value is built at process
// start and shared read-only by every session.
type Environment struct {
	FrameInterval time.Duration
	TableWidth    float64
	TableHeight   float64
	PaddleWidth   float64
	PaddleHeight  float64
	BallRadius    float64
	Margin        float64
}

// DefaultEnvironment returns the geometry the browser client is drawn for.
func DefaultEnvironment() Environment {
	return Environment{
		FrameInterval: 20 * time.Millisecond,
		TableWidth:    1500,
		TableHeight:   800,
		PaddleWidth:   20,
		PaddleHeight:  150,
		BallRadius:    10,
		Margin:        15,
	}
}

func (e Environment) TableCenter() Vec2 {
	return Vec2{X: e.TableWidth / 2, Y: e.TableHeight / 2}
}

// P1Home is where player 1's paddle starts: the right-hand side of the table.
func (e Environment) P1Home() Vec2 {
	return Vec2{
		X: e.TableWidth - e.Margin - e.PaddleWidth,
		Y: (e.TableHeight - e.PaddleHeight) / 2,
	}
}

// P2Home is where player 2's paddle starts: the left-hand side of the table.
func (e Environment) P2Home() Vec2 {
	return Vec2{
		X: e.Margin,
		Y: (e.TableHeight - e.PaddleHeight) / 2,
	}
}

// BallHome is the ball's position at the start of every round.
func (e Environment) BallHome() Vec2 {
	c := e.TableCenter()
	return Vec2{X: c.X - e.BallRadius, Y: c.Y - e.BallRadius}
}

// MaxPaddleY is the largest y a paddle may reach without leaving the table.
func (e Environment) MaxPaddleY() float64 {
	return e.TableHeight - e.PaddleHeight
}

// EnvironmentView is the gameEnv payload sent to clients.
type EnvironmentView struct {
	FrameRate    int64   `json:"frameRate"`
	TableHeight  float64 `json:"tableHeight"`
	TableWidth   float64 `json:"tableWidth"`
	PaddleHeight float64 `json:"paddleHeight"`
	PaddleWidth  float64 `json:"paddleWidth"`
	BallRadius   float64 `json:"ballRadius"`
	Margin       float64 `json:"margin"`
	TableCenter  Vec2    `json:"tableCenter"`
	P1Location   Vec2    `json:"p1Location"`
	P2Location   Vec2    `json:"p2Location"`
}

func (e Environment) View() EnvironmentView {
	return EnvironmentView{
		FrameRate:    e.FrameInterval.Milliseconds(),
		TableHeight:  e.TableHeight,
		TableWidth:   e.TableWidth,
		PaddleHeight: e.PaddleHeight,
		PaddleWidth:  e.PaddleWidth,
		BallRadius:   e.BallRadius,
		Margin:       e.Margin,
		TableCenter:  e.TableCenter(),
		P1Location:   e.P1Home(),
		P2Location:   e.P2Home(),
	}
}

// Parameters are the server-only rules of the game.
type Parameters struct {
	RoundBreak   time.Duration // freeze after a point before the ball is re-served
	StartDelay   time.Duration // gap between startGame and the first tick
	PlayerSpeed  float64       // paddle travel per movePlayer intent
	WinningScore int
	BallVelocity Vec2 // serve velocity
}

func DefaultParameters() Parameters {
	return Parameters{
		RoundBreak:   3 * time.Second,
		StartDelay:   3 * time.Second,
		PlayerSpeed:  5,
		WinningScore: 5,
		BallVelocity: Vec2{X: 3, Y: 3},
	}
}

// InitialSpeed is the scalar speed of a freshly served ball.
func (p Parameters) InitialSpeed() float64 {
	return p.BallVelocity.Magnitude()
}
