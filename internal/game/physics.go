package game

import "math"

// SpeedIncrement is added to the ball's scalar speed on every paddle hit.
const SpeedIncrement = 1.0

// Ball is the authoritative ball state of one session. Only the owning
// session's tick mutates it.
type Ball struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Speed float64 `json:"speed"`
}

func (b *Ball) Position() Vec2 {
	return Vec2{X: b.X, Y: b.Y}
}

func (b *Ball) advance() {
	b.X += b.VX
	b.Y += b.VY
}

// serve puts the ball back at the table center with the serve velocity.
func (b *Ball) serve(env Environment, params Parameters) {
	home := env.BallHome()
	b.X, b.Y = home.X, home.Y
	b.VX, b.VY = params.BallVelocity.X, params.BallVelocity.Y
	b.Speed = params.InitialSpeed()
}

// paddleRect is a paddle's bounding box, bounds inclusive.
type paddleRect struct {
	left, right, top, bottom float64
}

func (env Environment) paddleAt(x, y float64) paddleRect {
	return paddleRect{
		left:   x,
		right:  x + env.PaddleWidth,
		top:    y,
		bottom: y + env.PaddleHeight,
	}
}

func (r paddleRect) contains(p Vec2) bool {
	return between(p.X, r.left, r.right) && between(p.Y, r.top, r.bottom)
}

// contactPoint is the point of the ball tested against paddles and walls.
func (env Environment) contactPoint(b *Ball) Vec2 {
	return Vec2{X: b.X + env.BallRadius, Y: b.Y - env.BallRadius}
}

// DetectCollision tests the ball against the paddle whose top-left corner is
// (paddleX, paddleY) and, failing that, against the top and bottom walls.
// On a hit the ball's velocity (and for paddles its speed) is changed in
// place and true is returned.
//
// Paddle bounces leave at up to 45 degrees depending on how far from the
// paddle's center the ball struck, always heading away from the table center.
// Both velocity components are rounded up, so rallies speed up slightly
// faster than the speed increment alone would suggest.
func DetectCollision(env Environment, b *Ball, paddleX, paddleY float64) bool {
	paddle := env.paddleAt(paddleX, paddleY)
	p := env.contactPoint(b)

	if paddle.contains(p) {
		half := env.PaddleHeight / 2
		offset := (p.Y - (paddle.top + half)) / half
		angle := offset * math.Pi / 4

		direction := -1.0
		if b.X < env.TableCenter().X {
			direction = 1
		}

		b.VX = math.Ceil(direction * b.Speed * math.Cos(angle))
		b.VY = math.Ceil(b.Speed * math.Sin(angle))
		b.Speed += SpeedIncrement
		return true
	}

	if p.Y <= 0 || p.Y >= env.TableHeight {
		b.VY = -b.VY
		return true
	}

	return false
}
