package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ballAt places the ball so its contact point sits at (x, y).
func ballAt(env Environment, x, y float64, params Parameters) *Ball {
	b := &Ball{}
	b.serve(env, params)
	b.X = x - env.BallRadius
	b.Y = y + env.BallRadius
	return b
}

func TestEnvironmentDerivedPositions(t *testing.T) {
	env := DefaultEnvironment()

	assert.Equal(t, Vec2{X: 750, Y: 400}, env.TableCenter())
	assert.Equal(t, Vec2{X: 1465, Y: 325}, env.P1Home())
	assert.Equal(t, Vec2{X: 15, Y: 325}, env.P2Home())
	assert.Equal(t, Vec2{X: 740, Y: 390}, env.BallHome())
	assert.Equal(t, 650.0, env.MaxPaddleY())

	view := env.View()
	assert.EqualValues(t, 20, view.FrameRate)
	assert.Equal(t, env.P1Home(), view.P1Location)
	assert.Equal(t, env.P2Home(), view.P2Location)
}

func TestInitialSpeed(t *testing.T) {
	assert.InDelta(t, math.Sqrt(18), DefaultParameters().InitialSpeed(), 1e-9)
}

func TestPaddleCenterHitLeavesFlat(t *testing.T) {
	env, params := DefaultEnvironment(), DefaultParameters()
	p1 := env.P1Home()
	b := ballAt(env, p1.X+5, p1.Y+env.PaddleHeight/2, params)
	speed := b.Speed

	require.True(t, DetectCollision(env, b, p1.X, p1.Y))

	assert.Equal(t, 0.0, b.VY)
	assert.Equal(t, math.Ceil(-speed), b.VX, "right paddle sends the ball left")
	assert.InDelta(t, speed+SpeedIncrement, b.Speed, 1e-9)
}

func TestPaddleHitDirectionAwayFromCenter(t *testing.T) {
	env, params := DefaultEnvironment(), DefaultParameters()
	p2 := env.P2Home()
	b := ballAt(env, p2.X+5, p2.Y+env.PaddleHeight/2, params)
	b.VX = -3

	require.True(t, DetectCollision(env, b, p2.X, p2.Y))

	assert.Greater(t, b.VX, 0.0, "left paddle sends the ball right")
	// ceil rounds 4.24 up to 5.
	assert.Equal(t, 5.0, b.VX)
}

func TestPaddleHitAngleFollowsContactOffset(t *testing.T) {
	env, params := DefaultEnvironment(), DefaultParameters()
	p1 := env.P1Home()

	above := ballAt(env, p1.X+5, p1.Y+10, params)
	require.True(t, DetectCollision(env, above, p1.X, p1.Y))
	assert.Less(t, above.VY, 0.0, "upper half deflects toward y = 0")

	below := ballAt(env, p1.X+5, p1.Y+env.PaddleHeight-10, params)
	require.True(t, DetectCollision(env, below, p1.X, p1.Y))
	assert.Greater(t, below.VY, 0.0, "lower half deflects toward the bottom")

	assert.LessOrEqual(t, math.Abs(above.VY), math.Ceil(params.InitialSpeed()*math.Sin(math.Pi/4)))
}

func TestSpeedGrowsByOnePerPaddleHit(t *testing.T) {
	env, params := DefaultEnvironment(), DefaultParameters()
	p1 := env.P1Home()
	b := ballAt(env, p1.X+5, p1.Y+40, params)
	initial := b.Speed

	const hits = 25
	for i := 0; i < hits; i++ {
		b.X = p1.X + 5 - env.BallRadius
		b.Y = p1.Y + 40 + env.BallRadius
		require.True(t, DetectCollision(env, b, p1.X, p1.Y))
	}

	assert.InDelta(t, initial+hits, b.Speed, 1e-9)
}

func TestWallBounceInvertsVerticalOnly(t *testing.T) {
	env, params := DefaultEnvironment(), DefaultParameters()
	p1 := env.P1Home()

	tests := []struct {
		name     string
		contactY float64
	}{
		{name: "top wall", contactY: 0},
		{name: "beyond top wall", contactY: -2},
		{name: "bottom wall", contactY: env.TableHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ballAt(env, 700, tt.contactY, params)
			b.VX, b.VY = 4, 3
			speed := b.Speed

			require.True(t, DetectCollision(env, b, p1.X, p1.Y))
			assert.Equal(t, 4.0, b.VX)
			assert.Equal(t, -3.0, b.VY)
			assert.Equal(t, speed, b.Speed)
		})
	}
}

func TestPaddleTakesPrecedenceOverWall(t *testing.T) {
	env, params := DefaultEnvironment(), DefaultParameters()
	b := ballAt(env, 1470, 0, params)
	speed := b.Speed

	require.True(t, DetectCollision(env, b, 1465, 0))
	assert.InDelta(t, speed+SpeedIncrement, b.Speed, 1e-9)
}

func TestNoCollisionLeavesBallUntouched(t *testing.T) {
	env, params := DefaultEnvironment(), DefaultParameters()
	b := &Ball{}
	b.serve(env, params)
	before := *b

	p1 := env.P1Home()
	assert.False(t, DetectCollision(env, b, p1.X, p1.Y))
	assert.Equal(t, before, *b)
}
