package volley

import (
	"math"

	"github.com/vovakirdan/tui-volley/internal/core"
)

// Integrate applies gravity then advances position by one step (semi-implicit Euler):
// vy += g*dt, then pos += vel*dt.
func Integrate(pos, vel *core.Vec2, g, dt float64) {
	vel.Y += g * dt
	pos.X += vel.X * dt
	pos.Y += vel.Y * dt
}

// ClampSpeed rescales vel uniformly when its magnitude exceeds max, preserving direction.
func ClampSpeed(vel *core.Vec2, max float64) {
	speed := math.Hypot(vel.X, vel.Y)
	if speed <= max || speed == 0 {
		return
	}
	k := max / speed
	vel.X *= k
	vel.Y *= k
}

// Integrate advances the ball one step under gravity.
func (b *Ball) Integrate(g, dt float64) {
	Integrate(&b.Pos, &b.Vel, g, dt)
}

// PredictLanding returns the x where the ball center reaches landY (ground minus
// radius) on a purely ballistic path, and the time until then. It solves
// y + vy*t + g*t²/2 = landY for the positive root. ok is false when the ball never
// reaches landY (no gravity and not descending).
func PredictLanding(pos, vel core.Vec2, g, landY float64) (x, t float64, ok bool) {
	dy := pos.Y - landY
	if g == 0 {
		if vel.Y <= 0 {
			return 0, 0, false
		}
		t = -dy / vel.Y
		return pos.X + vel.X*t, t, true
	}

	a := 0.5 * g
	disc := vel.Y*vel.Y - 4*a*dy
	if disc < 0 {
		return 0, 0, false
	}
	t = (-vel.Y + math.Sqrt(disc)) / (2 * a)
	if t < 0 {
		t = 0
	}
	return pos.X + vel.X*t, t, true
}
