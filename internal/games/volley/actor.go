package volley

import (
	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
)

// Controller is the only writer of actor kinematics. It turns an intent into
// velocity, integrates, lands and clamps the actor to its half of the court.
type Controller struct {
	court   Court
	body    config.ActorConfig
	gravity float64
}

// NewController creates a controller for the given court.
func NewController(court Court, body config.ActorConfig, gravity float64) *Controller {
	return &Controller{court: court, body: body, gravity: gravity}
}

// Apply advances one actor by one tick. Jump and strike requests made while the
// cooldown is running are ignored.
func (c *Controller) Apply(a *Actor, in core.Intent, dt float64) {
	if a.Cooldown > 0 {
		a.Cooldown--
	}
	if a.Striking > 0 {
		a.Striking--
	}

	if (in.Jump || in.Block) && a.Grounded && a.Cooldown == 0 {
		a.Vel.Y = -c.body.JumpSpeed
		a.Grounded = false
		a.Blocking = in.Block
		a.Cooldown = c.body.JumpCooldown
	}
	if in.Strike && a.Striking == 0 && a.Cooldown == 0 {
		a.Striking = c.body.StrikeTicks
		a.Cooldown = c.body.StrikeCooldown
	}

	dir := float64(in.Dir())
	if a.Grounded {
		a.Vel.X = dir * c.body.RunSpeed
	} else if dir != 0 {
		a.Vel.X = dir * c.body.RunSpeed * c.body.AirControl
	}

	if a.Grounded {
		a.Pos.X += a.Vel.X * dt
	} else {
		Integrate(&a.Pos, &a.Vel, c.gravity, dt)
		if a.Pos.Y >= c.court.GroundY {
			c.land(a)
		}
	}

	c.clampToHalf(a)
	a.State = c.stateOf(a)
}

func (c *Controller) land(a *Actor) {
	a.Pos.Y = c.court.GroundY
	a.Vel = core.Vec2{}
	a.Grounded = true
	a.Blocking = false
	a.Cooldown = 0
	a.Striking = 0
}

func (c *Controller) clampToHalf(a *Actor) {
	lo, hi := c.Bounds(a.Side)
	if a.Pos.X < lo {
		a.Pos.X = lo
		if a.Vel.X < 0 {
			a.Vel.X = 0
		}
	} else if a.Pos.X > hi {
		a.Pos.X = hi
		if a.Vel.X > 0 {
			a.Vel.X = 0
		}
	}
}

// Bounds returns the range of x positions an actor of the given side may occupy.
func (c *Controller) Bounds(s Side) (lo, hi float64) {
	half := c.body.Width / 2
	if s == SideB {
		return c.court.Net.Right() + half, c.court.Right - half
	}
	return c.court.Left + half, c.court.Net.X - half
}

func (c *Controller) stateOf(a *Actor) ActionState {
	switch {
	case a.Striking > 0:
		return StateStriking
	case !a.Grounded:
		return StateAirborne
	case a.Vel.X != 0:
		return StateMoving
	default:
		return StateIdle
	}
}
