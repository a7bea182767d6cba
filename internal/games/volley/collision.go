package volley

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
)

// netEpsilon keeps a pushed-out ball strictly clear of the net.
const netEpsilon = 0.01

// Resolver turns overlapping geometry into bounces and emits events. It decides
// physical responses only; scoring belongs to the Machine.
type Resolver struct {
	court      Court
	phys       config.PhysicsConfig
	hit        config.HitConfig
	body       config.ActorConfig
	touchLimit int
	rng        *rand.Rand
	contacts   *contactTracker
}

// NewResolver creates a resolver for the given court and configuration.
func NewResolver(court Court, cfg config.VolleyConfig, rng *rand.Rand) *Resolver {
	return &Resolver{
		court:      court,
		phys:       cfg.Physics,
		hit:        cfg.Hit,
		body:       cfg.Actor,
		touchLimit: cfg.Rules.TouchLimit,
		rng:        rng,
		contacts:   newContactTracker(),
	}
}

// Resolve checks the ball against actors, net, floor and walls in that priority
// order. Once a terminal event is produced the ball is dead and the remaining
// checks are skipped, so one tick can never decide a rally twice.
func (r *Resolver) Resolve(ball *Ball, actors []Actor, dt float64) []Event {
	if !ball.InPlay {
		return nil
	}

	// Contacts replace the velocity, so the net needs the incoming one
	incoming := ball.Vel
	events := r.resolveActors(ball, actors)
	for _, ev := range events {
		if ev.Terminal() {
			return events
		}
	}

	if ev, ok := r.resolveNet(ball, incoming, dt); ok {
		events = append(events, ev)
	}
	if ev, ok := r.resolveFloor(ball); ok {
		events = append(events, ev)
		if ev.Terminal() {
			return events
		}
	}
	if ev, ok := r.resolveWalls(ball); ok {
		events = append(events, ev)
	}
	return events
}

// Hold marks an actor as already in contact, so a ball spawned inside its reach
// (the serve toss) does not count as a touch until they separate.
func (r *Resolver) Hold(id ActorID) {
	r.contacts.begin(id)
}

// Reset forgets all tracked contacts. Called between rallies.
func (r *Resolver) Reset() {
	r.contacts.reset()
}

// ReachBox returns the region in which an actor can play the ball. It sits
// in front of the head toward the net and grows while striking or blocking.
func ReachBox(a *Actor, body config.ActorConfig) core.Box {
	scale := 1.0
	if a.State == StateStriking {
		scale = body.StrikeReachScale
	}
	up := body.ReachUp * scale
	if a.Blocking && !a.Grounded {
		up = math.Max(up, body.BlockReachUp)
	}
	w := body.ReachWidth * scale
	cx := a.Pos.X + a.Side.Facing()*body.ReachOffset*scale
	top := a.Pos.Y - body.Height - up
	bottom := a.Pos.Y - body.Height*0.4
	return core.NewBox(cx-w/2, top, w, bottom-top)
}

// BodyBox returns the actor's body rectangle.
func BodyBox(a *Actor, body config.ActorConfig) core.Box {
	return core.NewBox(a.Pos.X-body.Width/2, a.Pos.Y-body.Height, body.Width, body.Height)
}

func (r *Resolver) resolveActors(ball *Ball, actors []Actor) []Event {
	best := -1
	bestDist := math.Inf(1)

	for i := range actors {
		a := &actors[i]
		if !ReachBox(a, r.body).IntersectsCircle(ball.Pos, ball.Radius) {
			r.contacts.end(a.ID)
			continue
		}
		// Every new overlap is tracked, so actors beaten to the ball by a
		// nearer one wait until it leaves their reach
		if !r.contacts.begin(a.ID) {
			continue // still touching from an earlier tick
		}
		d := math.Abs(ball.Pos.X - a.Pos.X)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return nil
	}

	a := &actors[best]
	contact := Event{
		Kind:     EventActorContact,
		Side:     a.Side,
		Actor:    a.ID,
		Power:    a.State == StateStriking,
		Airborne: !a.Grounded,
		Pos:      ball.Pos,
	}

	if ball.LastContactSide == a.Side {
		ball.Touches++
	} else {
		ball.LastContactSide = a.Side
		ball.Touches = 1
	}
	ball.LastToucher = a.ID

	if ball.Touches > r.touchLimit {
		ball.InPlay = false
		return []Event{contact, {
			Kind:  EventTouchViolation,
			Side:  a.Side,
			Actor: a.ID,
			Pos:   ball.Pos,
		}}
	}

	r.playBall(ball, a)
	return []Event{contact}
}

// playBall sets the outgoing velocity for a legal contact. The ball heads toward
// the opposing side; the closer the actor is to the net the flatter and harder
// the shot, the farther the higher the arc.
func (r *Resolver) playBall(ball *Ball, a *Actor) {
	h := r.hit
	distNorm := core.ClampF(math.Abs(a.Pos.X-r.court.NetX())/r.court.HalfWidth(), 0, 1)

	var power, elev float64
	striking := a.State == StateStriking
	switch {
	case a.Blocking && !a.Grounded:
		power, elev = h.BlockPower, h.BlockElevation
	case striking && !a.Grounded:
		power = h.StrikePower * h.AirMultiplier
		elev = core.Lerp(h.AirElevationMin, h.AirElevationMax, distNorm)
	case striking:
		power = h.StrikePower
		elev = core.Lerp(h.StrikeElevationMin, h.StrikeElevationMax, distNorm)
	default:
		power = h.PassPower
		elev = core.Lerp(h.PassElevationMin, h.PassElevationMax, distNorm)
	}
	if striking {
		power *= 1 + h.NearNetBonus*(1-distNorm)
	}

	elev += (r.rng.Float64()*2 - 1) * h.AngleVariance
	power *= 1 + (r.rng.Float64()*2-1)*h.PowerVariance

	rad := elev * math.Pi / 180
	ball.Vel = core.V(a.Side.Facing()*math.Cos(rad)*power, -math.Sin(rad)*power)
	ClampSpeed(&ball.Vel, r.phys.MaxBallSpeed)
}

// resolveNet judges the approach side from vin, the velocity the ball had
// before any contact this tick.
func (r *Resolver) resolveNet(ball *Ball, vin core.Vec2, dt float64) (Event, bool) {
	net := r.court.Net
	cx := net.CenterX()
	prevX := ball.Pos.X - vin.X*dt

	// A fast ball can skip across the net between ticks; catch the crossing too
	crossed := (prevX < cx) != (ball.Pos.X < cx) && ball.Pos.Y+ball.Radius > net.Y
	if !crossed && !net.IntersectsCircle(ball.Pos, ball.Radius) {
		return Event{}, false
	}

	fromLeft := prevX < cx
	if prevX == cx {
		fromLeft = vin.X > 0 || (vin.X == 0 && ball.Pos.X < cx)
	}

	// Tape hit from above: pop the ball back up
	if ball.Pos.Y < net.Y && ball.Vel.Y > 0 {
		ball.Vel.Y = -ball.Vel.Y * r.phys.NetDamping
	}

	side := SideB
	if fromLeft {
		side = SideA
		ball.Pos.X = net.X - ball.Radius - netEpsilon
		ball.Vel.X = math.Min(-math.Abs(ball.Vel.X)*r.phys.NetDamping, -r.phys.NetPushBack)
	} else {
		ball.Pos.X = net.Right() + ball.Radius + netEpsilon
		ball.Vel.X = math.Max(math.Abs(ball.Vel.X)*r.phys.NetDamping, r.phys.NetPushBack)
	}

	return Event{Kind: EventNetContact, Side: side, Actor: NoActor, Pos: ball.Pos}, true
}

func (r *Resolver) resolveFloor(ball *Ball) (Event, bool) {
	if ball.Pos.Y+ball.Radius <= r.court.GroundY {
		return Event{}, false
	}

	ball.Pos.Y = r.court.GroundY - ball.Radius
	ball.Vel.X *= r.phys.FloorFriction
	bounce := math.Abs(ball.Vel.Y) * r.phys.FloorRestitution
	ev := Event{Kind: EventFloorContact, Side: r.court.SideOf(ball.Pos.X), Actor: NoActor, Pos: ball.Pos}

	if bounce < r.phys.RestSpeed {
		ball.Vel = core.Vec2{}
		ball.InPlay = false
		ev.Final = true
		return ev, true
	}

	ball.Vel.Y = -bounce
	return ev, true
}

func (r *Resolver) resolveWalls(ball *Ball) (Event, bool) {
	left := r.court.Left - r.court.OutMargin
	right := r.court.Right + r.court.OutMargin

	switch {
	case ball.Pos.X < left:
		ball.Pos.X = left
		ball.InPlay = false
		return Event{Kind: EventOutOfBounds, Side: SideA, Actor: NoActor, Pos: ball.Pos}, true
	case ball.Pos.X > right:
		ball.Pos.X = right
		ball.InPlay = false
		return Event{Kind: EventOutOfBounds, Side: SideB, Actor: NoActor, Pos: ball.Pos}, true
	}

	if ball.Pos.Y-ball.Radius < r.court.Ceiling {
		ball.Pos.Y = r.court.Ceiling + ball.Radius
		ball.Vel.Y = math.Abs(ball.Vel.Y) * r.phys.WallRestitution
		return Event{Kind: EventWallContact, Side: r.court.SideOf(ball.Pos.X), Actor: NoActor, Pos: ball.Pos}, true
	}
	return Event{}, false
}
