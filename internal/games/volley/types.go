// Package volley implements a fixed-tick volleyball simulation: ball physics,
// collision resolution, actor control, CPU heuristics and the rally/match state
// machine. The package is pure: no I/O, no goroutines, randomness only through
// the injected seeded source.
package volley

import (
	"fmt"

	"github.com/vovakirdan/tui-volley/internal/core"
)

// Side identifies a team. SideA plays the left half of the court.
type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

// Opponent returns the other team.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

// Facing returns the horizontal direction toward the net: +1 for A, -1 for B.
func (s Side) Facing() float64 {
	if s == SideB {
		return -1
	}
	return 1
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return "-"
	}
}

// Role tags an actor's CPU behavior. One policy function dispatches on it.
type Role int

const (
	RoleSetter Role = iota
	RoleAttacker
	RoleBlocker
	RoleServer
	RoleLibero
)

func (r Role) String() string {
	switch r {
	case RoleSetter:
		return "setter"
	case RoleAttacker:
		return "attacker"
	case RoleBlocker:
		return "blocker"
	case RoleServer:
		return "server"
	case RoleLibero:
		return "libero"
	default:
		return "unknown"
	}
}

// ParseRole converts a config role name into a Role.
func ParseRole(s string) (Role, error) {
	for r := RoleSetter; r <= RoleLibero; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("volley: unknown role %q", s)
}

// ActionState is the per-actor movement state. Every actor is in exactly one.
type ActionState int

const (
	StateIdle ActionState = iota
	StateMoving
	StateAirborne
	StateStriking
)

func (s ActionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateAirborne:
		return "airborne"
	case StateStriking:
		return "striking"
	default:
		return "unknown"
	}
}

// ActorID is an index into the simulation's actor list.
type ActorID int

// NoActor marks the absence of a toucher.
const NoActor ActorID = -1

// Ball is the single ball of a rally.
type Ball struct {
	Pos             core.Vec2
	Vel             core.Vec2
	Radius          float64
	InPlay          bool
	LastContactSide Side
	Touches         int // Consecutive touches by LastContactSide
	LastToucher     ActorID
}

// Actor is a player, human or CPU controlled. Pos is the bottom-center of the body
// (feet), so a grounded actor has Pos.Y == Court.GroundY.
type Actor struct {
	ID       ActorID
	Side     Side
	Role     Role
	Human    bool
	Pos      core.Vec2
	Vel      core.Vec2
	Grounded bool
	State    ActionState
	Cooldown int  // Ticks before jump/strike may trigger again
	Striking int  // Remaining ticks of the strike window
	Blocking bool // Jumped with block intent; reach extends upward
	Home     float64
}

// Court is the static geometry of the arena.
type Court struct {
	Left, Right float64
	GroundY     float64
	Ceiling     float64
	OutMargin   float64
	Net         core.Box
}

// NetX returns the x-coordinate of the net center.
func (c Court) NetX() float64 {
	return c.Net.CenterX()
}

// SideOf returns which half of the court x falls on.
func (c Court) SideOf(x float64) Side {
	if x < c.NetX() {
		return SideA
	}
	return SideB
}

// HalfWidth returns the width of one team's half.
func (c Court) HalfWidth() float64 {
	return (c.Right - c.Left) / 2
}

// EventKind classifies a collision event.
type EventKind int

const (
	EventActorContact EventKind = iota
	EventNetContact
	EventFloorContact
	EventWallContact
	EventOutOfBounds
	EventTouchViolation
)

func (k EventKind) String() string {
	switch k {
	case EventActorContact:
		return "actor"
	case EventNetContact:
		return "net"
	case EventFloorContact:
		return "floor"
	case EventWallContact:
		return "wall"
	case EventOutOfBounds:
		return "out"
	case EventTouchViolation:
		return "touch-limit"
	default:
		return "unknown"
	}
}

// Event is emitted by the collision resolver and consumed by the rally machine.
type Event struct {
	Kind     EventKind
	Side     Side    // Floor side, exit side, toucher side or violator side
	Actor    ActorID // Set for actor contacts and violations
	Final    bool    // FloorContact only: the ball is dead
	Power    bool    // ActorContact only: strike attempted
	Airborne bool    // ActorContact only
	Pos      core.Vec2
}

// Terminal reports whether the event ends the rally.
func (e Event) Terminal() bool {
	switch e.Kind {
	case EventTouchViolation, EventOutOfBounds:
		return true
	case EventFloorContact:
		return e.Final
	default:
		return false
	}
}
