package core

import "strings"

// Intent is a per-tick request supplied to one actor, either from a human input
// source or from an AI policy. Intents are plain values passed explicitly into the
// simulation; there is no shared key state.
type Intent struct {
	MoveLeft  bool
	MoveRight bool
	Jump      bool
	Strike    bool
	Block     bool
}

// Dir returns the horizontal direction requested: -1, 0 or 1.
// Opposing keys cancel out.
func (in Intent) Dir() float64 {
	var d float64
	if in.MoveLeft {
		d--
	}
	if in.MoveRight {
		d++
	}
	return d
}

// IsZero reports whether no action was requested.
func (in Intent) IsZero() bool {
	return in == Intent{}
}

// Merge returns the union of two intents. Used when several key events arrive
// between ticks.
func (in Intent) Merge(o Intent) Intent {
	return Intent{
		MoveLeft:  in.MoveLeft || o.MoveLeft,
		MoveRight: in.MoveRight || o.MoveRight,
		Jump:      in.Jump || o.Jump,
		Strike:    in.Strike || o.Strike,
		Block:     in.Block || o.Block,
	}
}

// String returns a compact representation such as "L.J" for logs and replays.
func (in Intent) String() string {
	if in.IsZero() {
		return "-"
	}
	var parts []string
	if in.MoveLeft {
		parts = append(parts, "L")
	}
	if in.MoveRight {
		parts = append(parts, "R")
	}
	if in.Jump {
		parts = append(parts, "J")
	}
	if in.Strike {
		parts = append(parts, "S")
	}
	if in.Block {
		parts = append(parts, "B")
	}
	return strings.Join(parts, ".")
}

// Bits packs the intent into a byte for compact storage.
func (in Intent) Bits() uint8 {
	var b uint8
	if in.MoveLeft {
		b |= 1 << 0
	}
	if in.MoveRight {
		b |= 1 << 1
	}
	if in.Jump {
		b |= 1 << 2
	}
	if in.Strike {
		b |= 1 << 3
	}
	if in.Block {
		b |= 1 << 4
	}
	return b
}

// IntentFromBits unpacks an intent produced by Bits.
func IntentFromBits(b uint8) Intent {
	return Intent{
		MoveLeft:  b&(1<<0) != 0,
		MoveRight: b&(1<<1) != 0,
		Jump:      b&(1<<2) != 0,
		Strike:    b&(1<<3) != 0,
		Block:     b&(1<<4) != 0,
	}
}

// Action represents a shell-level command, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionServe          // Serve when it is the player's turn
	ActionPause          // P - pause/unpause
	ActionRestart        // R - restart after match end
	ActionBack           // B, Escape - back to menu
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionServe:
		return "Serve"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is everything the shell collected for one simulation tick: intents for
// human-controlled slots plus shell actions.
type InputFrame struct {
	Intents map[int]Intent // Keyed by human slot (0 = first player, 1 = second)
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Intents: make(map[int]Intent),
		Actions: make(map[Action]bool),
	}
}

// SetIntent merges an intent into the given human slot.
func (f *InputFrame) SetIntent(slot int, in Intent) {
	if f.Intents == nil {
		f.Intents = make(map[int]Intent)
	}
	f.Intents[slot] = f.Intents[slot].Merge(in)
}

// Intent returns the intent for a human slot, zero if none.
func (f InputFrame) Intent(slot int) Intent {
	return f.Intents[slot]
}

// Set marks a shell action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	for k := range f.Intents {
		delete(f.Intents, k)
	}
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
