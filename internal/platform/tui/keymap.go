package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-volley/internal/core"
)

// PlayerKeys are the bindings of one human slot.
type PlayerKeys struct {
	Left   key.Binding
	Right  key.Binding
	Jump   key.Binding
	Strike key.Binding
	Block  key.Binding
}

// KeyMap holds all in-match bindings.
type KeyMap struct {
	Players    [2]PlayerKeys
	Serve      key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	Quit       key.Binding
	Screenshot key.Binding
}

// DefaultKeyMap returns the bindings for one or two players. With a single
// player the arrow keys also drive slot 0.
func DefaultKeyMap(humans int) KeyMap {
	p1 := PlayerKeys{
		Left:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a/d", "move")),
		Right:  key.NewBinding(key.WithKeys("d")),
		Jump:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "jump")),
		Strike: key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "strike")),
		Block:  key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "block")),
	}
	p2 := PlayerKeys{
		Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "move")),
		Right:  key.NewBinding(key.WithKeys("right")),
		Jump:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "jump")),
		Strike: key.NewBinding(key.WithKeys("."), key.WithHelp(".", "strike")),
		Block:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "block")),
	}
	if humans < 2 {
		p1.Left.SetKeys("a", "left")
		p1.Right.SetKeys("d", "right")
		p1.Jump.SetKeys("w", "up")
		p2.Left.SetEnabled(false)
		p2.Right.SetEnabled(false)
		p2.Jump.SetEnabled(false)
		p2.Strike.SetEnabled(false)
		p2.Block.SetEnabled(false)
	}

	return KeyMap{
		Players:    [2]PlayerKeys{p1, p2},
		Serve:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "serve")),
		Pause:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Restart:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rematch")),
		Back:       key.NewBinding(key.WithKeys("b", "esc"), key.WithHelp("b", "menu")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Screenshot: key.NewBinding(key.WithKeys("ctrl+s")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Players[0].Left, k.Players[0].Jump, k.Players[0].Strike, k.Players[0].Block, k.Serve, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	p1, p2 := k.Players[0], k.Players[1]
	return [][]key.Binding{
		{p1.Left, p1.Jump, p1.Strike, p1.Block},
		{p2.Left, p2.Jump, p2.Strike, p2.Block},
		{k.Serve, k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// MapKey folds one key press into held input and the frame's shell actions.
// It returns the matched action, ActionNone for movement keys and unbound keys.
func (k KeyMap) MapKey(msg tea.KeyMsg, held *HeldInput, frame *core.InputFrame) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Back):
		return core.ActionBack
	case key.Matches(msg, k.Serve):
		frame.Set(core.ActionServe)
		return core.ActionServe
	case key.Matches(msg, k.Pause):
		frame.Set(core.ActionPause)
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		frame.Set(core.ActionRestart)
		return core.ActionRestart
	}

	for slot, p := range k.Players {
		switch {
		case key.Matches(msg, p.Left):
			held.Press(slot, core.Intent{MoveLeft: true})
		case key.Matches(msg, p.Right):
			held.Press(slot, core.Intent{MoveRight: true})
		case key.Matches(msg, p.Jump):
			held.Press(slot, core.Intent{Jump: true})
		case key.Matches(msg, p.Strike):
			held.Press(slot, core.Intent{Strike: true})
		case key.Matches(msg, p.Block):
			held.Press(slot, core.Intent{Block: true})
		}
	}
	return core.ActionNone
}

// HeldInput turns key presses into per-tick intents. Terminals report
// presses and auto-repeat but never releases, so movement stays held for a
// number of ticks after the last press; jump, strike and block last one tick.
type HeldInput struct {
	hold  int
	left  [2]int
	right [2]int
	taps  [2]core.Intent
}

// NewHeldInput keeps movement held for hold ticks after each press.
func NewHeldInput(hold int) *HeldInput {
	return &HeldInput{hold: max(hold, 1)}
}

// Press registers a key press for a slot. Pressing one direction releases
// the other.
func (h *HeldInput) Press(slot int, in core.Intent) {
	if slot < 0 || slot >= len(h.taps) {
		return
	}
	switch {
	case in.MoveLeft:
		h.left[slot] = h.hold
		h.right[slot] = 0
	case in.MoveRight:
		h.right[slot] = h.hold
		h.left[slot] = 0
	}
	in.MoveLeft, in.MoveRight = false, false
	h.taps[slot] = h.taps[slot].Merge(in)
}

// Fill writes the current intents into frame and advances the hold timers.
func (h *HeldInput) Fill(frame *core.InputFrame) {
	for slot := range h.taps {
		in := h.taps[slot]
		in.MoveLeft = h.left[slot] > 0
		in.MoveRight = h.right[slot] > 0
		if !in.IsZero() {
			frame.SetIntent(slot, in)
		}

		h.taps[slot] = core.Intent{}
		if h.left[slot] > 0 {
			h.left[slot]--
		}
		if h.right[slot] > 0 {
			h.right[slot]--
		}
	}
}

// Release drops everything held.
func (h *HeldInput) Release() {
	*h = HeldInput{hold: h.hold}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionHistory
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionHistory
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
