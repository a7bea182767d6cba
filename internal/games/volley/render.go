package volley

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-volley/internal/core"
)

// Visual characters for rendering
const (
	BodyChar   = '█'
	HeadChar   = '●'
	BallChar   = 'o'
	NetChar    = '┃'
	GroundChar = '▀'
	ArmChar    = '/'
	BlockChar  = '‖'
)

// HUD carries the host-side labels drawn around the court.
type HUD struct {
	NameA, NameB string
	Banner       string // Centered message, empty for none
	Footer       string
}

// view maps world coordinates onto screen cells. Row 0 holds the score line;
// the ground sits on the second to last row.
type view struct {
	court     Court
	w, h      int
	groundRow int
	sx, sy    float64
	top       float64
}

func newView(c Court, w, h int) view {
	v := view{court: c, w: w, h: h, groundRow: h - 2, top: c.Ceiling}
	v.sx = float64(w-1) / (c.Right - c.Left)
	v.sy = float64(v.groundRow-1) / (c.GroundY - c.Ceiling)
	return v
}

func (v view) col(x float64) int {
	return int(math.Round((x - v.court.Left) * v.sx))
}

func (v view) row(y float64) int {
	return 1 + int(math.Round((y-v.top)*v.sy))
}

// Render draws the court, the actors, the ball and the score line.
func (s *Simulation) Render(dst *core.Screen, hud HUD) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w < 20 || h < 8 {
		dst.DrawText(0, 0, "terminal too small")
		return
	}
	v := newView(s.court, w, h)

	dst.DrawHLine(0, v.groundRow, w, GroundChar, core.ColorGreen)
	netCol := v.col(s.court.NetX())
	netTop := v.row(s.court.Net.Y)
	dst.DrawVLine(netCol, netTop, v.groundRow-netTop, NetChar, core.ColorWhite)

	for i := range s.actors {
		s.drawActor(dst, v, &s.actors[i])
	}

	if s.ball.InPlay || s.match.state.Phase == PhaseAwaitingServe {
		dst.SetColor(v.col(s.ball.Pos.X), v.row(s.ball.Pos.Y), BallChar, core.ColorBrightYellow)
	}

	s.drawScoreLine(dst, hud)
	if hud.Footer != "" {
		dst.DrawTextColor(0, h-1, hud.Footer, core.ColorGray)
	}
	if hud.Banner != "" {
		drawBanner(dst, hud.Banner, s.setSummary())
	}
}

func (s *Simulation) drawActor(dst *core.Screen, v view, a *Actor) {
	color := core.ColorBrightBlue
	if a.Side == SideB {
		color = core.ColorBrightRed
	}
	head := core.ColorWhite
	if a.Human {
		head = core.ColorYellow
	}

	x := v.col(a.Pos.X)
	feet := v.row(a.Pos.Y) - 1
	top := v.row(a.Pos.Y - s.cfg.Actor.Height)
	if feet >= v.groundRow {
		feet = v.groundRow - 1
	}
	for y := top + 1; y <= feet; y++ {
		dst.SetColor(x, y, BodyChar, color)
	}
	dst.SetColor(x, top, HeadChar, head)

	arm := x + int(a.Side.Facing())
	switch {
	case a.Blocking && !a.Grounded:
		dst.SetColor(arm, top-1, BlockChar, color)
	case a.State == StateStriking:
		r := ArmChar
		if a.Side == SideB {
			r = '\\'
		}
		dst.SetColor(arm, top-1, r, color)
	}
}

func (s *Simulation) drawScoreLine(dst *core.Screen, hud HUD) {
	m := s.match.state
	nameA, nameB := hud.NameA, hud.NameB
	if nameA == "" {
		nameA = "A"
	}
	if nameB == "" {
		nameB = "B"
	}

	serveA, serveB := " ", " "
	if m.Serving == SideA {
		serveA = "*"
	} else {
		serveB = "*"
	}
	line := fmt.Sprintf("%s%s %2d : %-2d %s%s", serveA, nameA, m.ScoreA, m.ScoreB, nameB, serveB)
	dst.DrawTextCentered(0, line, core.ColorWhite)

	sets := fmt.Sprintf("sets %d-%d", m.SetsWonA, m.SetsWonB)
	dst.DrawTextColor(1, 0, sets, core.ColorCyan)

	set := fmt.Sprintf("set %d/%d", m.SetIndex+1, s.cfg.Rules.BestOf)
	dst.DrawTextColor(dst.Width()-len(set)-1, 0, set, core.ColorCyan)
}

func (s *Simulation) setSummary() string {
	m := s.match.state
	out := ""
	for i, ss := range m.SetScores {
		if i > 0 {
			out += "  "
		}
		out += fmt.Sprintf("%d-%d", ss.A, ss.B)
	}
	return out
}

func drawBanner(dst *core.Screen, title, subtitle string) {
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	r := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, core.ColorWhite)
	dst.DrawTextCentered(boxY+1, title, core.ColorBrightYellow)
	if subtitle != "" {
		dst.DrawTextCentered(boxY+3, subtitle, core.ColorGray)
	}
}
