package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/velocitylab/gravity-runner/internal/core"
	"github.com/velocitylab/gravity-runner/internal/engine"
	"github.com/velocitylab/gravity-runner/internal/sim"
	"github.com/velocitylab/gravity-runner/internal/sim/player"
	"github.com/velocitylab/gravity-runner/internal/sim/world"
)

// colorStyles maps screen cell colors to lipgloss styles.
// Initialized once at package load.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// RenderScreen converts a screen buffer to a styled terminal string.
// Adjacent cells of the same color are batched into a single styled run to
// keep the output small.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		runColor := core.ColorDefault
		var run strings.Builder
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == core.ColorDefault {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(colorStyles[runColor].Render(run.String()))
			}
			run.Reset()
		}

		for x := 0; x < s.Width(); x++ {
			cell := s.GetCell(x, y)
			if cell.Color != runColor {
				flush()
				runColor = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		flush()
	}

	return sb.String()
}

// WorldRenderer is the presentation module for a session. It draws the
// obstacle field, the player and the HUD into the shared screen buffer each
// frame, reading simulation state through snapshots only.
type WorldRenderer struct {
	session *sim.Session

	reduced bool // degrade advisory from the scheduler
}

// NewWorldRenderer creates a renderer bound to a session.
func NewWorldRenderer(session *sim.Session) *WorldRenderer {
	return &WorldRenderer{session: session}
}

// Init subscribes to the degradation advisory.
func (r *WorldRenderer) Init() error {
	r.session.Bus().Subscribe(engine.TopicReduceQuality, func(ev engine.Event) {
		if rq, ok := ev.(engine.ReduceQualityEvent); ok {
			r.reduced = rq.Active
		}
	}, r)
	return nil
}

// Update is a no-op; the renderer has no simulation state.
func (r *WorldRenderer) Update(dtMs float64) error {
	return nil
}

// Render draws the current frame.
func (r *WorldRenderer) Render(dst *core.Screen) error {
	if dst == nil {
		return nil
	}
	dst.Clear()

	cfg := r.session.Config()
	ws := r.session.World()
	ps := r.session.Player()

	scaleX := float64(dst.Width()) / cfg.World.ViewportWidth
	scaleY := float64(dst.Height()) / cfg.World.ViewportHeight

	if !r.reduced {
		r.drawBackdrop(dst, ws, scaleX, scaleY)
	}
	r.drawSurfaces(dst, scaleY)
	r.drawObstacles(dst, ws, scaleX, scaleY)
	r.drawPlayer(dst, ps, scaleX, scaleY)
	r.drawHUD(dst, ws, ps)
	return nil
}

// Destroy unsubscribes from the bus.
func (r *WorldRenderer) Destroy() error {
	r.session.Bus().UnsubscribeAll(r)
	return nil
}

// drawBackdrop renders a sparse starfield scrolling at half the world speed
// for a parallax effect. The pattern is a pure function of world position, so
// stars stay fixed relative to the world as it scrolls. Skipped entirely when
// the degradation advisory is active.
func (r *WorldRenderer) drawBackdrop(dst *core.Screen, ws world.Snapshot, scaleX, scaleY float64) {
	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			worldX := int(float64(x)/scaleX + ws.ScrollOffset*0.5)
			h := (worldX*73856093 + y*19349663) >> 8 & 0xff
			if h < 3 {
				dst.SetColored(x, y, '·', core.ColorGray)
			}
		}
	}
}

// drawSurfaces renders the ground and ceiling strips.
func (r *WorldRenderer) drawSurfaces(dst *core.Screen, scaleY float64) {
	cfg := r.session.Config().World

	groundY := int((cfg.ViewportHeight - cfg.GroundHeight) * scaleY)
	ceilY := int(cfg.GroundHeight*scaleY) - 1

	for y := groundY; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			dst.SetColored(x, y, '▒', core.ColorGray)
		}
	}
	if ceilY >= 0 {
		for y := 0; y <= ceilY; y++ {
			for x := 0; x < dst.Width(); x++ {
				dst.SetColored(x, y, '▒', core.ColorGray)
			}
		}
	}
}

// drawObstacles renders every obstacle whose screen projection is visible.
func (r *WorldRenderer) drawObstacles(dst *core.Screen, ws world.Snapshot, scaleX, scaleY float64) {
	for _, o := range ws.Obstacles {
		screenX := int((o.Box.X - ws.ScrollOffset) * scaleX)
		screenY := int(o.Box.Y * scaleY)
		w := core.Max(1, int(o.Box.W*scaleX))
		h := core.Max(1, int(o.Box.H*scaleY))

		if screenX+w < 0 || screenX >= dst.Width() {
			continue
		}

		fill := '█'
		color := core.ColorOrange
		if o.Kind == world.KindCeiling {
			color = core.ColorMagenta
		}
		if r.reduced {
			fill = '#'
			color = core.ColorDefault
		}

		for dy := 0; dy < h; dy++ {
			for dx := 0; dx < w; dx++ {
				dst.SetColored(screenX+dx, screenY+dy, fill, color)
			}
		}
	}
}

// drawPlayer renders the player box with a state-dependent glyph.
func (r *WorldRenderer) drawPlayer(dst *core.Screen, ps player.State, scaleX, scaleY float64) {
	screenX := int(ps.Position.X * scaleX)
	screenY := int(ps.Position.Y * scaleY)
	w := core.Max(1, int(ps.Width*scaleX))
	h := core.Max(1, int(ps.Height*scaleY))

	glyph := '@'
	color := core.ColorBrightGreen
	switch {
	case !ps.Alive:
		glyph = 'x'
		color = core.ColorBrightRed
	case ps.Dash.Active:
		glyph = '»'
		color = core.ColorBrightCyan
	case ps.GravityInverted:
		color = core.ColorBrightYellow
	}

	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			dst.SetColored(screenX+dx, screenY+dy, glyph, color)
		}
	}
}

// drawHUD renders the status line at the top of the screen.
func (r *WorldRenderer) drawHUD(dst *core.Screen, ws world.Snapshot, ps player.State) {
	score := r.session.Score()

	hud := fmt.Sprintf(" %dm  score %d  lvl %d ", int(ws.TotalDistance), score, ws.Difficulty)
	dst.DrawTextColored(1, 0, hud, core.ColorBrightWhite)

	var status []string
	if ps.Dash.Available {
		status = append(status, "DASH")
	}
	if ps.GravityInverted {
		status = append(status, "INV")
	}
	if ps.JumpsLeft > 0 {
		status = append(status, fmt.Sprintf("J%d", ps.JumpsLeft))
	}
	if len(status) > 0 {
		line := " " + strings.Join(status, " ") + " "
		dst.DrawTextColored(dst.Width()-len(line)-1, 0, line, core.ColorBrightCyan)
	}
}
