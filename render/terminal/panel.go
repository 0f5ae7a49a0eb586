package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"solar-system-explorer/session"
)

const (
	panelX      = 1
	panelY      = 1
	panelWidth  = 34
	labelWidth  = 10
	trackWidth  = 16
	trackOffset = labelWidth + 1
)

const hint = " wasd/arrows move  shift slow  drag look  wheel zoom  esc quit "

type slider struct {
	label string
	rng   session.Range
	get   func(*session.Settings) *float32
}

var sliders = []slider{
	{"speed", session.SpeedRange, func(s *session.Settings) *float32 { return &s.Speed }},
	{"radius", session.RadiusRange, func(s *session.Settings) *float32 { return &s.Radius }},
	{"distance", session.OrbitDistanceRange, func(s *session.Settings) *float32 { return &s.OrbitDistance }},
}

var (
	panelStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(24, 24, 40)).Foreground(tcell.ColorWhite)
	hintStyle  = tcell.StyleDefault.Background(background).Foreground(tcell.ColorGray)
)

// Panel is the settings overlay with one slider per global scale. Mouse
// state is fed by Source and consumed on Render, both on the frame loop.
type Panel struct {
	device *Device

	x, y   int
	down   bool
	seen   bool
	active int
}

func NewPanel(device *Device) *Panel {
	return &Panel{device: device, active: -1}
}

// Pointer records the latest mouse position and primary button state.
func (p *Panel) Pointer(x, y int, down bool) {
	p.x, p.y, p.down, p.seen = x, y, down, true
}

// Contains reports whether a cell lies inside the panel.
func (p *Panel) Contains(x, y int) bool {
	return x >= panelX && x < panelX+panelWidth &&
		y >= panelY && y < panelY+len(sliders)+1
}

// row returns the slider index under the given screen row, or -1.
func (p *Panel) row(y int) int {
	i := y - panelY - 1
	if i < 0 || i >= len(sliders) {
		return -1
	}
	return i
}

func (p *Panel) Render(st *session.State) {
	hover := p.seen && p.Contains(p.x, p.y)
	switch {
	case !p.down:
		p.active = -1
	case p.active < 0 && hover:
		p.active = p.row(p.y)
	}
	if p.active >= 0 {
		f := float32(p.x-(panelX+trackOffset)) / float32(trackWidth-1)
		s := sliders[p.active]
		*s.get(&st.Settings) = s.rng.Lerp(f)
	}
	st.MouseInSettings = hover || p.active >= 0

	p.draw(st)
}

func (p *Panel) draw(st *session.State) {
	d := p.device
	d.DrawText(panelX, panelY, fmt.Sprintf("%-*s", panelWidth, " settings"), panelStyle)
	for i, s := range sliders {
		v := *s.get(&st.Settings)
		filled := int(s.rng.Fraction(v)*float32(trackWidth-1) + 0.5)
		track := make([]rune, trackWidth)
		for j := range track {
			track[j] = '-'
			if j <= filled {
				track[j] = '='
			}
		}
		track[filled] = '|'
		line := fmt.Sprintf(" %-*s[%s] %4.2f", labelWidth-1, s.label, string(track), v)
		d.DrawText(panelX, panelY+1+i, fmt.Sprintf("%-*s", panelWidth, line), panelStyle)
	}
	_, h := d.Size()
	d.DrawText(0, h-1, hint, hintStyle)
}
