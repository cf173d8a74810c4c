package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Buttons
	On  rune // ■ lit
	Off rune // □ dark

	// Value bars
	BarFull  rune // █
	BarEmpty rune // ░

	// Zone tree
	ZoneActive   rune // ● active zone
	ZoneInactive rune // ○ built but inactive
	Touched      rune // ▶ channel touched
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Plasma()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			On:  '■',
			Off: '□',

			BarFull:  '█',
			BarEmpty: '░',

			ZoneActive:   '●',
			ZoneInactive: '○',
			Touched:      '▶',
		},
	}
}

// Plasma is the built-in UI palette, a purple to yellow ramp
func Plasma() *Palette {
	stops := []RGB{{0x0d, 0x08, 0x87}, {0x7e, 0x03, 0xa8}, {0xcc, 0x47, 0x78}, {0xf8, 0x95, 0x40}, {0xf0, 0xf9, 0x21}}
	p := &Palette{Name: "plasma"}
	const n = 32
	for i := 0; i < n; i++ {
		pos := float64(i) / (n - 1) * float64(len(stops)-1)
		j := min(int(pos), len(stops)-2)
		p.Colors = append(p.Colors, Blend(stops[j], stops[j+1], pos-float64(j)))
	}
	return p
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return Lipgloss(t.Palette.Lookup(norm))
}

// Lipgloss converts a widget colour for terminal rendering
func Lipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
