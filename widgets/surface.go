// Package widgets renders surface widget state for the terminal monitor.
package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-csurf/config"
	"go-csurf/engine"
	"go-csurf/theme"
)

// BarWidth is the width of fader and encoder bars
const BarWidth = 8

// Cell is one widget as the monitor shows it
type Cell struct {
	Name  string
	Kind  config.WidgetKind
	State engine.WidgetState
}

// RenderBar renders a normalized value as a horizontal bar
func RenderBar(th *theme.Theme, v float64, width int) string {
	v = min(max(v, 0), 1)
	full := int(v*float64(width) + 0.5)
	bar := strings.Repeat(string(th.Symbols.BarFull), full)
	rest := strings.Repeat(string(th.Symbols.BarEmpty), width-full)
	return lipgloss.NewStyle().Foreground(th.Color(v)).Render(bar) +
		lipgloss.NewStyle().Foreground(th.Muted()).Render(rest)
}

// RenderButton renders a lit or dark button in its feedback colour
func RenderButton(th *theme.Theme, st engine.WidgetState) string {
	if !st.HasValue || st.Value == 0 {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render(string(th.Symbols.Off))
	}
	c := th.Active()
	if st.HasColor {
		c = theme.Lipgloss(st.Color)
	}
	return lipgloss.NewStyle().Foreground(c).Render(string(th.Symbols.On))
}

// RenderCell renders a widget's visual without its name
func RenderCell(th *theme.Theme, c Cell) string {
	switch c.Kind {
	case config.KindFader, config.KindEncoder:
		return RenderBar(th, c.State.Value, BarWidth)
	case config.KindDisplay:
		text := c.State.Text
		if len(text) > BarWidth {
			text = text[:BarWidth]
		}
		return lipgloss.NewStyle().Foreground(th.FG()).Width(BarWidth).Render(text)
	}
	return RenderButton(th, c.State)
}

// RenderStrip renders one channel's widgets as a column
func RenderStrip(th *theme.Theme, title string, cells []Cell, touched bool) string {
	head := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	mark := " "
	if touched {
		mark = string(th.Symbols.Touched)
	}
	lines := []string{head.Render(fmt.Sprintf("%s%s", mark, title))}
	for _, c := range cells {
		lines = append(lines, RenderCell(th, c))
	}
	return lipgloss.NewStyle().PaddingRight(2).Render(strings.Join(lines, "\n"))
}

// RenderStrips joins strips side by side
func RenderStrips(strips []string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, strips...)
}

// RenderButtons renders unchanneled buttons as a wrapped row of "■ Name"
func RenderButtons(th *theme.Theme, cells []Cell, perRow int) string {
	var lines []string
	var line []string
	for i, c := range cells {
		line = append(line, fmt.Sprintf("%s %-10s", RenderCell(th, c), c.Name))
		if (i+1)%perRow == 0 {
			lines = append(lines, strings.Join(line, " "))
			line = nil
		}
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return strings.Join(lines, "\n")
}

// RenderZone renders a zone line with its active marker, indented by depth
func RenderZone(th *theme.Theme, name string, active bool, depth int) string {
	sym, c := th.Symbols.ZoneInactive, th.Muted()
	if active {
		sym, c = th.Symbols.ZoneActive, th.Success()
	}
	return strings.Repeat("  ", depth) + lipgloss.NewStyle().Foreground(c).Render(fmt.Sprintf("%c %s", sym, name))
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
