package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-csurf/app"
	"go-csurf/config"
	"go-csurf/engine"
	"go-csurf/midi"
	"go-csurf/modifier"
	"go-csurf/osc"
	"go-csurf/theme"
	"go-csurf/widgets"
)

// Model is the monitor. Every engine call happens in Update, which makes
// the bubbletea loop the surface's control thread.
type Model struct {
	App     *app.App
	Watcher *midi.Watcher // nil without MIDI ports
	OSC     *osc.Server   // nil without an OSC listener
	Theme   *theme.Theme
	Console *Console

	port     *midi.Port
	last     string
	quitting bool
	showHelp bool
}

type TickMsg time.Time

// EventMsg carries one decoded event and the channel it came from
type EventMsg struct {
	Event  engine.Event
	Source <-chan engine.Event
}

type DeviceEventMsg midi.DeviceEvent

func NewModel(a *app.App, watcher *midi.Watcher, server *osc.Server, th *theme.Theme, console *Console) Model {
	return Model{
		App:     a,
		Watcher: watcher,
		OSC:     server,
		Theme:   th,
		Console: console,
	}
}

func ListenForEvents(src <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-src
		if !ok {
			return nil
		}
		return EventMsg{Event: ev, Source: src}
	}
}

func ListenForDevices(w *midi.Watcher) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-w.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func Tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{Tick(m.App.Config.RefreshRate)}
	if m.Watcher != nil {
		cmds = append(cmds, ListenForDevices(m.Watcher))
	}
	if m.OSC != nil {
		cmds = append(cmds, ListenForEvents(m.OSC.Events()))
	}
	return tea.Batch(cmds...)
}

func (m Model) live(src <-chan engine.Event) bool {
	if m.port != nil && src == m.port.Events() {
		return true
	}
	return m.OSC != nil && src == m.OSC.Events()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	surf := m.App.Surface

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "h":
			surf.GoHome()
		case "f":
			surf.ToggleFocusedFXParam()
		case "r":
			surf.ResetCursors()
		case "u":
			surf.ForceUpdate()
		case "[":
			m.App.Session.AdjustBank(-1)
		case "]":
			m.App.Session.AdjustBank(1)
		case "?":
			m.showHelp = !m.showHelp
		}

	case TickMsg:
		surf.RequestUpdate()
		return m, Tick(m.App.Config.RefreshRate)

	case EventMsg:
		if !m.live(msg.Source) {
			return m, nil
		}
		claimed := surf.Handle(msg.Event)
		m.last = msg.Event.String()
		if !claimed {
			m.last += " (unbound)"
		}
		return m, ListenForEvents(msg.Source)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		cmds := []tea.Cmd{ListenForDevices(m.Watcher)}
		switch event.Type {
		case midi.DeviceConnected:
			m.port = event.Port
			surf.ForceUpdate()
			cmds = append(cmds, ListenForEvents(event.Port.Events()))
		case midi.DeviceDisconnected:
			if m.port != nil && m.port.ID() == event.ID {
				m.port = nil
			}
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) cells(kind func(config.WidgetConfig) bool) []widgets.Cell {
	var out []widgets.Cell
	for _, wc := range m.App.Config.Widgets {
		if !kind(wc) {
			continue
		}
		w, ok := m.App.Surface.Widget(wc.Name)
		if !ok {
			continue
		}
		out = append(out, widgets.Cell{Name: wc.Name, Kind: wc.Kind, State: w.State()})
	}
	return out
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	surf := m.App.Surface
	mods := surf.Modifiers()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	midiStatus := "midi:-"
	if m.port != nil {
		midiStatus = "midi:" + m.port.ID()
	}
	oscStatus := "osc:-"
	if m.OSC != nil && m.OSC.Addr() != nil {
		oscStatus = "osc:" + m.OSC.Addr().String()
	}
	modStatus := strings.TrimSuffix(modifier.Prefix(mods.Mask()), "+")
	if modStatus == "" {
		modStatus = "-"
	}
	views := strings.Join(m.App.Session.Views(), ",")
	if views == "" {
		views = "-"
	}
	header := headerStyle.Render(fmt.Sprintf("csurf  %s  bank:%d  mods:%s  views:%s  %s  %s  sent:%d",
		surf.Name(), m.App.Session.Bank()+1, modStatus, views, midiStatus, oscStatus, midi.SendCount()))

	var strips []string
	for ch := 1; ch <= surf.Channels(); ch++ {
		cells := m.cells(func(wc config.WidgetConfig) bool { return wc.Channel == ch })
		if len(cells) == 0 {
			continue
		}
		strips = append(strips, widgets.RenderStrip(m.Theme, fmt.Sprint(ch), cells, mods.Touched(ch)))
	}
	buttons := m.cells(func(wc config.WidgetConfig) bool { return wc.Channel == 0 && wc.Kind != config.KindDisplay })

	var zones []string
	for _, name := range surf.ActiveZones() {
		zones = append(zones, widgets.RenderZone(m.Theme, name, true, 0))
	}
	if surf.FocusedFXParamEnabled() {
		zones = append(zones, dimStyle.Render("focused fx param: on"))
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderStrips(strips))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderButtons(m.Theme, buttons, 4))
	out.WriteString("\n\n")
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(28).Render(strings.Join(zones, "\n")),
		m.consoleView(dimStyle)))
	out.WriteString("\n\n")
	if m.last != "" {
		out.WriteString(warnStyle.Render("last: " + m.last))
		out.WriteString("\n")
	}

	if m.showHelp {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(keyHelp)))
	} else {
		out.WriteString(dimStyle.Render("h:home  f:fx param  [/]:bank  r:reset  u:refresh  ?:help  q:quit"))
	}

	return out.String()
}

func (m Model) consoleView(style lipgloss.Style) string {
	if m.Console == nil {
		return ""
	}
	lines := m.Console.Lines()
	if len(lines) > 8 {
		lines = lines[len(lines)-8:]
	}
	return style.Render(strings.Join(lines, "\n"))
}

var keyHelp = []widgets.KeySection{
	{Title: "Navigation", Keys: []widgets.KeyBinding{
		{Key: "h", Desc: "go to the Home zone"},
		{Key: "f", Desc: "toggle the focused FX param zone"},
		{Key: "[ ]", Desc: "bank tracks left/right"},
	}},
	{Title: "Surface", Keys: []widgets.KeyBinding{
		{Key: "r", Desc: "reset step and acceleration cursors"},
		{Key: "u", Desc: "resend all feedback"},
		{Key: "q", Desc: "quit"},
	}},
}
