// Package daw is an in-memory workstation: tracks, FX and transport state
// behind the navigator interfaces the engine binds zones to.
package daw

import (
	"fmt"
	"sort"
	"sync"

	"go-csurf/debug"
	"go-csurf/engine"
	"go-csurf/theme"
)

// Param is one FX parameter. Value is normalized 0-1.
type Param struct {
	Name  string
	Value float64
	Steps int
}

// FX is a plugin instance on a track
type FX struct {
	Name   string
	Params []Param
}

// Track is a mixer channel. Volume and Pan are normalized, Pan 0.5 is centre.
type Track struct {
	ID       string
	Name     string
	Volume   float64
	Pan      float64
	Mute     bool
	Solo     bool
	Selected bool
	Touched  bool
	Color    theme.RGB
	FX       []*FX
	Sends    []float64
}

// TargetID implements engine.Target
func (t *Track) TargetID() string { return t.ID }

// defaultColors cycle over new tracks
var defaultColors = []theme.RGB{
	{0xe0, 0x4f, 0x5f}, {0xf2, 0xa5, 0x41}, {0xe9, 0xd9, 0x4c}, {0x5f, 0xc4, 0x6a},
	{0x3f, 0xa7, 0xd6}, {0x7a, 0x6f, 0xe0}, {0xc5, 0x6f, 0xd6}, {0x9a, 0x9a, 0x9a},
}

// Session is the workstation state. Engine calls arrive on one control
// thread; the lock lets the monitor read state concurrently.
type Session struct {
	mu sync.RWMutex

	tracks  []*Track
	master  *Track
	bank    int
	playing bool

	focusedTrack int // -1 when no FX window has focus
	focusedSlot  int

	views    map[string]bool
	commands []int
}

// NewSession creates a session with n empty tracks
func NewSession(n int) *Session {
	s := &Session{
		master:       &Track{ID: "master", Name: "Master", Volume: dbToNorm(0), Pan: 0.5},
		focusedTrack: -1,
		views:        make(map[string]bool),
	}
	for i := 0; i < n; i++ {
		s.AddTrack(fmt.Sprintf("Track %d", i+1))
	}
	return s
}

// AddTrack appends a track at 0 dB
func (s *Session) AddTrack(name string) *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Track{
		ID:     fmt.Sprintf("track%d", len(s.tracks)+1),
		Name:   name,
		Volume: dbToNorm(0),
		Pan:    0.5,
		Color:  defaultColors[len(s.tracks)%len(defaultColors)],
	}
	s.tracks = append(s.tracks, t)
	return t
}

// AddFX appends an FX to a track
func (s *Session) AddFX(t *Track, name string, params ...Param) *FX {
	s.mu.Lock()
	defer s.mu.Unlock()
	fx := &FX{Name: name, Params: params}
	t.FX = append(t.FX, fx)
	return fx
}

// Tracks returns the tracks in order
func (s *Session) Tracks() []*Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Track(nil), s.tracks...)
}

// Master returns the master track
func (s *Session) Master() *Track { return s.master }

// Bank is the index of the track on channel 1
func (s *Session) Bank() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bank
}

// AdjustBank scrolls channel navigation, clamped to the track list
func (s *Session) AdjustBank(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank = min(max(s.bank+delta, 0), max(len(s.tracks)-1, 0))
}

// Select makes t the only selected track
func (s *Session) Select(t *Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.tracks {
		x.Selected = x == t
	}
}

// SelectedTrack returns the first selected track
func (s *Session) SelectedTrack() (*Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tracks {
		if t.Selected {
			return t, true
		}
	}
	return nil, false
}

// FocusFX marks an FX as focused, or clears focus with track < 0
func (s *Session) FocusFX(track, slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focusedTrack, s.focusedSlot = track, slot
}

// Playing reports the transport state
func (s *Session) Playing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playing
}

func (s *Session) setPlaying(p bool) {
	s.mu.Lock()
	s.playing = p
	s.mu.Unlock()
}

// ViewChanged records which of the VCA, Folder and SelectedTracks views the
// surface shows
func (s *Session) ViewChanged(view string, active bool) {
	s.mu.Lock()
	if active {
		s.views[view] = true
	} else {
		delete(s.views, view)
	}
	s.mu.Unlock()
	debug.Log("daw", "view %s active=%v", view, active)
}

// Views returns the active views, sorted
func (s *Session) Views() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.views))
	for v := range s.views {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Host command ids understood by the Command action
const (
	CmdPlay        = 1007
	CmdStop        = 1016
	CmdInsertTrack = 40001
	CmdUnselectAll = 40297
)

var commandNames = map[string]int{
	"Play":        CmdPlay,
	"Stop":        CmdStop,
	"InsertTrack": CmdInsertTrack,
	"UnselectAll": CmdUnselectAll,
}

// CommandID resolves a named host command
func (s *Session) CommandID(name string) (int, bool) {
	id, ok := commandNames[name]
	return id, ok
}

// RunCommand executes a host command by id
func (s *Session) RunCommand(id int) {
	switch id {
	case CmdPlay:
		s.setPlaying(true)
	case CmdStop:
		s.setPlaying(false)
	case CmdInsertTrack:
		s.AddTrack(fmt.Sprintf("Track %d", len(s.Tracks())+1))
	case CmdUnselectAll:
		s.mu.Lock()
		for _, t := range s.tracks {
			t.Selected = false
		}
		s.mu.Unlock()
	default:
		debug.Log("daw", "unknown command %d", id)
		return
	}
	s.mu.Lock()
	s.commands = append(s.commands, id)
	s.mu.Unlock()
}

// Commands returns the ids of commands run so far
func (s *Session) Commands() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.commands...)
}

func (s *Session) track(i int) (*Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.tracks) {
		return nil, false
	}
	return s.tracks[i], true
}

func (s *Session) fx(t engine.Target, slot int) (*FX, bool) {
	tr, ok := t.(*Track)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if slot < 0 || slot >= len(tr.FX) {
		return nil, false
	}
	return tr.FX[slot], true
}

// Navigators

type channelNav struct {
	s       *Session
	channel int
}

func (n channelNav) Name() string { return fmt.Sprintf("Channel%d", n.channel) }

func (n channelNav) Target() (engine.Target, bool) {
	t, ok := n.s.track(n.s.Bank() + n.channel - 1)
	if !ok {
		return nil, false
	}
	return t, true
}

type funcNav struct {
	name string
	fn   func() (*Track, bool)
}

func (n funcNav) Name() string { return n.name }

func (n funcNav) Target() (engine.Target, bool) {
	t, ok := n.fn()
	if !ok {
		return nil, false
	}
	return t, true
}

// Host implementation

func (s *Session) TrackNavigator(channel int) engine.Navigator {
	return channelNav{s: s, channel: channel}
}

func (s *Session) MasterTrackNavigator() engine.Navigator {
	return funcNav{name: "MasterTrack", fn: func() (*Track, bool) { return s.master, true }}
}

func (s *Session) SelectedTrackNavigator() engine.Navigator {
	return funcNav{name: "SelectedTrack", fn: s.SelectedTrack}
}

func (s *Session) FocusedFXNavigator() engine.Navigator {
	return funcNav{name: "FocusedFX", fn: func() (*Track, bool) {
		t, _, ok := s.focused()
		return t, ok
	}}
}

func (s *Session) focused() (*Track, int, bool) {
	s.mu.RLock()
	idx, slot := s.focusedTrack, s.focusedSlot
	s.mu.RUnlock()
	t, ok := s.track(idx)
	if !ok || slot < 0 || slot >= len(t.FX) {
		return nil, 0, false
	}
	return t, slot, true
}

func (s *Session) FocusedFX() (engine.Target, int, bool) {
	t, slot, ok := s.focused()
	if !ok {
		return nil, 0, false
	}
	return t, slot, true
}

func (s *Session) FXCount(t engine.Target) int {
	tr, ok := t.(*Track)
	if !ok {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(tr.FX)
}

func (s *Session) FXName(t engine.Target, slot int) string {
	fx, ok := s.fx(t, slot)
	if !ok {
		return ""
	}
	return fx.Name
}

func (s *Session) FXParamCount(t engine.Target, slot int) int {
	fx, ok := s.fx(t, slot)
	if !ok {
		return 0
	}
	return len(fx.Params)
}

func (s *Session) FXParamName(t engine.Target, slot, param int) string {
	p, ok := s.param(t, slot, param)
	if !ok {
		return ""
	}
	return p.Name
}

func (s *Session) FXParamSteps(t engine.Target, slot, param int) int {
	p, ok := s.param(t, slot, param)
	if !ok {
		return 0
	}
	return p.Steps
}

func (s *Session) TrackColor(t engine.Target) theme.RGB {
	tr, ok := t.(*Track)
	if !ok {
		return theme.RGB{}
	}
	return tr.Color
}

func (s *Session) param(t engine.Target, slot, idx int) (*Param, bool) {
	fx, ok := s.fx(t, slot)
	if !ok || idx < 0 || idx >= len(fx.Params) {
		return nil, false
	}
	return &fx.Params[idx], true
}
