// Package modifier tracks which modifier keys of a control surface are engaged
// and computes the ranked modifier combinations used to resolve bindings.
package modifier

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go-csurf/debug"
)

// Flag identifies a named modifier
type Flag int

const (
	Shift Flag = iota
	Option
	Control
	Alt
	Flip
	Global
	Marker
	Nudge
	Zoom
	Scrub
	numFlags
)

// Channel-scoped weights. These are not part of the named flag set.
const (
	TouchWeight  = 1
	ToggleWeight = 2
)

// DefaultLatchTime is the tap window that locks a latchable modifier
const DefaultLatchTime = 100 * time.Millisecond

var flagNames = [numFlags]string{
	"Shift", "Option", "Control", "Alt", "Flip",
	"Global", "Marker", "Nudge", "Zoom", "Scrub",
}

// Weight is the contribution of f to a modifier mask
func (f Flag) Weight() int {
	return 4 << uint(f)
}

func (f Flag) String() string {
	if f < 0 || f >= numFlags {
		return "Unknown"
	}
	return flagNames[f]
}

// Flags returns every named modifier in weight order
func Flags() []Flag {
	out := make([]Flag, numFlags)
	for i := range out {
		out[i] = Flag(i)
	}
	return out
}

// Lookup finds a named flag
func Lookup(name string) (Flag, bool) {
	for i, n := range flagNames {
		if n == name {
			return Flag(i), true
		}
	}
	return 0, false
}

// Weight returns the mask weight for a modifier prefix name, including the
// channel-scoped Touch and Toggle prefixes.
func Weight(name string) (int, bool) {
	switch name {
	case "Touch":
		return TouchWeight, true
	case "Toggle":
		return ToggleWeight, true
	}
	if f, ok := Lookup(name); ok {
		return f.Weight(), true
	}
	return 0, false
}

// Prefix renders mask as "Shift+Option+...+" text. Touch and Toggle come last.
func Prefix(mask int) string {
	var b strings.Builder
	for _, f := range Flags() {
		if mask&f.Weight() != 0 {
			b.WriteString(f.String())
			b.WriteByte('+')
		}
	}
	if mask&TouchWeight != 0 {
		b.WriteString("Touch+")
	}
	if mask&ToggleWeight != 0 {
		b.WriteString("Toggle+")
	}
	return b.String()
}

// Notifier receives Lock/Unlock announcements
type Notifier interface {
	Notify(flag Flag, message string)
}

type logNotifier struct{}

func (logNotifier) Notify(flag Flag, message string) {
	debug.Log("modifier", "%s %s", flag, message)
}

type slot struct {
	engaged   bool
	locked    bool
	pressedAt time.Time
}

// State holds modifier flags for one surface ("local") or a page of surfaces
// ("global"). It is driven from the control thread only; the mutex guards the
// listener list against subscription from transport setup code.
type State struct {
	mu        sync.Mutex
	slots     [numFlags]slot
	touched   map[int]bool
	toggled   map[int]bool
	combos    []int
	latchTime time.Duration
	notifier  Notifier
	now       func() time.Time
	listeners []func()
}

// StateOption configures a State
type StateOption func(*State)

// WithLatchTime sets the tap window for locking a modifier
func WithLatchTime(d time.Duration) StateOption {
	return func(s *State) { s.latchTime = d }
}

// WithNotifier routes Lock/Unlock messages to n
func WithNotifier(n Notifier) StateOption {
	return func(s *State) { s.notifier = n }
}

// WithClock replaces time.Now (tests)
func WithClock(now func() time.Time) StateOption {
	return func(s *State) { s.now = now }
}

// New creates a State with nothing engaged
func New(opts ...StateOption) *State {
	s := &State{
		touched:   make(map[int]bool),
		toggled:   make(map[int]bool),
		combos:    []int{0},
		latchTime: DefaultLatchTime,
		notifier:  logNotifier{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to run after every recalculation
func (s *State) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// SetModifier presses or releases a named modifier
func (s *State) SetModifier(f Flag, engaged bool) {
	if f < 0 || f >= numFlags {
		return
	}
	sl := &s.slots[f]
	now := s.now()

	if engaged {
		if !sl.engaged || sl.locked {
			sl.pressedAt = now
		}
		sl.engaged = true
	} else {
		switch {
		case sl.locked:
			sl.locked = false
			sl.engaged = false
			s.notifier.Notify(f, "Unlock")
		case sl.engaged && now.Sub(sl.pressedAt) < s.latchTime:
			sl.locked = true
			s.notifier.Notify(f, "Lock")
		default:
			sl.engaged = false
		}
	}
	s.RecalculateCombinations()
}

// Engaged reports whether f is currently held or locked
func (s *State) Engaged(f Flag) bool {
	if f < 0 || f >= numFlags {
		return false
	}
	return s.slots[f].engaged
}

// Locked reports whether f is latched on
func (s *State) Locked(f Flag) bool {
	if f < 0 || f >= numFlags {
		return false
	}
	return s.slots[f].locked
}

// SetTouch records the touch state of a channel's touch-sensitive control
func (s *State) SetTouch(channel int, touched bool) {
	if s.touched[channel] == touched {
		return
	}
	s.touched[channel] = touched
	s.notify()
}

// SetToggle records the toggle state of a channel
func (s *State) SetToggle(channel int, toggled bool) {
	if s.toggled[channel] == toggled {
		return
	}
	s.toggled[channel] = toggled
	s.notify()
}

// ToggleChannel flips the toggle state of a channel
func (s *State) ToggleChannel(channel int) {
	s.SetToggle(channel, !s.toggled[channel])
}

// Touched reports the touch state of a channel
func (s *State) Touched(channel int) bool { return s.touched[channel] }

// Toggled reports the toggle state of a channel
func (s *State) Toggled(channel int) bool { return s.toggled[channel] }

// Clear releases every modifier, lock and channel toggle
func (s *State) Clear() {
	for i := range s.slots {
		s.slots[i] = slot{}
	}
	s.touched = make(map[int]bool)
	s.toggled = make(map[int]bool)
	s.RecalculateCombinations()
}

// Mask is the weighted sum of every engaged named modifier
func (s *State) Mask() int {
	mask := 0
	for i, sl := range s.slots {
		if sl.engaged {
			mask += Flag(i).Weight()
		}
	}
	return mask
}

// RecalculateCombinations rebuilds the ranked combination list and notifies
// subscribers.
func (s *State) RecalculateCombinations() {
	var weights []int
	for i, sl := range s.slots {
		if sl.engaged {
			weights = append(weights, Flag(i).Weight())
		}
	}
	s.combos = Combinations(weights)
	s.notify()
}

// Combinations returns the modifier values to try, most specific first. The
// zero baseline is always last.
func (s *State) Combinations() []int {
	out := make([]int, len(s.combos))
	copy(out, s.combos)
	return out
}

func (s *State) notify() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Combinations computes the sum of every subset of weights (the empty subset
// contributes the 0 baseline) sorted descending.
func Combinations(weights []int) []int {
	n := len(weights)
	out := make([]int, 0, 1<<uint(n))
	for set := 0; set < 1<<uint(n); set++ {
		sum := 0
		for i := 0; i < n; i++ {
			if set&(1<<uint(i)) != 0 {
				sum += weights[i]
			}
		}
		out = append(out, sum)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
