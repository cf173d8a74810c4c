package modifier

import (
	"testing"
	"time"
)

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(flag Flag, message string) {
	r.messages = append(r.messages, flag.String()+" "+message)
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCombinations_SizeAndOrder(t *testing.T) {
	tests := []struct {
		name    string
		weights []int
	}{
		{"none", nil},
		{"shift", []int{Shift.Weight()}},
		{"shift option", []int{Shift.Weight(), Option.Weight()}},
		{"three", []int{Shift.Weight(), Alt.Weight(), Scrub.Weight()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			combos := Combinations(tt.weights)
			if len(combos) != 1<<uint(len(tt.weights)) {
				t.Fatalf("Expected %d combinations, got %d", 1<<uint(len(tt.weights)), len(combos))
			}
			for i := 1; i < len(combos); i++ {
				if combos[i] >= combos[i-1] {
					t.Errorf("Expected strictly descending, got %v", combos)
				}
			}
			if combos[len(combos)-1] != 0 {
				t.Errorf("Expected 0 baseline last, got %v", combos)
			}
		})
	}
}

func TestState_MomentaryHold(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	s := New(WithClock(clk.now))

	s.SetModifier(Shift, true)
	if got := s.Combinations(); len(got) != 2 || got[0] != 4 || got[1] != 0 {
		t.Fatalf("Expected [4 0], got %v", got)
	}

	clk.advance(500 * time.Millisecond)
	s.SetModifier(Shift, false)
	if s.Engaged(Shift) {
		t.Errorf("Expected Shift released after long hold")
	}
	if got := s.Combinations(); len(got) != 1 || got[0] != 0 {
		t.Errorf("Expected [0], got %v", got)
	}
}

func TestState_TapLocksAndUnlocks(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	n := &recordingNotifier{}
	s := New(WithClock(clk.now), WithNotifier(n))

	s.SetModifier(Option, true)
	clk.advance(30 * time.Millisecond)
	s.SetModifier(Option, false)

	if !s.Engaged(Option) || !s.Locked(Option) {
		t.Fatalf("Expected Option locked after a quick tap")
	}

	clk.advance(2 * time.Second)
	s.SetModifier(Option, true)
	clk.advance(30 * time.Millisecond)
	s.SetModifier(Option, false)

	if s.Engaged(Option) || s.Locked(Option) {
		t.Errorf("Expected Option unlocked")
	}
	if len(n.messages) != 2 || n.messages[0] != "Option Lock" || n.messages[1] != "Option Unlock" {
		t.Errorf("Unexpected notifications %v", n.messages)
	}
}

func TestState_SubscribersNotified(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(func() { calls++ })

	s.SetModifier(Alt, true)
	s.SetTouch(3, true)
	s.SetTouch(3, true) // unchanged, no notification
	s.ToggleChannel(2)

	if calls != 3 {
		t.Errorf("Expected 3 notifications, got %d", calls)
	}
	if !s.Touched(3) || !s.Toggled(2) {
		t.Errorf("Expected channel state to be recorded")
	}
}

func TestWeightAndPrefix(t *testing.T) {
	tests := []struct {
		name   string
		weight int
	}{
		{"Touch", 1},
		{"Toggle", 2},
		{"Shift", 4},
		{"Option", 8},
		{"Control", 16},
		{"Alt", 32},
		{"Flip", 64},
		{"Global", 128},
		{"Scrub", 2048},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := Weight(tt.name)
			if !ok || w != tt.weight {
				t.Errorf("Weight(%q) = %d, %v, expected %d", tt.name, w, ok, tt.weight)
			}
		})
	}

	if _, ok := Weight("Bogus"); ok {
		t.Errorf("Expected unknown modifier to be rejected")
	}

	if got := Prefix(4 + 32 + 1); got != "Shift+Alt+Touch+" {
		t.Errorf("Prefix = %q", got)
	}
}
