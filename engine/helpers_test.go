package engine

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"go-csurf/modifier"
	"go-csurf/theme"
	"go-csurf/zonefile"
)

// recorder remembers every value it receives and reports the last one back
type recorder struct {
	values  []float64
	current float64
}

func (r *recorder) Do(_ *ActionContext, v float64) {
	r.values = append(r.values, v)
	r.current = v
}

func (r *recorder) CurrentNormalizedValue(*ActionContext) float64 { return r.current }

type rangedRecorder struct {
	recorder
	min, max float64
}

func (r *rangedRecorder) Range() (float64, float64) { return r.min, r.max }

// probe calls fn for every value
type probe func(ctx *ActionContext, v float64)

func (p probe) Do(ctx *ActionContext, v float64) { p(ctx, v) }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type track struct {
	id string
}

func (t track) TargetID() string { return t.id }

type fakeNav struct {
	name   string
	target Target
}

func (n fakeNav) Name() string { return n.name }

func (n fakeNav) Target() (Target, bool) { return n.target, n.target != nil }

// fakeHost has one track per channel; every track carries the same FX list
type fakeHost struct {
	fx       []string
	params   map[string][]string
	focused  bool
	selected int
}

func (h *fakeHost) TrackNavigator(ch int) Navigator {
	return fakeNav{name: "Track" + strconv.Itoa(ch), target: track{"track" + strconv.Itoa(ch)}}
}

func (h *fakeHost) MasterTrackNavigator() Navigator {
	return fakeNav{name: "Master", target: track{"master"}}
}

func (h *fakeHost) SelectedTrackNavigator() Navigator {
	if h.selected == 0 {
		return fakeNav{name: "Selected"}
	}
	return fakeNav{name: "Selected", target: track{"track" + strconv.Itoa(h.selected)}}
}

func (h *fakeHost) FocusedFXNavigator() Navigator {
	return fakeNav{name: "FocusedFX", target: track{"track1"}}
}

func (h *fakeHost) FocusedFX() (Target, int, bool) {
	if !h.focused || len(h.fx) == 0 {
		return nil, 0, false
	}
	return track{"track1"}, 0, true
}

func (h *fakeHost) FXCount(Target) int { return len(h.fx) }

func (h *fakeHost) FXName(_ Target, slot int) string {
	if slot < 0 || slot >= len(h.fx) {
		return ""
	}
	return h.fx[slot]
}

func (h *fakeHost) FXParamCount(t Target, slot int) int {
	return len(h.params[h.FXName(t, slot)])
}

func (h *fakeHost) FXParamName(t Target, slot, param int) string {
	return h.params[h.FXName(t, slot)][param]
}

func (h *fakeHost) FXParamSteps(Target, int, int) int { return 0 }

func (h *fakeHost) TrackColor(Target) theme.RGB { return theme.RGB{10, 20, 30} }

// fakeFeedback counts what reaches the device
type fakeFeedback struct {
	values []float64
	colors []theme.RGB
	texts  []string
	clears int
}

func (f *fakeFeedback) SetValue(_ map[string]string, v float64)   { f.values = append(f.values, v) }
func (f *fakeFeedback) SetColor(_ map[string]string, c theme.RGB) { f.colors = append(f.colors, c) }
func (f *fakeFeedback) SetText(_ map[string]string, s string)     { f.texts = append(f.texts, s) }
func (f *fakeFeedback) Clear()                                    { f.clears++ }

type testSurface struct {
	*Surface
	clock *fakeClock
	host  *fakeHost
}

// newTestSurface parses text into an index and builds a four-channel surface.
// Widgets are "Name" or "Name@channel".
func newTestSurface(t *testing.T, text string, cat Catalogue, widgets ...string) *testSurface {
	t.Helper()
	zones, err := zonefile.Parse(strings.NewReader(text), "test.zon")
	if err != nil {
		t.Fatalf("Parse returned %v", err)
	}
	ix := zonefile.NewIndex()
	for _, z := range zones {
		ix.Add(z)
	}

	clock := &fakeClock{t: time.Unix(1000, 0)}
	host := &fakeHost{params: make(map[string][]string)}
	s := NewSurface(Options{
		Name:      "test",
		Channels:  4,
		Index:     ix,
		Catalogue: cat,
		Host:      host,
		Modifiers: modifier.New(modifier.WithClock(clock.now)),
		Clock:     clock.now,
	})
	for _, spec := range widgets {
		name, ch := spec, 0
		if i := strings.IndexByte(spec, '@'); i >= 0 {
			name = spec[:i]
			ch, _ = strconv.Atoi(spec[i+1:])
		}
		s.AddWidget(NewWidget(name, ch))
	}
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize returned %v", err)
	}
	return &testSurface{Surface: s, clock: clock, host: host}
}

// press sends a press and release
func (ts *testSurface) press(widget string) {
	ts.DoAction(widget, 1)
	ts.DoAction(widget, 0)
}
