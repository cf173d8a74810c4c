package engine

import (
	"math"
	"testing"
)

type touchRecorder struct {
	recorder
	touches []float64
}

func (r *touchRecorder) Touch(_ *ActionContext, v float64) { r.touches = append(r.touches, v) }

func TestHandle_RoutesByKind(t *testing.T) {
	rec := &touchRecorder{recorder: recorder{current: 0.5}}
	ts := newTestSurface(t, "Zone \"Home\"\n\tFader1 Vol\nZoneEnd\n", Catalogue{"Vol": rec}, "Fader1@1")

	events := []Event{
		{Widget: "Fader1", Kind: EventAbsolute, Value: 0.2},
		{Widget: "Fader1", Kind: EventRelative, Value: 0.1},
		{Widget: "Fader1", Kind: EventAccelerated, Value: -0.3, Accel: 4},
		{Widget: "Fader1", Kind: EventTouch, Value: 1},
	}
	for _, ev := range events {
		if !ts.Handle(ev) {
			t.Errorf("Expected %v to be claimed", ev)
		}
	}

	want := []float64{0.2, 0.3, 0}
	if len(rec.values) != len(want) {
		t.Fatalf("Expected %v, got %v", want, rec.values)
	}
	for i := range want {
		if math.Abs(rec.values[i]-want[i]) > 1e-9 {
			t.Errorf("value %d: Expected %v, got %v", i, want[i], rec.values[i])
		}
	}
	if len(rec.touches) != 1 || rec.touches[0] != 1 {
		t.Errorf("Expected one touch, got %v", rec.touches)
	}
	if !ts.Modifiers().Touched(1) {
		t.Errorf("Expected channel 1 touched")
	}

	if ts.Handle(Event{Widget: "Nope", Kind: EventAbsolute, Value: 1}) {
		t.Errorf("Expected unknown widget to be unclaimed")
	}
}

func TestEvent_String(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Widget: "Play", Kind: EventAbsolute, Value: 1}, "Play abs 1.000"},
		{Event{Widget: "Rotary1", Kind: EventAccelerated, Value: -0.02, Accel: 1}, "Rotary1 accel -0.020 [1]"},
		{Event{Widget: "Fader1", Kind: EventTouch}, "Fader1 touch 0.000"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}
