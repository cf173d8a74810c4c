package midi

import (
	"math"
	"testing"

	"go-csurf/config"
	"go-csurf/engine"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func testWidgets() []config.WidgetConfig {
	return []config.WidgetConfig{
		{Name: "Fader1", Channel: 1, Kind: config.KindFader, MIDI: &config.MIDIMessage{Type: config.MsgPitchBend}},
		{Name: "Touch1", Channel: 1, Kind: config.KindTouch, MIDI: &config.MIDIMessage{Type: config.MsgNote, Number: 104}},
		{Name: "Rotary1", Channel: 1, Kind: config.KindEncoder, MIDI: &config.MIDIMessage{Type: config.MsgCC, Number: 16}},
		{Name: "Jog", Kind: config.KindEncoder, MIDI: &config.MIDIMessage{Type: config.MsgCC, Number: 60},
			Accel: &config.AccelTable{Inc: []uint8{1, 2, 4}, Dec: []uint8{127, 126, 124}}},
		{Name: "Play", Kind: config.KindButton, MIDI: &config.MIDIMessage{Type: config.MsgNote, Number: 94}},
		{Name: "Footswitch", Kind: config.KindButton, MIDI: &config.MIDIMessage{Type: config.MsgCC, Channel: 2, Number: 64}},
		{Name: "Expression", Kind: config.KindFader, MIDI: &config.MIDIMessage{Type: config.MsgCC, Number: 11}},
		{Name: "Display1", Channel: 1, Kind: config.KindDisplay, OSC: "/Display1"},
	}
}

func TestDecoder(t *testing.T) {
	d := NewDecoder(testWidgets())

	tests := []struct {
		name string
		msg  gomidi.Message
		want engine.Event
	}{
		{"note on", gomidi.NoteOn(0, 94, 127), engine.Event{Widget: "Play", Kind: engine.EventAbsolute, Value: 1}},
		{"note off", gomidi.NoteOff(0, 94), engine.Event{Widget: "Play", Kind: engine.EventAbsolute, Value: 0}},
		{"zero velocity", gomidi.NoteOn(0, 94, 0), engine.Event{Widget: "Play", Kind: engine.EventAbsolute, Value: 0}},
		{"touch", gomidi.NoteOn(0, 104, 127), engine.Event{Widget: "Touch1", Kind: engine.EventTouch, Value: 1}},
		{"release", gomidi.NoteOff(0, 104), engine.Event{Widget: "Touch1", Kind: engine.EventTouch, Value: 0}},
		{"pitchbend max", gomidi.Pitchbend(0, 8191), engine.Event{Widget: "Fader1", Kind: engine.EventAbsolute, Value: 1}},
		{"pitchbend min", gomidi.Pitchbend(0, -8192), engine.Event{Widget: "Fader1", Kind: engine.EventAbsolute, Value: 0}},
		{"encoder up", gomidi.ControlChange(0, 16, 1), engine.Event{Widget: "Rotary1", Kind: engine.EventAccelerated, Value: EncoderStep, Accel: 0}},
		{"encoder fast down", gomidi.ControlChange(0, 16, 67), engine.Event{Widget: "Rotary1", Kind: engine.EventAccelerated, Value: -3 * EncoderStep, Accel: 2}},
		{"table inc", gomidi.ControlChange(0, 60, 4), engine.Event{Widget: "Jog", Kind: engine.EventAccelerated, Value: EncoderStep, Accel: 2}},
		{"table dec", gomidi.ControlChange(0, 60, 126), engine.Event{Widget: "Jog", Kind: engine.EventAccelerated, Value: -EncoderStep, Accel: 1}},
		{"cc button", gomidi.ControlChange(2, 64, 100), engine.Event{Widget: "Footswitch", Kind: engine.EventAbsolute, Value: 1}},
		{"cc fader", gomidi.ControlChange(0, 11, 127), engine.Event{Widget: "Expression", Kind: engine.EventAbsolute, Value: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Decode(tt.msg)
			if !ok {
				t.Fatalf("Expected %v to decode", tt.msg)
			}
			if got.Widget != tt.want.Widget || got.Kind != tt.want.Kind || got.Accel != tt.want.Accel ||
				math.Abs(got.Value-tt.want.Value) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDecoder_Unbound(t *testing.T) {
	d := NewDecoder(testWidgets())

	for name, msg := range map[string]gomidi.Message{
		"other note":     gomidi.NoteOn(0, 1, 127),
		"other channel":  gomidi.NoteOn(5, 94, 127),
		"unlisted byte":  gomidi.ControlChange(0, 60, 3),
		"encoder zero":   gomidi.ControlChange(0, 16, 0),
		"other bend":     gomidi.Pitchbend(3, 0),
		"program change": gomidi.ProgramChange(0, 1),
	} {
		if ev, ok := d.Decode(msg); ok {
			t.Errorf("%s: Expected no event, got %v", name, ev)
		}
	}
}

func TestMatchPort(t *testing.T) {
	ports := []string{"Midi Through Port-0", "X-Touch MIDI 1", "X-Touch-Ext MIDI 1"}

	tests := []struct {
		want string
		idx  int
	}{
		{"x-touch", 1},
		{"EXT", 2},
		{"launchpad", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := matchPort(ports, tt.want); got != tt.idx {
			t.Errorf("matchPort(%q): Expected %d, got %d", tt.want, tt.idx, got)
		}
	}
}
