package midi

import (
	"errors"
	"math"
	"sync/atomic"

	"go-csurf/config"
	"go-csurf/debug"
	"go-csurf/engine"
	"go-csurf/theme"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// ErrNotConnected is returned when feedback has no output port
var ErrNotConnected = errors.New("midi output not connected")

var sendCount atomic.Uint64

// SendCount is the number of feedback messages sent since start
func SendCount() uint64 { return sendCount.Load() }

// Feedback renders widget values as MIDI. Buttons with a palette light in
// the nearest palette colour.
type Feedback struct {
	msg     config.MIDIMessage
	palette *theme.Palette
	send    func(gomidi.Message) error

	color    uint8
	hasColor bool
	value    float64
}

// NewFeedback returns a processor for w, or false when w has no MIDI binding
func NewFeedback(w config.WidgetConfig, send func(gomidi.Message) error, palette *theme.Palette) (*Feedback, bool) {
	m := w.FeedbackMIDI()
	if m == nil || send == nil {
		return nil, false
	}
	f := &Feedback{msg: *m, send: send}
	if w.Kind == config.KindButton && m.Type == config.MsgNote {
		f.palette = palette
	}
	return f, true
}

func (f *Feedback) SetValue(_ map[string]string, v float64) {
	f.value = v
	f.write(f.encode(v))
}

func (f *Feedback) SetColor(_ map[string]string, c theme.RGB) {
	if f.palette == nil || len(f.palette.Colors) == 0 {
		return
	}
	f.color, f.hasColor = f.palette.Nearest(c), true
	if f.value != 0 {
		f.write(f.encode(f.value))
	}
}

// SetText is a no-op; MIDI widgets have no text
func (f *Feedback) SetText(map[string]string, string) {}

func (f *Feedback) Clear() {
	f.value, f.hasColor = 0, false
	f.write(f.encode(0))
}

func (f *Feedback) encode(v float64) gomidi.Message {
	v = min(max(v, 0), 1)
	switch f.msg.Type {
	case config.MsgPitchBend:
		return gomidi.Pitchbend(f.msg.Channel, int16(math.Round(v*16383))-8192)
	case config.MsgCC:
		return gomidi.ControlChange(f.msg.Channel, f.msg.Number, uint8(math.Round(v*127)))
	}
	var vel uint8
	if v != 0 {
		vel = 127
		if f.hasColor {
			vel = f.color
		}
	}
	return gomidi.NoteOn(f.msg.Channel, f.msg.Number, vel)
}

func (f *Feedback) write(msg gomidi.Message) {
	err := f.send(msg)
	switch {
	case errors.Is(err, ErrNotConnected):
	case err != nil:
		debug.Log("midi-send", "%v: %v", msg, err)
	default:
		sendCount.Add(1)
	}
}

// Attach adds MIDI feedback to every surface widget with a binding. send
// is usually Watcher.Send so feedback follows reconnects.
func Attach(s *engine.Surface, widgets []config.WidgetConfig, send func(gomidi.Message) error, palette *theme.Palette) {
	for _, wc := range widgets {
		w, ok := s.Widget(wc.Name)
		if !ok {
			continue
		}
		if fp, ok := NewFeedback(wc, send, palette); ok {
			w.AddFeedback(fp)
		}
	}
}
