package midi

import (
	"go-csurf/config"
	"go-csurf/engine"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// EncoderStep is the value change of one encoder tick
const EncoderStep = 0.01

// key identifies an incoming message slot; pitchbend has no number
type key struct {
	typ     string
	channel uint8
	number  uint8
}

type binding struct {
	name  string
	kind  config.WidgetKind
	accel *config.AccelTable
}

// Decoder turns MIDI messages into widget events
type Decoder struct {
	bindings map[key]binding
}

// NewDecoder indexes the widgets that carry a MIDI binding
func NewDecoder(widgets []config.WidgetConfig) *Decoder {
	d := &Decoder{bindings: make(map[key]binding)}
	for _, w := range widgets {
		if w.MIDI == nil {
			continue
		}
		k := keyOf(*w.MIDI)
		d.bindings[k] = binding{name: w.Name, kind: w.Kind, accel: w.Accel}
	}
	return d
}

func keyOf(m config.MIDIMessage) key {
	if m.Type == config.MsgPitchBend {
		return key{typ: m.Type, channel: m.Channel}
	}
	return key{typ: m.Type, channel: m.Channel, number: m.Number}
}

// Decode returns the event for msg, or false when no widget listens to it
func (d *Decoder) Decode(msg gomidi.Message) (engine.Event, bool) {
	var ch, num, val uint8
	var rel int16
	var abs uint16

	switch {
	case msg.GetNoteStart(&ch, &num, &val):
		return d.note(key{config.MsgNote, ch, num}, 1)
	case msg.GetNoteEnd(&ch, &num):
		return d.note(key{config.MsgNote, ch, num}, 0)
	case msg.GetControlChange(&ch, &num, &val):
		return d.control(key{config.MsgCC, ch, num}, val)
	case msg.GetPitchBend(&ch, &rel, &abs):
		b, ok := d.bindings[key{typ: config.MsgPitchBend, channel: ch}]
		if !ok {
			return engine.Event{}, false
		}
		return engine.Event{Widget: b.name, Kind: engine.EventAbsolute, Value: float64(abs) / 16383}, true
	}
	return engine.Event{}, false
}

func (d *Decoder) note(k key, v float64) (engine.Event, bool) {
	b, ok := d.bindings[k]
	if !ok {
		return engine.Event{}, false
	}
	kind := engine.EventAbsolute
	if b.kind == config.KindTouch {
		kind = engine.EventTouch
	}
	return engine.Event{Widget: b.name, Kind: kind, Value: v}, true
}

func (d *Decoder) control(k key, val uint8) (engine.Event, bool) {
	b, ok := d.bindings[k]
	if !ok {
		return engine.Event{}, false
	}
	switch b.kind {
	case config.KindEncoder:
		delta, idx, ok := encoderDelta(val, b.accel)
		if !ok {
			return engine.Event{}, false
		}
		return engine.Event{Widget: b.name, Kind: engine.EventAccelerated, Value: delta, Accel: idx}, true
	case config.KindButton:
		return engine.Event{Widget: b.name, Kind: engine.EventAbsolute, Value: boolValue(val > 0)}, true
	case config.KindTouch:
		return engine.Event{Widget: b.name, Kind: engine.EventTouch, Value: boolValue(val > 0)}, true
	}
	return engine.Event{Widget: b.name, Kind: engine.EventAbsolute, Value: float64(val) / 127}, true
}

// encoderDelta decodes a relative data byte. With a table the byte's
// position is the acceleration index; without one 1-63 counts up and
// 65-127 counts down, the tick count setting both size and index.
func encoderDelta(val uint8, accel *config.AccelTable) (float64, int, bool) {
	if accel != nil {
		for i, b := range accel.Inc {
			if b == val {
				return EncoderStep, i, true
			}
		}
		for i, b := range accel.Dec {
			if b == val {
				return -EncoderStep, i, true
			}
		}
		return 0, 0, false
	}
	switch {
	case val >= 1 && val <= 63:
		return EncoderStep * float64(val), int(val) - 1, true
	case val >= 65:
		ticks := int(val) - 64
		return -EncoderStep * float64(ticks), ticks - 1, true
	}
	return 0, 0, false
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
