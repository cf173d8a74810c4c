package osc

import (
	"testing"

	"go-csurf/config"
	"go-csurf/engine"

	"github.com/hypebeast/go-osc/osc"
)

func message(addr string, args ...interface{}) *osc.Message {
	msg := osc.NewMessage(addr)
	for _, a := range args {
		msg.Append(a)
	}
	return msg
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		b    binding
		msg  *osc.Message
		want engine.Event
		ok   bool
	}{
		{"fader float", binding{"Fader1", config.KindFader}, message("/Fader1", float32(0.5)),
			engine.Event{Widget: "Fader1", Kind: engine.EventAbsolute, Value: 0.5}, true},
		{"button int", binding{"Play", config.KindButton}, message("/Play", int32(0)),
			engine.Event{Widget: "Play", Kind: engine.EventAbsolute, Value: 0}, true},
		{"button bare", binding{"Play", config.KindButton}, message("/Play"),
			engine.Event{Widget: "Play", Kind: engine.EventAbsolute, Value: 1}, true},
		{"encoder delta", binding{"Rotary1", config.KindEncoder}, message("/Rotary1", float64(-0.05)),
			engine.Event{Widget: "Rotary1", Kind: engine.EventRelative, Value: -0.05}, true},
		{"touch bool", binding{"Fader1", config.KindTouch}, message("/Fader1/touch", true),
			engine.Event{Widget: "Fader1", Kind: engine.EventTouch, Value: 1}, true},
		{"string rejected", binding{"Play", config.KindButton}, message("/Play", "on"),
			engine.Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decode(tt.b, tt.msg)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestServer_Dispatch(t *testing.T) {
	s, err := NewServer([]config.WidgetConfig{
		{Name: "Fader1", Kind: config.KindFader, OSC: "/Fader1"},
		{Name: "Display1", Kind: config.KindDisplay, OSC: "/Display1"},
	})
	if err != nil {
		t.Fatal(err)
	}

	s.dispatcher.Dispatch(message("/Fader1", float32(0.25)))
	s.dispatcher.Dispatch(message("/Fader1/touch", int32(1)))
	s.dispatcher.Dispatch(message("/Display1", "ignored"))

	want := []engine.Event{
		{Widget: "Fader1", Kind: engine.EventAbsolute, Value: 0.25},
		{Widget: "Fader1", Kind: engine.EventTouch, Value: 1},
	}
	for _, w := range want {
		select {
		case got := <-s.Events():
			if got != w {
				t.Errorf("Expected %v, got %v", w, got)
			}
		default:
			t.Fatalf("Expected event %v", w)
		}
	}
	select {
	case ev := <-s.Events():
		t.Errorf("Expected displays to take no input, got %v", ev)
	default:
	}
}
