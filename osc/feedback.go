package osc

import (
	"fmt"
	"net"
	"strconv"

	"go-csurf/config"
	"go-csurf/debug"
	"go-csurf/engine"
	"go-csurf/theme"

	"github.com/hypebeast/go-osc/osc"
)

// ColorSuffix is appended to a widget address for its colour
const ColorSuffix = "/color"

// Sender delivers feedback messages
type Sender interface {
	Send(packet osc.Packet) error
}

// NewClient dials the feedback destination given as host:port
func NewClient(remote string) (*osc.Client, error) {
	host, portStr, err := net.SplitHostPort(remote)
	if err != nil {
		return nil, fmt.Errorf("osc remote %q: %w", remote, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("osc remote port %q: %w", portStr, err)
	}
	return osc.NewClient(host, port), nil
}

// Feedback renders a widget to its OSC address
type Feedback struct {
	addr   string
	sender Sender
}

func NewFeedback(addr string, sender Sender) *Feedback {
	return &Feedback{addr: addr, sender: sender}
}

// Attach adds OSC feedback to every surface widget with an address
func Attach(s *engine.Surface, widgets []config.WidgetConfig, sender Sender) {
	for _, wc := range widgets {
		if wc.OSC == "" {
			continue
		}
		if w, ok := s.Widget(wc.Name); ok {
			w.AddFeedback(NewFeedback(wc.OSC, sender))
		}
	}
}

func (f *Feedback) SetValue(_ map[string]string, v float64) {
	f.send(f.addr, float32(v))
}

func (f *Feedback) SetColor(_ map[string]string, c theme.RGB) {
	f.send(f.addr+ColorSuffix, c.Hex())
}

func (f *Feedback) SetText(_ map[string]string, text string) {
	f.send(f.addr, text)
}

func (f *Feedback) Clear() {
	f.send(f.addr, float32(0))
	f.send(f.addr, "")
}

func (f *Feedback) send(addr string, arg interface{}) {
	msg := osc.NewMessage(addr)
	msg.Append(arg)
	if err := f.sender.Send(msg); err != nil {
		debug.Log("osc-send", "%s: %v", addr, err)
	}
}
