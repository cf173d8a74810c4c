// Package osc binds surface widgets to OSC addresses for touch-screen
// control apps.
package osc

import (
	"fmt"
	"net"

	"go-csurf/config"
	"go-csurf/debug"
	"go-csurf/engine"

	"github.com/hypebeast/go-osc/osc"
)

// TouchSuffix is appended to a fader address for its touch message
const TouchSuffix = "/touch"

type binding struct {
	name string
	kind config.WidgetKind
}

// Server receives OSC messages and decodes them into widget events
type Server struct {
	dispatcher *osc.StandardDispatcher
	server     *osc.Server
	conn       net.PacketConn
	events     chan engine.Event
}

// NewServer registers a handler per widget address
func NewServer(widgets []config.WidgetConfig) (*Server, error) {
	s := &Server{
		dispatcher: osc.NewStandardDispatcher(),
		events:     make(chan engine.Event, 64),
	}
	for _, w := range widgets {
		if w.OSC == "" || w.Kind == config.KindDisplay {
			continue
		}
		b := binding{name: w.Name, kind: w.Kind}
		if err := s.dispatcher.AddMsgHandler(w.OSC, s.handler(w.OSC, b)); err != nil {
			return nil, fmt.Errorf("osc address %s: %w", w.OSC, err)
		}
		if w.Kind == config.KindFader {
			touch := binding{name: w.Name, kind: config.KindTouch}
			if err := s.dispatcher.AddMsgHandler(w.OSC+TouchSuffix, s.handler(w.OSC+TouchSuffix, touch)); err != nil {
				return nil, fmt.Errorf("osc address %s: %w", w.OSC+TouchSuffix, err)
			}
		}
	}
	return s, nil
}

// handler ignores messages whose address only partially matches addr
func (s *Server) handler(addr string, b binding) func(*osc.Message) {
	return func(msg *osc.Message) {
		if msg.Address != addr {
			return
		}
		ev, ok := decode(b, msg)
		if !ok {
			debug.Log("osc-in", "bad arguments %v", msg)
			return
		}
		select {
		case s.events <- ev:
		default:
			debug.Log("osc-in", "dropped %v", ev)
		}
	}
}

// Events delivers decoded input; the channel is never closed
func (s *Server) Events() <-chan engine.Event { return s.events }

// Listen starts serving on addr in the background
func (s *Server) Listen(addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("osc listen: %w", err)
	}
	s.conn = conn
	s.server = &osc.Server{Addr: addr, Dispatcher: s.dispatcher}
	go func() {
		if err := s.server.Serve(conn); err != nil {
			debug.Log("osc-in", "serve: %v", err)
		}
	}()
	return nil
}

// Addr is the bound address, nil before Listen
func (s *Server) Addr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Close stops the listener
func (s *Server) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// decode maps the first argument to a widget event. Encoders send deltas.
func decode(b binding, msg *osc.Message) (engine.Event, bool) {
	v := 1.0
	if len(msg.Arguments) > 0 {
		var ok bool
		if v, ok = number(msg.Arguments[0]); !ok {
			return engine.Event{}, false
		}
	}

	ev := engine.Event{Widget: b.name, Kind: engine.EventAbsolute, Value: v}
	switch b.kind {
	case config.KindEncoder:
		ev.Kind = engine.EventRelative
	case config.KindTouch:
		ev.Kind = engine.EventTouch
	}
	return ev, true
}

func number(arg interface{}) (float64, bool) {
	switch a := arg.(type) {
	case float32:
		return float64(a), true
	case float64:
		return a, true
	case int32:
		return float64(a), true
	case int64:
		return float64(a), true
	case bool:
		if a {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
