package midi

import (
	"fmt"
	"sync"

	"go-csurf/config"
	"go-csurf/debug"
	"go-csurf/engine"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Port is an open surface connection. Either side may be nil.
type Port struct {
	id       string
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg gomidi.Message) error
	stopFunc func()

	decoder *Decoder

	mu     sync.Mutex
	closed bool
	events chan engine.Event
}

// Open starts listening on in and prepares out for feedback
func Open(id string, in drivers.In, out drivers.Out, widgets []config.WidgetConfig) (*Port, error) {
	p := &Port{
		id:      id,
		inPort:  in,
		outPort: out,
		decoder: NewDecoder(widgets),
		events:  make(chan engine.Event, 64),
	}

	if out != nil {
		send, err := gomidi.SendTo(out)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("open output: %w", err)
		}
		p.send = send
	}

	if in != nil {
		stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
			ev, ok := p.decoder.Decode(msg)
			if !ok {
				debug.Log("midi-in", "unbound %v", msg)
				return
			}
			p.push(ev)
		})
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("open input: %w", err)
		}
		p.stopFunc = stop
	}

	return p, nil
}

func (p *Port) push(ev engine.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.events <- ev:
	default:
		debug.Log("midi-in", "dropped %v", ev)
	}
}

func (p *Port) ID() string { return p.id }

// Events delivers decoded input until the port is closed
func (p *Port) Events() <-chan engine.Event { return p.events }

// Send writes msg to the output side
func (p *Port) Send(msg gomidi.Message) error {
	if p.send == nil {
		return ErrNotConnected
	}
	return p.send(msg)
}

// Close stops the listener, closes both sides and the event channel
func (p *Port) Close() error {
	if p.stopFunc != nil {
		p.stopFunc()
		p.stopFunc = nil
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()

	var err error
	if p.inPort != nil {
		err = p.inPort.Close()
	}
	if p.outPort != nil {
		if cerr := p.outPort.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
