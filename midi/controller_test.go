package midi

import (
	"errors"
	"testing"

	"go-csurf/engine"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type fakePort struct {
	name   string
	open   bool
	closed bool
}

func (p *fakePort) Open() error             { p.open = true; return nil }
func (p *fakePort) Close() error            { p.open, p.closed = false, true; return nil }
func (p *fakePort) IsOpen() bool            { return p.open }
func (p *fakePort) Number() int             { return 0 }
func (p *fakePort) String() string          { return p.name }
func (p *fakePort) Underlying() interface{} { return nil }

type fakeIn struct {
	fakePort
	listenErr error
	onMsg     func([]byte, int32)
}

func (p *fakeIn) Listen(onMsg func([]byte, int32), _ drivers.ListenConfig) (func(), error) {
	if p.listenErr != nil {
		return nil, p.listenErr
	}
	p.onMsg = onMsg
	return func() {}, nil
}

type fakeOut struct {
	fakePort
	sent [][]byte
}

func (p *fakeOut) Send(data []byte) error {
	p.sent = append(p.sent, data)
	return nil
}

func TestOpen_ListenErrorClosesPorts(t *testing.T) {
	in := &fakeIn{fakePort: fakePort{name: "in"}, listenErr: errors.New("busy")}
	out := &fakeOut{fakePort: fakePort{name: "out"}}

	if _, err := Open("surface", in, out, testWidgets()); err == nil {
		t.Fatal("Expected an error when the input cannot listen")
	}
	if !out.closed {
		t.Errorf("Expected output closed after a failed open")
	}
	if !in.closed {
		t.Errorf("Expected input closed after a failed open")
	}
}

func TestPort_CloseEndsEvents(t *testing.T) {
	in := &fakeIn{fakePort: fakePort{name: "in"}}
	out := &fakeOut{fakePort: fakePort{name: "out"}}

	p, err := Open("surface", in, out, testWidgets())
	if err != nil {
		t.Fatal(err)
	}

	in.onMsg(gomidi.NoteOn(0, 94, 127).Bytes(), 0)
	ev := <-p.Events()
	if ev != (engine.Event{Widget: "Play", Kind: engine.EventAbsolute, Value: 1}) {
		t.Errorf("Expected Play press, got %v", ev)
	}

	if err := p.Send(gomidi.NoteOn(0, 94, 127)); err != nil || len(out.sent) != 1 {
		t.Errorf("Expected one message sent, got %d (%v)", len(out.sent), err)
	}

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-p.Events(); ok {
		t.Errorf("Expected events channel closed")
	}

	// late input after close is dropped
	in.onMsg(gomidi.NoteOn(0, 94, 127).Bytes(), 0)
	if err := p.Close(); err != nil {
		t.Errorf("Expected second close to be a no-op, got %v", err)
	}
}
