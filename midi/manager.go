package midi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go-csurf/config"
	"go-csurf/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// DeviceEvent is emitted when the surface's ports connect/disconnect
type DeviceEvent struct {
	Type DeviceEventType
	Port *Port
	ID   string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// ErrPortScanTimeout is returned when the driver does not answer
var ErrPortScanTimeout = errors.New("midi port scan timed out")

const scanTimeout = 3 * time.Second

// Watcher keeps the configured surface ports open across hot-plugs
type Watcher struct {
	cfg     config.MIDIConfig
	widgets []config.WidgetConfig

	mu       sync.RWMutex
	port     *Port
	events   chan DeviceEvent
	pollRate time.Duration
}

// NewWatcher creates a watcher for the ports named in cfg
func NewWatcher(cfg config.MIDIConfig, widgets []config.WidgetConfig) *Watcher {
	return &Watcher{
		cfg:      cfg,
		widgets:  widgets,
		events:   make(chan DeviceEvent, 16),
		pollRate: time.Second,
	}
}

// Events returns a channel of connect/disconnect events
func (w *Watcher) Events() <-chan DeviceEvent {
	return w.events
}

// Port returns the open port, or nil
func (w *Watcher) Port() *Port {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.port
}

// Send forwards msg to the open port
func (w *Watcher) Send(msg gomidi.Message) error {
	p := w.Port()
	if p == nil {
		return ErrNotConnected
	}
	return p.Send(msg)
}

// Run starts the polling loop (blocking - run in goroutine)
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollRate)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-ctx.Done():
			w.closePort()
			close(w.events)
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// Ports lists the driver's ports. CoreMIDI can hang, so the call is
// abandoned after a few seconds.
func Ports() ([]drivers.In, []drivers.Out, error) {
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r.inPorts, r.outPorts, nil
	case <-time.After(scanTimeout):
		return nil, nil, ErrPortScanTimeout
	}
}

// matchPort returns the index of the first name containing want,
// ignoring case
func matchPort(names []string, want string) int {
	if want == "" {
		return -1
	}
	want = strings.ToLower(want)
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), want) {
			return i
		}
	}
	return -1
}

func names[T interface{ String() string }](ports []T) []string {
	out := make([]string, len(ports))
	for i, p := range ports {
		out[i] = p.String()
	}
	return out
}

func (w *Watcher) scan() {
	inPorts, outPorts, err := Ports()
	if err != nil {
		// skip this scan; user needs to run: sudo killall coreaudiod midiserver
		debug.Log("midi-scan", "%v", err)
		return
	}

	inIdx := matchPort(names(inPorts), w.cfg.Input)
	outIdx := matchPort(names(outPorts), w.cfg.Output)

	w.mu.RLock()
	current := w.port
	w.mu.RUnlock()

	if current != nil {
		if inIdx < 0 && outIdx < 0 {
			w.closePort()
			w.events <- DeviceEvent{Type: DeviceDisconnected, ID: current.ID()}
		}
		return
	}
	if inIdx < 0 && outIdx < 0 {
		return
	}

	var in drivers.In
	var out drivers.Out
	id := ""
	if inIdx >= 0 {
		in, id = inPorts[inIdx], inPorts[inIdx].String()
	}
	if outIdx >= 0 {
		out = outPorts[outIdx]
		if id == "" {
			id = out.String()
		}
	}

	p, err := Open(id, in, out, w.widgets)
	if err != nil {
		debug.Log("midi-scan", "open %s: %v", id, err)
		return
	}

	w.mu.Lock()
	w.port = p
	w.mu.Unlock()

	w.events <- DeviceEvent{Type: DeviceConnected, Port: p, ID: id}
}

func (w *Watcher) closePort() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.port != nil {
		w.port.Close()
		w.port = nil
	}
}
