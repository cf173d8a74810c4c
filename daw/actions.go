package daw

import (
	"fmt"
	"math"

	"go-csurf/engine"
)

// Volume range exposed by TrackVolumeDB
const (
	MinDB = -144.0
	MaxDB = 24.0
)

func dbToNorm(db float64) float64 {
	return (math.Min(math.Max(db, MinDB), MaxDB) - MinDB) / (MaxDB - MinDB)
}

func normToDB(v float64) float64 {
	return MinDB + v*(MaxDB-MinDB)
}

// Catalogue returns the session's actions
func (s *Session) Catalogue() engine.Catalogue {
	return engine.Catalogue{
		"TrackVolume":         trackVolume{s},
		"TrackVolumeDB":       trackVolumeDB{s},
		"TrackPan":            trackPan{s},
		"TrackMute":           trackToggle{s, func(t *Track) *bool { return &t.Mute }},
		"TrackSolo":           trackToggle{s, func(t *Track) *bool { return &t.Solo }},
		"TrackSelect":         trackSelect{s},
		"TrackNameDisplay":    trackNameDisplay{s},
		"TrackVolumeDisplay":  trackVolumeDisplay{s},
		"TrackSendVolume":     trackSendVolume{s},
		"FXParam":             fxParam{s},
		"FXParamNameDisplay":  fxParamNameDisplay{s},
		"FXParamValueDisplay": fxParamValueDisplay{s},
		"BankLeft":            bank{s, -1},
		"BankRight":           bank{s, 1},
		"Play":                transport{s, true},
		"Stop":                transport{s, false},
		"Command":             command{s},
	}
}

func targetTrack(ctx *engine.ActionContext) (*Track, bool) {
	t, ok := ctx.Target()
	if !ok {
		return nil, false
	}
	tr, ok := t.(*Track)
	return tr, ok
}

type trackVolume struct{ s *Session }

func (a trackVolume) Do(ctx *engine.ActionContext, v float64) {
	if t, ok := targetTrack(ctx); ok {
		a.s.mu.Lock()
		t.Volume = v
		a.s.mu.Unlock()
	}
}

func (a trackVolume) CurrentNormalizedValue(ctx *engine.ActionContext) float64 {
	t, ok := targetTrack(ctx)
	if !ok {
		return 0
	}
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return t.Volume
}

func (a trackVolume) RequestUpdate(ctx *engine.ActionContext) {
	if _, ok := targetTrack(ctx); !ok {
		ctx.ClearWidget()
		return
	}
	ctx.UpdateValue(a.CurrentNormalizedValue(ctx))
}

func (a trackVolume) Touch(ctx *engine.ActionContext, v float64) {
	if t, ok := targetTrack(ctx); ok {
		a.s.mu.Lock()
		t.Touched = v != 0
		a.s.mu.Unlock()
	}
}

// trackVolumeDB takes values in dB
type trackVolumeDB struct{ s *Session }

func (trackVolumeDB) Range() (float64, float64) { return MinDB, MaxDB }

func (a trackVolumeDB) Do(ctx *engine.ActionContext, db float64) {
	trackVolume(a).Do(ctx, dbToNorm(db))
}

func (a trackVolumeDB) CurrentNormalizedValue(ctx *engine.ActionContext) float64 {
	return normToDB(trackVolume(a).CurrentNormalizedValue(ctx))
}

func (a trackVolumeDB) RequestUpdate(ctx *engine.ActionContext) {
	trackVolume(a).RequestUpdate(ctx)
}

type trackPan struct{ s *Session }

func (a trackPan) Do(ctx *engine.ActionContext, v float64) {
	if t, ok := targetTrack(ctx); ok {
		a.s.mu.Lock()
		t.Pan = v
		a.s.mu.Unlock()
	}
}

func (a trackPan) CurrentNormalizedValue(ctx *engine.ActionContext) float64 {
	t, ok := targetTrack(ctx)
	if !ok {
		return 0.5
	}
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return t.Pan
}

func (a trackPan) RequestUpdate(ctx *engine.ActionContext) {
	if _, ok := targetTrack(ctx); !ok {
		ctx.ClearWidget()
		return
	}
	ctx.UpdateValue(a.CurrentNormalizedValue(ctx))
}

// trackToggle flips a boolean field on press
type trackToggle struct {
	s     *Session
	field func(*Track) *bool
}

func (a trackToggle) Do(ctx *engine.ActionContext, v float64) {
	if v == 0 {
		return
	}
	if t, ok := targetTrack(ctx); ok {
		a.s.mu.Lock()
		f := a.field(t)
		*f = !*f
		a.s.mu.Unlock()
	}
}

func (a trackToggle) RequestUpdate(ctx *engine.ActionContext) {
	t, ok := targetTrack(ctx)
	if !ok {
		ctx.ClearWidget()
		return
	}
	a.s.mu.RLock()
	on := *a.field(t)
	a.s.mu.RUnlock()
	ctx.UpdateValue(boolValue(on))
}

type trackSelect struct{ s *Session }

func (a trackSelect) Do(ctx *engine.ActionContext, v float64) {
	if v == 0 {
		return
	}
	if t, ok := targetTrack(ctx); ok {
		a.s.Select(t)
	}
}

func (a trackSelect) RequestUpdate(ctx *engine.ActionContext) {
	t, ok := targetTrack(ctx)
	if !ok {
		ctx.ClearWidget()
		return
	}
	a.s.mu.RLock()
	on := t.Selected
	a.s.mu.RUnlock()
	ctx.UpdateValue(boolValue(on))
}

type trackNameDisplay struct{ s *Session }

func (trackNameDisplay) Do(*engine.ActionContext, float64) {}

func (a trackNameDisplay) RequestUpdate(ctx *engine.ActionContext) {
	t, ok := targetTrack(ctx)
	if !ok {
		ctx.ClearWidget()
		return
	}
	ctx.UpdateText(t.Name)
}

type trackVolumeDisplay struct{ s *Session }

func (trackVolumeDisplay) Do(*engine.ActionContext, float64) {}

func (a trackVolumeDisplay) RequestUpdate(ctx *engine.ActionContext) {
	if _, ok := targetTrack(ctx); !ok {
		ctx.ClearWidget()
		return
	}
	db := normToDB(trackVolume(a).CurrentNormalizedValue(ctx))
	ctx.UpdateText(fmt.Sprintf("%.1f dB", db))
}

// trackSendVolume addresses the send at the binding's slot
type trackSendVolume struct{ s *Session }

func (a trackSendVolume) send(ctx *engine.ActionContext) (*Track, int, bool) {
	t, ok := targetTrack(ctx)
	if !ok {
		return nil, 0, false
	}
	idx := ctx.SlotIndex()
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	if idx >= len(t.Sends) {
		return nil, 0, false
	}
	return t, idx, true
}

func (a trackSendVolume) Do(ctx *engine.ActionContext, v float64) {
	if t, idx, ok := a.send(ctx); ok {
		a.s.mu.Lock()
		t.Sends[idx] = v
		a.s.mu.Unlock()
	}
}

func (a trackSendVolume) CurrentNormalizedValue(ctx *engine.ActionContext) float64 {
	t, idx, ok := a.send(ctx)
	if !ok {
		return 0
	}
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return t.Sends[idx]
}

func (a trackSendVolume) RequestUpdate(ctx *engine.ActionContext) {
	if _, _, ok := a.send(ctx); !ok {
		ctx.ClearWidget()
		return
	}
	ctx.UpdateValue(a.CurrentNormalizedValue(ctx))
}

// fxParam addresses parameter IntParam of the FX in the zone's slot
type fxParam struct{ s *Session }

func (a fxParam) param(ctx *engine.ActionContext) (*Param, bool) {
	t, ok := ctx.Target()
	z := ctx.Zone()
	if !ok || z == nil {
		return nil, false
	}
	return a.s.param(t, z.SlotIndex(), ctx.IntParam())
}

func (a fxParam) Do(ctx *engine.ActionContext, v float64) {
	if p, ok := a.param(ctx); ok {
		a.s.mu.Lock()
		p.Value = v
		a.s.mu.Unlock()
	}
}

func (a fxParam) CurrentNormalizedValue(ctx *engine.ActionContext) float64 {
	p, ok := a.param(ctx)
	if !ok {
		return 0
	}
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return p.Value
}

func (a fxParam) RequestUpdate(ctx *engine.ActionContext) {
	if _, ok := a.param(ctx); !ok {
		ctx.ClearWidget()
		return
	}
	ctx.UpdateValue(a.CurrentNormalizedValue(ctx))
}

// fxParamNameDisplay shows the alias passed as the second parameter, or the
// parameter's own name
type fxParamNameDisplay struct{ s *Session }

func (fxParamNameDisplay) Do(*engine.ActionContext, float64) {}

func (a fxParamNameDisplay) RequestUpdate(ctx *engine.ActionContext) {
	p, ok := fxParam(a).param(ctx)
	if !ok {
		ctx.ClearWidget()
		return
	}
	if params := ctx.Params(); len(params) > 1 && params[1] != "" {
		ctx.UpdateText(params[1])
		return
	}
	ctx.UpdateText(p.Name)
}

type fxParamValueDisplay struct{ s *Session }

func (fxParamValueDisplay) Do(*engine.ActionContext, float64) {}

func (a fxParamValueDisplay) RequestUpdate(ctx *engine.ActionContext) {
	if _, ok := fxParam(a).param(ctx); !ok {
		ctx.ClearWidget()
		return
	}
	ctx.UpdateText(fmt.Sprintf("%.2f", fxParam(a).CurrentNormalizedValue(ctx)))
}

type bank struct {
	s     *Session
	delta int
}

func (a bank) Do(_ *engine.ActionContext, v float64) {
	if v != 0 {
		a.s.AdjustBank(a.delta)
	}
}

type transport struct {
	s    *Session
	play bool
}

func (a transport) Do(_ *engine.ActionContext, v float64) {
	if v != 0 {
		a.s.setPlaying(a.play)
	}
}

func (a transport) RequestUpdate(ctx *engine.ActionContext) {
	ctx.UpdateValue(boolValue(a.s.Playing() == a.play))
}

// command runs the host command named or numbered by its first parameter
type command struct{ s *Session }

func (a command) Do(ctx *engine.ActionContext, v float64) {
	if v != 0 && ctx.CommandID() != 0 {
		a.s.RunCommand(ctx.CommandID())
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
