package engine

import (
	"math"
	"strconv"
	"time"

	"go-csurf/debug"
	"go-csurf/theme"
	"go-csurf/zonefile"
)

// ActionContext is one binding instantiated in a zone: an action, its widget
// and the value transform between them.
type ActionContext struct {
	id      int
	surface *Surface
	zone    ZoneID
	widget  *Widget
	action  Action
	name    string
	index   int

	provideFeedback bool
	freed           bool

	plain      []string
	properties map[string]string
	intParam   int
	commandID  int

	rangeMin, rangeMax float64
	explicitRange      bool
	stepped            []float64
	delta              float64
	accelDeltas        []float64
	accelTicks         []int
	colors             []theme.RGB
	trackColor         bool

	valueInverted    bool
	feedbackInverted bool
	holdDelay        time.Duration
}

func (s *Surface) newContext(zone ZoneID, w *Widget, a Action, b zonefile.Binding) *ActionContext {
	vp, err := zonefile.ParseValueParams(b.Params)
	if err != nil {
		// the parser already validated the line; generated bindings may not have been
		debug.Log("bind", "%s %s: %v", b.Widget, b.Action, err)
	}

	s.nextContext++
	c := &ActionContext{
		id:               s.nextContext,
		surface:          s,
		zone:             zone,
		widget:           w,
		action:           a,
		name:             b.Action,
		index:            b.Index,
		provideFeedback:  b.ProvideFeedback,
		plain:            vp.Plain,
		properties:       vp.Properties,
		rangeMin:         0,
		rangeMax:         1,
		stepped:          vp.Stepped,
		delta:            vp.Delta,
		accelDeltas:      vp.AccelDeltas,
		accelTicks:       vp.AccelTicks,
		colors:           vp.Colors,
		trackColor:       vp.TrackColor,
		valueInverted:    b.ValueInverted,
		feedbackInverted: b.FeedbackInverted,
		holdDelay:        time.Duration(b.HoldDelay * float64(time.Second)),
	}

	if r, ok := a.(Ranged); ok {
		c.rangeMin, c.rangeMax = r.Range()
		if len(c.stepped) == 2 {
			c.rangeMin, c.rangeMax = c.stepped[0], c.stepped[1]
			c.stepped = nil
			c.explicitRange = true
		}
	}
	if vp.HasRange {
		c.rangeMin, c.rangeMax = vp.RangeMin, vp.RangeMax
		c.explicitRange = true
	}

	for _, p := range c.plain {
		if n, err := strconv.Atoi(p); err == nil {
			c.intParam = n
			break
		}
	}
	c.commandID = c.intParam
	if cr, ok := s.host.(CommandResolver); ok && len(c.plain) > 0 {
		if id, ok := cr.CommandID(c.plain[0]); ok {
			c.commandID = id
		}
	}
	return c
}

// Name is the bound action's name
func (c *ActionContext) Name() string { return c.name }

// Widget is the widget the binding belongs to
func (c *ActionContext) Widget() *Widget { return c.widget }

// Surface owning the binding
func (c *ActionContext) Surface() *Surface { return c.surface }

// Zone owning the binding, nil once the zone has been torn down
func (c *ActionContext) Zone() *Zone { return c.surface.zone(c.zone) }

// Index is the binding's position in a wildcard expansion, 0 when the
// binding was not expanded.
func (c *ActionContext) Index() int { return c.index }

// Params are the positional parameters left after value blocks and
// properties were taken out.
func (c *ActionContext) Params() []string { return c.plain }

// StringParam is the first positional parameter
func (c *ActionContext) StringParam() string {
	if len(c.plain) == 0 {
		return ""
	}
	return c.plain[0]
}

// IntParam is the first positional parameter that parses as an integer
func (c *ActionContext) IntParam() int { return c.intParam }

// CommandID is the host command id, resolved by name when the host can
func (c *ActionContext) CommandID() int { return c.commandID }

// Property returns a Key=Value property of the binding
func (c *ActionContext) Property(key string) (string, bool) {
	v, ok := c.properties[key]
	return v, ok
}

// Range is the clamp range applied to values
func (c *ActionContext) Range() (float64, float64) { return c.rangeMin, c.rangeMax }

// SteppedValues returns the configured stepped list
func (c *ActionContext) SteppedValues() []float64 { return c.stepped }

// StepIndex is the current position in the stepped list
func (c *ActionContext) StepIndex() int { return c.cursor().step }

// HoldDelay is the press-and-hold delay, 0 for immediate actions
func (c *ActionContext) HoldDelay() time.Duration { return c.holdDelay }

// ProvidesFeedback reports whether this binding answers feedback polls for
// its widget and modifier
func (c *ActionContext) ProvidesFeedback() bool { return c.provideFeedback }

// Target resolves the zone navigator's current target
func (c *ActionContext) Target() (Target, bool) {
	z := c.Zone()
	if z == nil {
		return nil, false
	}
	return z.nav.Target()
}

// SlotIndex is the zone's slot plus the binding's position in its expansion
func (c *ActionContext) SlotIndex() int {
	z := c.Zone()
	if z == nil {
		return 0
	}
	return z.SlotIndex() + max(c.index-1, 0)
}

// DoAction handles an absolute value. Hold-delayed bindings only stage the
// press; the release cancels it.
func (c *ActionContext) DoAction(value float64) {
	if c.holdDelay > 0 {
		cur := c.cursor()
		if value == 0 {
			cur.staged = false
			delete(c.surface.staged, c.id)
			return
		}
		cur.staged = true
		cur.deferred = value
		cur.stagedAt = c.surface.now()
		c.surface.staged[c.id] = c
		return
	}
	c.commit(value)
}

// runDeferred commits a staged hold once its delay has passed
func (c *ActionContext) runDeferred(now time.Time) {
	cur := c.cursor()
	if !cur.staged {
		delete(c.surface.staged, c.id)
		return
	}
	if !now.After(cur.stagedAt.Add(c.holdDelay)) {
		return
	}
	cur.staged = false
	delete(c.surface.staged, c.id)
	c.commit(cur.deferred)
}

func (c *ActionContext) commit(value float64) {
	if len(c.stepped) > 0 {
		if value == 0 {
			return
		}
		cur := c.cursor()
		last := len(c.stepped) - 1
		switch {
		case cur.step < last:
			cur.step++
		case c.stepped[0] < c.stepped[last]:
			cur.step = 0
		default:
			cur.step = last
		}
		c.doStepped(cur.step)
		return
	}

	v := c.clamp(value)
	if c.valueInverted {
		v = 1 - v
	}
	c.action.Do(c, v)
}

func (c *ActionContext) doStepped(step int) {
	v := c.stepped[step]
	if c.explicitRange {
		v = c.clamp(v)
	}
	c.action.Do(c, v)
}

// DoRelativeAction handles a signed delta from an encoder
func (c *ActionContext) DoRelativeAction(delta float64) {
	if len(c.stepped) > 0 {
		c.step(delta)
		return
	}
	d := delta
	if c.delta != 0 {
		d = math.Copysign(c.delta, delta)
	}
	c.doRangeBound(c.currentValue() + d)
}

// DoAcceleratedRelativeAction handles a delta with an acceleration index
// decoded from the encoder speed.
func (c *ActionContext) DoAcceleratedRelativeAction(delta float64, accel int) {
	if len(c.stepped) > 0 {
		if len(c.accelTicks) == 0 {
			c.step(delta)
			return
		}
		c.accelStep(delta, accel)
		return
	}
	if len(c.accelDeltas) > 0 {
		d := c.accelDeltas[clampIndex(accel, len(c.accelDeltas))]
		c.doRangeBound(c.currentValue() + math.Copysign(d, delta))
		return
	}
	c.DoRelativeAction(delta)
}

func (c *ActionContext) step(delta float64) {
	if delta == 0 {
		return
	}
	cur := c.cursor()
	if delta > 0 {
		cur.step = min(cur.step+1, len(c.stepped)-1)
	} else {
		cur.step = max(cur.step-1, 0)
	}
	c.doStepped(cur.step)
}

func (c *ActionContext) accelStep(delta float64, accel int) {
	if delta == 0 {
		return
	}
	cur := c.cursor()
	need := c.accelTicks[clampIndex(accel, len(c.accelTicks))]
	if delta > 0 {
		cur.incTicks++
		cur.decTicks = max(cur.decTicks-1, 0)
		if cur.incTicks < need {
			return
		}
	} else {
		cur.decTicks++
		cur.incTicks = max(cur.incTicks-1, 0)
		if cur.decTicks < need {
			return
		}
	}
	cur.incTicks, cur.decTicks = 0, 0
	c.step(delta)
}

func (c *ActionContext) doRangeBound(v float64) {
	c.action.Do(c, c.clamp(v))
}

// DoTouch forwards a touch change to actions that care
func (c *ActionContext) DoTouch(value float64) {
	if t, ok := c.action.(Toucher); ok {
		t.Touch(c, value)
	}
}

// RequestUpdate polls the action for feedback
func (c *ActionContext) RequestUpdate() {
	if u, ok := c.action.(Updater); ok {
		u.RequestUpdate(c)
		return
	}
	if r, ok := c.action.(ValueReader); ok {
		c.UpdateValue(r.CurrentNormalizedValue(c))
	}
}

// UpdateValue sends a value to the widget, keeping the stepped cursor in
// sync with the host and choosing the configured colour.
func (c *ActionContext) UpdateValue(v float64) {
	if len(c.stepped) > 0 {
		c.cursor().step = nearest(c.stepped, v)
	}
	if c.feedbackInverted {
		v = 1 - v
	}
	c.widget.UpdateValue(c.properties, v)

	switch {
	case c.trackColor:
		if t, ok := c.Target(); ok {
			c.widget.UpdateColor(c.properties, c.surface.host.TrackColor(t))
		}
	case len(c.colors) == 1:
		c.widget.UpdateColor(c.properties, c.colors[0])
	case len(c.colors) > 1:
		idx := 0
		if v != 0 {
			idx = 1
		}
		c.widget.UpdateColor(c.properties, c.colors[idx])
	}
}

// UpdateText sends text to the widget
func (c *ActionContext) UpdateText(text string) {
	c.widget.UpdateText(c.properties, text)
}

// UpdateColor sends a colour to the widget
func (c *ActionContext) UpdateColor(col theme.RGB) {
	c.widget.UpdateColor(c.properties, col)
}

// ClearWidget blanks the widget
func (c *ActionContext) ClearWidget() {
	c.widget.Clear()
}

func (c *ActionContext) currentValue() float64 {
	if r, ok := c.action.(ValueReader); ok {
		return r.CurrentNormalizedValue(c)
	}
	return 0
}

func (c *ActionContext) clamp(v float64) float64 {
	return math.Min(math.Max(v, c.rangeMin), c.rangeMax)
}

func (c *ActionContext) cursor() *cursor {
	if c.freed {
		return &cursor{}
	}
	return c.surface.cursors.get(c.id)
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n-1)
}

func nearest(values []float64, v float64) int {
	best := 0
	for i, x := range values {
		if math.Abs(x-v) < math.Abs(values[best]-v) {
			best = i
		}
	}
	return best
}
