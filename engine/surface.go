package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go-csurf/debug"
	"go-csurf/modifier"
	"go-csurf/zonefile"
)

// HomeZone is the root zone every surface must define
const HomeZone = "Home"

// FocusedFXParamZone is activated when focused-parameter mapping is enabled
const FocusedFXParamZone = "FocusedFXParam"

// ErrNoHome is returned by Initialize when the index has no Home zone
var ErrNoHome = errors.New("no Home zone")

// Options configure a Surface
type Options struct {
	Name      string
	Channels  int
	Index     *zonefile.Index
	Aliases   *zonefile.AliasCache
	Catalogue Catalogue
	Host      Host
	Modifiers *modifier.State
	Views     ViewListener

	// FocusedFXParam enables the FocusedFXParam scope at startup
	FocusedFXParam bool

	Clock func() time.Time
}

// Surface owns the widgets, zones and per-binding state of one control
// surface. It is not safe for concurrent use; callers serialize events.
type Surface struct {
	name      string
	channels  int
	index     *zonefile.Index
	aliases   *zonefile.AliasCache
	catalogue Catalogue
	host      Host
	mods      *modifier.State
	views     ViewListener
	now       func() time.Time

	widgets        map[string]*Widget
	widgetOrder    []*Widget
	onActivation   *Widget
	onDeactivation *Widget

	zones       []*Zone
	nextContext int
	cursors     cursorTable
	staged      map[int]*ActionContext
	offsets     map[string]int

	home            ZoneID
	focusedFXParam  ZoneID
	fxParamEnabled  bool
	focusedFX       []ZoneID
	selectedTrackFX []ZoneID
	fxSlot          []ZoneID
}

// NewSurface creates an uninitialized surface. Widgets are added with
// AddWidget before Initialize binds the zones.
func NewSurface(opts Options) *Surface {
	s := &Surface{
		name:           opts.Name,
		channels:       opts.Channels,
		index:          opts.Index,
		aliases:        opts.Aliases,
		catalogue:      Builtins(),
		host:           opts.Host,
		mods:           opts.Modifiers,
		views:          opts.Views,
		now:            opts.Clock,
		widgets:        make(map[string]*Widget),
		onActivation:   NewWidget(zonefile.OnZoneActivation, 0),
		onDeactivation: NewWidget(zonefile.OnZoneDeactivation, 0),
		cursors:        make(cursorTable),
		staged:         make(map[int]*ActionContext),
		offsets:        make(map[string]int),
		home:           NoZone,
		focusedFXParam: NoZone,
		fxParamEnabled: opts.FocusedFXParam,
	}
	s.catalogue.Merge(opts.Catalogue)
	if s.index == nil {
		s.index = zonefile.NewIndex()
	}
	if s.mods == nil {
		s.mods = modifier.New()
	}
	if s.host == nil {
		s.host = nullHost{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.channels <= 0 {
		s.channels = 1
	}
	s.mods.Subscribe(s.refreshAll)
	return s
}

func (s *Surface) Name() string                  { return s.name }
func (s *Surface) Channels() int                 { return s.channels }
func (s *Surface) Host() Host                    { return s.host }
func (s *Surface) Modifiers() *modifier.State    { return s.mods }
func (s *Surface) Index() *zonefile.Index        { return s.index }
func (s *Surface) Aliases() *zonefile.AliasCache { return s.aliases }

// AddWidget registers a widget. A later widget with the same name replaces
// the earlier one.
func (s *Surface) AddWidget(w *Widget) {
	if old, ok := s.widgets[w.Name()]; ok {
		for i, x := range s.widgetOrder {
			if x == old {
				s.widgetOrder = append(s.widgetOrder[:i], s.widgetOrder[i+1:]...)
				break
			}
		}
	}
	s.widgets[w.Name()] = w
	s.widgetOrder = append(s.widgetOrder, w)
}

// Widget looks up a widget by name
func (s *Surface) Widget(name string) (*Widget, bool) {
	w, ok := s.widgets[name]
	return w, ok
}

// Widgets returns the widgets in registration order
func (s *Surface) Widgets() []*Widget {
	return append([]*Widget(nil), s.widgetOrder...)
}

func (s *Surface) bindableWidget(name string) *Widget {
	switch name {
	case zonefile.OnZoneActivation:
		return s.onActivation
	case zonefile.OnZoneDeactivation:
		return s.onDeactivation
	}
	return s.widgets[name]
}

func (s *Surface) isVirtual(w *Widget) bool {
	return w == s.onActivation || w == s.onDeactivation
}

// Initialize builds and activates the Home zone and, when defined, the
// FocusedFXParam zone.
func (s *Surface) Initialize() error {
	tmpl, ok := s.index.Lookup(HomeZone)
	if !ok {
		return fmt.Errorf("surface %s: %w", s.name, ErrNoHome)
	}
	s.free(s.home)
	s.home = s.buildZone(zoneSpec{tmpl: tmpl, name: HomeZone, kind: KindHome, parent: NoZone}, 0)

	if tmpl, ok := s.index.Lookup(FocusedFXParamZone); ok {
		s.free(s.focusedFXParam)
		s.focusedFXParam = s.buildZone(zoneSpec{
			tmpl:   tmpl,
			name:   FocusedFXParamZone,
			kind:   KindFocusedFXParam,
			nav:    s.host.FocusedFXNavigator(),
			parent: NoZone,
		}, 0)
		if s.fxParamEnabled {
			s.activate(s.focusedFXParam)
		}
	}

	s.activate(s.home)
	debug.Log("surface", "%s initialized with %d zones", s.name, s.liveZones())
	return nil
}

// Home returns the Home zone handle
func (s *Surface) Home() ZoneID { return s.home }

func (s *Surface) liveZones() int {
	n := 0
	for _, z := range s.zones {
		if z != nil {
			n++
		}
	}
	return n
}

// ActiveZones lists the names of active zones in the order dispatch
// searches them
func (s *Surface) ActiveZones() []string {
	var names []string
	var walk func(id ZoneID)
	walk = func(id ZoneID) {
		z := s.zone(id)
		if z == nil {
			return
		}
		for _, g := range z.subZones {
			for _, c := range g.zones {
				walk(c)
			}
		}
		for _, g := range z.associated {
			for _, c := range g.zones {
				walk(c)
			}
		}
		if z.active {
			names = append(names, z.name)
		}
		for _, c := range z.included {
			walk(c)
		}
	}
	for _, id := range s.scopes() {
		walk(id)
	}
	return names
}

// FindZone returns the first live zone with the given name or alias
func (s *Surface) FindZone(name string) (*Zone, bool) {
	for _, z := range s.zones {
		if z != nil && (z.name == name || z.alias == name) {
			return z, true
		}
	}
	return nil, false
}

// ActivateZone activates a live zone by name. Sub-zones and associated
// zones go through their parent so siblings are deactivated.
func (s *Surface) ActivateZone(name string) bool {
	z, ok := s.FindZone(name)
	if !ok {
		return false
	}
	switch z.kind {
	case KindSub:
		return s.goSubZone(z.parent, name)
	case KindAssociated:
		return s.goAssociated(z.parent, name, false)
	}
	s.activate(z.id)
	return true
}

// DeactivateZone deactivates a live zone by name
func (s *Surface) DeactivateZone(name string) bool {
	z, ok := s.FindZone(name)
	if !ok {
		return false
	}
	s.deactivate(z.id)
	return true
}

// scopes lists the zone roots in dispatch priority order
func (s *Surface) scopes() []ZoneID {
	var out []ZoneID
	if s.fxParamEnabled && s.focusedFXParam != NoZone {
		out = append(out, s.focusedFXParam)
	}
	out = append(out, s.focusedFX...)
	out = append(out, s.selectedTrackFX...)
	out = append(out, s.fxSlot...)
	if s.home != NoZone {
		out = append(out, s.home)
	}
	return out
}

// route hands the first claiming zone's selected contexts to fn
func (s *Surface) route(w *Widget, fn func([]*ActionContext)) bool {
	for _, id := range s.scopes() {
		if s.handles(id, w, fn) {
			return true
		}
	}
	return false
}

// DoAction dispatches an absolute value from a widget. It reports whether a
// zone claimed the widget.
func (s *Surface) DoAction(widget string, value float64) bool {
	w, ok := s.widgets[widget]
	if !ok {
		return false
	}
	return s.route(w, func(ctxs []*ActionContext) {
		for _, c := range ctxs {
			c.DoAction(value)
		}
	})
}

// DoRelativeAction dispatches a signed delta
func (s *Surface) DoRelativeAction(widget string, delta float64) bool {
	w, ok := s.widgets[widget]
	if !ok {
		return false
	}
	return s.route(w, func(ctxs []*ActionContext) {
		for _, c := range ctxs {
			c.DoRelativeAction(delta)
		}
	})
}

// DoAcceleratedRelativeAction dispatches a delta with an acceleration index
func (s *Surface) DoAcceleratedRelativeAction(widget string, delta float64, accel int) bool {
	w, ok := s.widgets[widget]
	if !ok {
		return false
	}
	return s.route(w, func(ctxs []*ActionContext) {
		for _, c := range ctxs {
			c.DoAcceleratedRelativeAction(delta, accel)
		}
	})
}

// DoTouch records the touch state of the widget's channel and forwards the
// touch to the newly selected bindings.
func (s *Surface) DoTouch(widget string, value float64) bool {
	w, ok := s.widgets[widget]
	if !ok {
		return false
	}
	if w.Channel() > 0 {
		s.mods.SetTouch(w.Channel(), value != 0)
	}
	return s.route(w, func(ctxs []*ActionContext) {
		for _, c := range ctxs {
			c.DoTouch(value)
		}
	})
}

// RequestUpdate commits expired holds and polls feedback for every widget.
// Widgets with no feedback binding under the current modifiers are cleared.
func (s *Surface) RequestUpdate() {
	if len(s.staged) > 0 {
		now := s.now()
		ids := make([]int, 0, len(s.staged))
		for id := range s.staged {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			if c, ok := s.staged[id]; ok {
				c.runDeferred(now)
			}
		}
	}

	for _, w := range s.widgetOrder {
		polled := false
		s.route(w, func(ctxs []*ActionContext) {
			for _, c := range ctxs {
				if c.provideFeedback {
					c.RequestUpdate()
					polled = true
					return
				}
			}
		})
		if !polled {
			w.Clear()
		}
	}
}

// ForceUpdate resends all feedback on the next poll
func (s *Surface) ForceUpdate() {
	for _, w := range s.widgetOrder {
		w.Invalidate()
	}
}

// ResetCursors forgets every stepped, accelerated and staged binding state
func (s *Surface) ResetCursors() {
	s.cursors = make(cursorTable)
	s.staged = make(map[int]*ActionContext)
}

func (s *Surface) refreshAll() {
	for _, z := range s.zones {
		if z != nil {
			s.refreshZone(z)
		}
	}
}

// Offset returns the slot offset for a zone family such as TrackSend
func (s *Surface) Offset(kind string) int { return s.offsets[kind] }

// SetOffset sets a slot offset, clamped at zero
func (s *Surface) SetOffset(kind string, v int) {
	s.offsets[kind] = max(v, 0)
}

// AdjustOffset moves a slot offset by delta, clamped at zero
func (s *Surface) AdjustOffset(kind string, delta int) {
	s.SetOffset(kind, s.offsets[kind]+delta)
}

// GoHome drops FX slot and selected track FX zones and reactivates Home
func (s *Surface) GoHome() {
	for _, id := range s.fxSlot {
		s.deactivate(id)
		s.free(id)
	}
	s.fxSlot = nil
	for _, id := range s.selectedTrackFX {
		s.deactivate(id)
		s.free(id)
	}
	s.selectedTrackFX = nil
	s.activate(s.home)
}

// GoSubZone activates a sub-zone group declared by the context's zone or one
// of its ancestors, deactivating the sibling groups.
func (s *Surface) GoSubZone(c *ActionContext, name string) bool {
	return s.goSubZone(c.zone, name)
}

func (s *Surface) goSubZone(from ZoneID, name string) bool {
	for z := s.zone(from); z != nil; z = s.zone(z.parent) {
		idx := groupIndex(s, z.subZones, name)
		if idx < 0 {
			continue
		}
		for i, g := range z.subZones {
			if i == idx {
				continue
			}
			for _, c := range g.zones {
				s.deactivate(c)
			}
		}
		for _, c := range z.subZones[idx].zones {
			s.activate(c)
		}
		return true
	}
	return false
}

// LeaveSubZone deactivates the nearest enclosing sub-zone
func (s *Surface) LeaveSubZone(c *ActionContext) bool {
	for z := s.zone(c.zone); z != nil; z = s.zone(z.parent) {
		if z.kind == KindSub {
			s.deactivate(z.id)
			return true
		}
	}
	return false
}

// GoAssociatedZone toggles an associated zone group. Activating one group
// deactivates the others declared beside it.
func (s *Surface) GoAssociatedZone(c *ActionContext, name string) bool {
	return s.goAssociated(c.zone, name, true)
}

func (s *Surface) goAssociated(from ZoneID, name string, toggle bool) bool {
	z := s.zone(from)
	for ; z != nil; z = s.zone(z.parent) {
		if groupIndex(s, z.associated, name) >= 0 {
			break
		}
	}
	if z == nil {
		z = s.zone(s.home)
		if z == nil || groupIndex(s, z.associated, name) < 0 {
			return false
		}
	}

	idx := groupIndex(s, z.associated, name)
	target := z.associated[idx]
	if toggle && s.anyActive(target.zones) {
		for _, c := range target.zones {
			s.deactivate(c)
		}
		return true
	}
	for i, g := range z.associated {
		if i == idx {
			continue
		}
		for _, c := range g.zones {
			s.deactivate(c)
		}
	}
	for _, c := range target.zones {
		s.activate(c)
	}
	return true
}

func (s *Surface) anyActive(ids []ZoneID) bool {
	for _, id := range ids {
		if z := s.zone(id); z != nil && z.active {
			return true
		}
	}
	return false
}

// groupIndex matches a group by declared name or by an instance name
func groupIndex(s *Surface, groups []group, name string) int {
	for i, g := range groups {
		if g.name == name {
			return i
		}
	}
	for i, g := range groups {
		for _, id := range g.zones {
			if z := s.zone(id); z != nil && (z.name == name || z.alias == name) {
				return i
			}
		}
	}
	return -1
}
