package engine

import (
	"sort"
	"strings"

	"go-csurf/debug"
	"go-csurf/modifier"
	"go-csurf/zonefile"
)

// ZoneID is a handle into the surface's zone arena
type ZoneID int

// NoZone is the zero handle
const NoZone ZoneID = -1

// ZoneKind says how a zone entered the tree
type ZoneKind int

const (
	KindHome ZoneKind = iota
	KindIncluded
	KindSub
	KindAssociated
	KindFX
	KindFocusedFXParam
)

func (k ZoneKind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindIncluded:
		return "included"
	case KindSub:
		return "sub"
	case KindAssociated:
		return "associated"
	case KindFX:
		return "fx"
	case KindFocusedFXParam:
		return "fxparam"
	}
	return "unknown"
}

// Views whose activation is reported to a ViewListener
const (
	ViewVCA            = "VCA"
	ViewFolder         = "Folder"
	ViewSelectedTracks = "SelectedTracks"
)

// Zone names with a per-surface slot offset
var offsetZones = map[string]bool{
	"TrackSend":            true,
	"TrackReceive":         true,
	"TrackFXMenu":          true,
	"SelectedTrackSend":    true,
	"SelectedTrackReceive": true,
	"SelectedTrackFXMenu":  true,
	"MasterTrackFXMenu":    true,
}

// maxDepth stops runaway include cycles
const maxDepth = 16

type group struct {
	name  string
	zones []ZoneID
}

// Zone is an instantiated zone template
type Zone struct {
	id       ZoneID
	s        *Surface
	kind     ZoneKind
	name     string
	alias    string
	template string
	parent   ZoneID
	nav      Navigator
	slot     int
	channel  int
	active   bool

	widgets map[*Widget]map[int][]*ActionContext
	order   []*Widget
	current map[*Widget][]*ActionContext

	included   []ZoneID
	subZones   []group
	associated []group
}

func (z *Zone) ID() ZoneID           { return z.id }
func (z *Zone) Name() string         { return z.name }
func (z *Zone) Alias() string        { return z.alias }
func (z *Zone) Kind() ZoneKind       { return z.kind }
func (z *Zone) Active() bool         { return z.active }
func (z *Zone) Navigator() Navigator { return z.nav }
func (z *Zone) Channel() int         { return z.channel }
func (z *Zone) Parent() ZoneID       { return z.parent }

// SlotIndex is the zone's slot plus the surface offset for its family
func (z *Zone) SlotIndex() int {
	if offsetZones[z.template] {
		return z.slot + z.s.Offset(z.template)
	}
	return z.slot
}

// Widgets lists the widgets the zone binds, in name order
func (z *Zone) Widgets() []*Widget {
	return append([]*Widget(nil), z.order...)
}

// Current returns the contexts selected for w under the present modifiers
func (z *Zone) Current(w *Widget) []*ActionContext {
	return append([]*ActionContext(nil), z.current[w]...)
}

// Contexts returns every context the zone binds to w under modifier mask mod
func (z *Zone) Contexts(w *Widget, mod int) []*ActionContext {
	return append([]*ActionContext(nil), z.widgets[w][mod]...)
}

// Included returns handles of the included zones
func (z *Zone) Included() []ZoneID { return append([]ZoneID(nil), z.included...) }

// SubZones returns the sub-zone handles grouped by declared name
func (z *Zone) SubZones() map[string][]ZoneID { return groupMap(z.subZones) }

// Associated returns the associated zone handles grouped by declared name
func (z *Zone) Associated() map[string][]ZoneID { return groupMap(z.associated) }

func groupMap(groups []group) map[string][]ZoneID {
	m := make(map[string][]ZoneID, len(groups))
	for _, g := range groups {
		m[g.name] = append([]ZoneID(nil), g.zones...)
	}
	return m
}

func (s *Surface) zone(id ZoneID) *Zone {
	if id < 0 || int(id) >= len(s.zones) {
		return nil
	}
	return s.zones[id]
}

// Zone looks up a live zone by handle
func (s *Surface) Zone(id ZoneID) (*Zone, bool) {
	z := s.zone(id)
	return z, z != nil
}

type zoneSpec struct {
	tmpl    *zonefile.ZoneTemplate
	name    string
	kind    ZoneKind
	nav     Navigator
	slot    int
	channel int
	parent  ZoneID
}

func (s *Surface) buildZone(spec zoneSpec, depth int) ZoneID {
	z := &Zone{
		id:       ZoneID(len(s.zones)),
		s:        s,
		kind:     spec.kind,
		name:     spec.name,
		alias:    spec.tmpl.Alias,
		template: spec.tmpl.Name,
		parent:   spec.parent,
		nav:      spec.nav,
		slot:     spec.slot,
		channel:  spec.channel,
		widgets:  make(map[*Widget]map[int][]*ActionContext),
		current:  make(map[*Widget][]*ActionContext),
	}
	if z.alias == "" {
		z.alias = z.name
	}
	if z.nav == nil {
		z.nav = nullNavigator{}
	}
	s.zones = append(s.zones, z)

	table := spec.tmpl.Table(spec.channel, s.channels)
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w := s.bindableWidget(name)
		if w == nil {
			debug.Log("bind", "zone %s: no widget %s", z.name, name)
			continue
		}
		for mod, list := range table[name] {
			var ctxs []*ActionContext
			for _, b := range list {
				a, ok := s.catalogue.Lookup(b.Action)
				if !ok {
					debug.Log("bind", "zone %s: unknown action %s on %s", z.name, b.Action, name)
					continue
				}
				ctxs = append(ctxs, s.newContext(z.id, w, a, b))
			}
			if len(ctxs) == 0 {
				continue
			}
			if _, ok := z.widgets[w]; !ok {
				z.widgets[w] = make(map[int][]*ActionContext)
				if !s.isVirtual(w) {
					z.order = append(z.order, w)
				}
			}
			z.widgets[w][mod] = ctxs
		}
	}

	if depth >= maxDepth {
		debug.Log("zone", "zone %s: nesting too deep, children skipped", z.name)
		return z.id
	}
	for _, name := range spec.tmpl.Included {
		z.included = append(z.included, s.buildChildren(z, name, KindIncluded, depth)...)
	}
	for _, name := range spec.tmpl.SubZones {
		z.subZones = append(z.subZones, group{name: name, zones: s.buildChildren(z, name, KindSub, depth)})
	}
	for _, name := range spec.tmpl.Associated {
		z.associated = append(z.associated, group{name: name, zones: s.buildChildren(z, name, KindAssociated, depth)})
	}
	s.refreshZone(z)
	return z.id
}

// buildChildren instantiates a named child. A wildcard name becomes one
// zone per channel unless the parent already belongs to a channel.
func (s *Surface) buildChildren(parent *Zone, name string, kind ZoneKind, depth int) []ZoneID {
	tmpl, ok := s.index.Lookup(name)
	if !ok {
		return nil
	}
	if !zonefile.HasWildcard(name) {
		return []ZoneID{s.buildZone(zoneSpec{
			tmpl:    tmpl,
			name:    name,
			kind:    kind,
			nav:     s.navigatorFor(name, 0, parent.nav),
			slot:    parent.slot,
			channel: parent.channel,
			parent:  parent.id,
		}, depth+1)}
	}
	if parent.channel > 0 {
		return []ZoneID{s.buildZone(zoneSpec{
			tmpl:    tmpl,
			name:    zonefile.Substitute(name, parent.channel),
			kind:    kind,
			nav:     parent.nav,
			slot:    parent.slot,
			channel: parent.channel,
			parent:  parent.id,
		}, depth+1)}
	}

	ids := make([]ZoneID, 0, s.channels)
	for ch := 1; ch <= s.channels; ch++ {
		ids = append(ids, s.buildZone(zoneSpec{
			tmpl:    tmpl,
			name:    zonefile.Substitute(name, ch),
			kind:    kind,
			nav:     s.navigatorFor(name, ch, parent.nav),
			slot:    parent.slot,
			channel: ch,
			parent:  parent.id,
		}, depth+1))
	}
	return ids
}

func (s *Surface) navigatorFor(name string, channel int, inherited Navigator) Navigator {
	switch {
	case channel > 0:
		return s.host.TrackNavigator(channel)
	case strings.HasPrefix(name, "SelectedTrack"):
		return s.host.SelectedTrackNavigator()
	case strings.HasPrefix(name, "MasterTrack"):
		return s.host.MasterTrackNavigator()
	case strings.HasPrefix(name, "FocusedFX"):
		return s.host.FocusedFXNavigator()
	}
	return inherited
}

// activate is idempotent: activation actions fire only on the inactive to
// active transition.
func (s *Surface) activate(id ZoneID) {
	z := s.zone(id)
	if z == nil {
		return
	}
	s.refreshZone(z)
	if !z.active {
		z.active = true
		debug.Log("zone", "activate %s (%s)", z.name, z.kind)
		s.viewChanged(z, true)
		s.fire(z, s.onActivation)
	}
	for _, g := range z.associated {
		for _, c := range g.zones {
			s.deactivate(c)
		}
	}
	for _, g := range z.subZones {
		for _, c := range g.zones {
			s.deactivate(c)
		}
	}
	for _, c := range z.included {
		s.activate(c)
	}
}

func (s *Surface) deactivate(id ZoneID) {
	z := s.zone(id)
	if z == nil {
		return
	}
	if z.active {
		s.fire(z, s.onDeactivation)
		z.active = false
		debug.Log("zone", "deactivate %s (%s)", z.name, z.kind)
		s.viewChanged(z, false)
	}
	for _, c := range z.included {
		s.deactivate(c)
	}
	for _, g := range z.associated {
		for _, c := range g.zones {
			s.deactivate(c)
		}
	}
	for _, g := range z.subZones {
		for _, c := range g.zones {
			s.deactivate(c)
		}
	}
}

func (s *Surface) fire(z *Zone, w *Widget) {
	s.refreshZone(z)
	for _, c := range z.Current(w) {
		c.DoAction(1)
	}
}

func (s *Surface) viewChanged(z *Zone, active bool) {
	if s.views == nil {
		return
	}
	switch z.name {
	case ViewVCA, ViewFolder, ViewSelectedTracks:
		s.views.ViewChanged(z.name, active)
	}
}

// free releases a zone and everything below it
func (s *Surface) free(id ZoneID) {
	z := s.zone(id)
	if z == nil {
		return
	}
	for _, c := range z.included {
		s.free(c)
	}
	for _, g := range z.subZones {
		for _, c := range g.zones {
			s.free(c)
		}
	}
	for _, g := range z.associated {
		for _, c := range g.zones {
			s.free(c)
		}
	}
	for _, mods := range z.widgets {
		for _, list := range mods {
			for _, c := range list {
				c.freed = true
				s.cursors.drop(c.id)
				delete(s.staged, c.id)
			}
		}
	}
	s.zones[id] = nil
}

// refreshZone reselects every widget's contexts for the current modifiers
func (s *Surface) refreshZone(z *Zone) {
	combos := s.mods.Combinations()
	for w, mods := range z.widgets {
		ch := w.Channel()
		z.current[w] = selectContexts(mods, combos, s.mods.Touched(ch), s.mods.Toggled(ch))
	}
}

// selectContexts walks modifier combinations from most to least specific,
// preferring touch and toggle variants of each.
func selectContexts(mods map[int][]*ActionContext, combos []int, touched, toggled bool) []*ActionContext {
	const touch, toggle = modifier.TouchWeight, modifier.ToggleWeight
	for _, m := range combos {
		if touched && toggled {
			if l, ok := mods[m+touch+toggle]; ok {
				return l
			}
		}
		if touched {
			if l, ok := mods[m+touch]; ok {
				return l
			}
		}
		if toggled {
			if l, ok := mods[m+toggle]; ok {
				return l
			}
		}
		if l, ok := mods[m]; ok {
			return l
		}
	}
	return nil
}

// handles routes w through one zone subtree: sub-zones first, then
// associated zones, then the zone itself if active, then included zones.
// An active zone that owns the widget consumes it even with nothing selected.
func (s *Surface) handles(id ZoneID, w *Widget, fn func([]*ActionContext)) bool {
	z := s.zone(id)
	if z == nil {
		return false
	}
	for _, g := range z.subZones {
		for _, c := range g.zones {
			if s.handles(c, w, fn) {
				return true
			}
		}
	}
	for _, g := range z.associated {
		for _, c := range g.zones {
			if s.handles(c, w, fn) {
				return true
			}
		}
	}
	if z.active {
		if _, ok := z.widgets[w]; ok {
			fn(z.Current(w))
			return true
		}
	}
	for _, c := range z.included {
		if s.handles(c, w, fn) {
			return true
		}
	}
	return false
}
