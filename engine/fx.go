package engine

import (
	"go-csurf/debug"
	"go-csurf/theme"
	"go-csurf/zonefile"
)

// GoFXSlot maps the FX in slot of the navigator's target, replacing any
// previous FX slot zone.
func (s *Surface) GoFXSlot(nav Navigator, slot int) bool {
	t, ok := nav.Target()
	if !ok || slot < 0 || slot >= s.host.FXCount(t) {
		return false
	}
	tmpl := s.fxTemplate(t, slot, true)
	if tmpl == nil {
		return false
	}
	s.dropZones(&s.fxSlot)
	id := s.buildZone(zoneSpec{tmpl: tmpl, name: tmpl.Name, kind: KindFX, nav: nav, slot: slot, parent: NoZone}, 0)
	s.fxSlot = []ZoneID{id}
	s.activate(id)
	return true
}

// GoFocusedFX maps the host's focused FX, or drops the mapping when nothing
// is focused.
func (s *Surface) GoFocusedFX() bool {
	s.dropZones(&s.focusedFX)
	t, slot, ok := s.host.FocusedFX()
	if !ok {
		return false
	}
	tmpl := s.fxTemplate(t, slot, true)
	if tmpl == nil {
		return false
	}
	id := s.buildZone(zoneSpec{
		tmpl:   tmpl,
		name:   tmpl.Name,
		kind:   KindFX,
		nav:    s.host.FocusedFXNavigator(),
		slot:   slot,
		parent: NoZone,
	}, 0)
	s.focusedFX = []ZoneID{id}
	s.activate(id)
	return true
}

// GoSelectedTrackFX maps every FX on the selected track that has a zone file
func (s *Surface) GoSelectedTrackFX() bool {
	s.dropZones(&s.selectedTrackFX)
	nav := s.host.SelectedTrackNavigator()
	t, ok := nav.Target()
	if !ok {
		return false
	}
	for slot := 0; slot < s.host.FXCount(t); slot++ {
		tmpl := s.fxTemplate(t, slot, false)
		if tmpl == nil {
			continue
		}
		id := s.buildZone(zoneSpec{tmpl: tmpl, name: tmpl.Name, kind: KindFX, nav: nav, slot: slot, parent: NoZone}, 0)
		s.selectedTrackFX = append(s.selectedTrackFX, id)
		s.activate(id)
	}
	return len(s.selectedTrackFX) > 0
}

// ToggleFocusedFXParam flips the FocusedFXParam scope
func (s *Surface) ToggleFocusedFXParam() {
	s.fxParamEnabled = !s.fxParamEnabled
	if s.focusedFXParam == NoZone {
		return
	}
	if s.fxParamEnabled {
		s.activate(s.focusedFXParam)
	} else {
		s.deactivate(s.focusedFXParam)
	}
}

// FocusedFXParamEnabled reports whether the FocusedFXParam scope is on
func (s *Surface) FocusedFXParamEnabled() bool { return s.fxParamEnabled }

func (s *Surface) dropZones(ids *[]ZoneID) {
	for _, id := range *ids {
		s.deactivate(id)
		s.free(id)
	}
	*ids = nil
}

// fxTemplate finds the zone for an FX by name, generating one from the
// FXLayout zone when allowed.
func (s *Surface) fxTemplate(t Target, slot int, generate bool) *zonefile.ZoneTemplate {
	name := s.host.FXName(t, slot)
	if name == "" {
		return nil
	}
	if tmpl, ok := s.index.Lookup(name); ok {
		return tmpl
	}
	if !generate {
		return nil
	}
	layout, ok := s.index.Lookup(zonefile.FXLayoutZone)
	if !ok {
		return nil
	}

	fx := zonefile.FXParams{
		Name:  name,
		Count: s.host.FXParamCount(t, slot),
		Alias: func(i int) string { return s.paramAlias(t, slot, name, i) },
		Steps: func(i int) int { return s.host.FXParamSteps(t, slot, i) },
	}
	tmpl := zonefile.GenerateFXZone(layout, fx, s.channels)
	s.index.Add(tmpl)
	debug.Log("fx", "generated zone for %s with %d params", name, fx.Count)

	if s.aliases != nil && s.aliases.Dirty() {
		if err := s.aliases.Save(); err != nil {
			debug.Log("fx", "saving aliases: %v", err)
		}
	}
	return tmpl
}

func (s *Surface) paramAlias(t Target, slot int, fx string, idx int) string {
	if s.aliases != nil {
		if a, ok := s.aliases.Alias(fx, idx); ok {
			return a
		}
	}
	a := s.host.FXParamName(t, slot, idx)
	if s.aliases != nil {
		s.aliases.SetAlias(fx, idx, a)
	}
	return a
}

type nullHost struct{}

func (nullHost) TrackNavigator(int) Navigator        { return nullNavigator{} }
func (nullHost) MasterTrackNavigator() Navigator     { return nullNavigator{} }
func (nullHost) SelectedTrackNavigator() Navigator   { return nullNavigator{} }
func (nullHost) FocusedFXNavigator() Navigator       { return nullNavigator{} }
func (nullHost) FocusedFX() (Target, int, bool)      { return nil, 0, false }
func (nullHost) FXCount(Target) int                  { return 0 }
func (nullHost) FXName(Target, int) string           { return "" }
func (nullHost) FXParamCount(Target, int) int        { return 0 }
func (nullHost) FXParamName(Target, int, int) string { return "" }
func (nullHost) FXParamSteps(Target, int, int) int   { return 0 }
func (nullHost) TrackColor(Target) theme.RGB         { return theme.RGB{} }
