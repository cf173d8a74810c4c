package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"go-csurf/modifier"
	"go-csurf/theme"
)

func TestInitialize_RequiresHome(t *testing.T) {
	s := NewSurface(Options{Name: "empty"})
	if err := s.Initialize(); !errors.Is(err, ErrNoHome) {
		t.Errorf("Expected ErrNoHome, got %v", err)
	}
}

func TestActivate_IsIdempotent(t *testing.T) {
	count := &recorder{}
	ts := newTestSurface(t, `
Zone "Home"
	IncludedZones
		"Buttons"
	IncludedZonesEnd
	Fader1 NoAction
ZoneEnd
Zone "Buttons"
	OnZoneActivation Count
	Button1 NoAction
ZoneEnd
`, Catalogue{"Count": count}, "Fader1", "Button1")

	if len(count.values) != 1 {
		t.Fatalf("Expected one activation on Initialize, got %d", len(count.values))
	}
	ts.ActivateZone("Buttons")
	ts.ActivateZone("Buttons")
	ts.ActivateZone("Home")
	if len(count.values) != 1 {
		t.Errorf("Expected activation to fire once, got %d", len(count.values))
	}

	ts.DeactivateZone("Buttons")
	ts.ActivateZone("Buttons")
	if len(count.values) != 2 {
		t.Errorf("Expected a second activation after deactivation, got %d", len(count.values))
	}
}

func TestDeactivate_FiresDeactivationOnce(t *testing.T) {
	off := &recorder{}
	ts := newTestSurface(t, `
Zone "Home"
	SubZones
		"Sends"
	SubZonesEnd
	Button1 GoSubZone "Sends"
ZoneEnd
Zone "Sends"
	OnZoneDeactivation Off
	Fader1 NoAction
ZoneEnd
`, Catalogue{"Off": off}, "Fader1", "Button1")

	ts.DeactivateZone("Sends")
	if len(off.values) != 0 {
		t.Fatalf("Inactive zone should not fire deactivation")
	}
	ts.press("Button1")
	ts.DeactivateZone("Sends")
	ts.DeactivateZone("Sends")
	if len(off.values) != 1 {
		t.Errorf("Expected one deactivation, got %d", len(off.values))
	}
}

func TestDispatch_SubZoneIsExclusive(t *testing.T) {
	vol, send := &recorder{}, &recorder{}
	ts := newTestSurface(t, `
Zone "Home"
	SubZones
		"Sends"
	SubZonesEnd
	Fader1 Vol
	Button1 GoSubZone "Sends"
	Button2 LeaveSubZone
ZoneEnd
Zone "Sends"
	Fader1 Send
	Button2 LeaveSubZone
ZoneEnd
`, Catalogue{"Vol": vol, "Send": send}, "Fader1", "Button1", "Button2")

	ts.DoAction("Fader1", 0.5)
	ts.press("Button1")
	ts.DoAction("Fader1", 0.7)
	ts.press("Button2")
	ts.DoAction("Fader1", 0.2)

	if !reflect.DeepEqual(vol.values, []float64{0.5, 0.2}) {
		t.Errorf("Vol got %v", vol.values)
	}
	if !reflect.DeepEqual(send.values, []float64{0.7}) {
		t.Errorf("Send got %v", send.values)
	}
}

func TestDispatch_UnknownWidget(t *testing.T) {
	ts := newTestSurface(t, "Zone \"Home\"\n\tFader1 NoAction\nZoneEnd\n", nil, "Fader1", "Orphan")
	if ts.DoAction("Missing", 1) {
		t.Errorf("Unknown widget should not be claimed")
	}
	if ts.DoAction("Orphan", 1) {
		t.Errorf("Unbound widget should not be claimed")
	}
	if !ts.DoAction("Fader1", 1) {
		t.Errorf("Bound widget should be claimed")
	}
}

func TestDispatch_ModifierSelection(t *testing.T) {
	vol, db := &recorder{}, &rangedRecorder{min: -60, max: 12}
	ts := newTestSurface(t, `
Zone "Home"
	Shift+Fader1 DB [-144.0 24.0]
	Fader1 Vol
ZoneEnd
`, Catalogue{"Vol": vol, "DB": db}, "Fader1")

	ts.Modifiers().SetModifier(modifier.Shift, true)
	ts.DoAction("Fader1", 30)
	ts.DoAction("Fader1", -200)
	ts.DoAction("Fader1", -6)

	if !reflect.DeepEqual(db.values, []float64{24, -144, -6}) {
		t.Errorf("Expected values clamped to the override range, got %v", db.values)
	}
	if len(vol.values) != 0 {
		t.Errorf("Unshifted binding should not run, got %v", vol.values)
	}

	ts.clock.advance(time.Second)
	ts.Modifiers().SetModifier(modifier.Shift, false)
	ts.DoAction("Fader1", 0.5)
	if !reflect.DeepEqual(vol.values, []float64{0.5}) {
		t.Errorf("Expected plain binding after release, got %v", vol.values)
	}
}

func TestDispatch_TouchSelection(t *testing.T) {
	vol, touched := &recorder{}, &recorder{}
	ts := newTestSurface(t, `
Zone "Home"
	Touch+Fader1 Touched
	Fader1 Vol
ZoneEnd
`, Catalogue{"Vol": vol, "Touched": touched}, "Fader1@1")

	ts.DoTouch("Fader1", 1)
	ts.DoAction("Fader1", 0.3)
	ts.DoTouch("Fader1", 0)
	ts.DoAction("Fader1", 0.4)

	if !reflect.DeepEqual(touched.values, []float64{0.3}) {
		t.Errorf("Touched got %v", touched.values)
	}
	if !reflect.DeepEqual(vol.values, []float64{0.4}) {
		t.Errorf("Vol got %v", vol.values)
	}
}

func TestDispatch_ChannelZonesUseTrackNavigators(t *testing.T) {
	var got []string
	ts := newTestSurface(t, `
Zone "Home"
	IncludedZones
		"Channel|"
	IncludedZonesEnd
ZoneEnd
Zone "Channel|"
	Fader| Vol
ZoneEnd
`, Catalogue{"Vol": probe(func(ctx *ActionContext, v float64) {
		if tgt, ok := ctx.Target(); ok {
			got = append(got, tgt.TargetID())
		}
	})}, "Fader1", "Fader2", "Fader3", "Fader4")

	ts.DoAction("Fader3", 1)
	ts.DoAction("Fader1", 1)
	if !reflect.DeepEqual(got, []string{"track3", "track1"}) {
		t.Errorf("Targets = %v", got)
	}

	names := ts.ActiveZones()
	if len(names) != 5 || names[0] != "Home" {
		t.Errorf("ActiveZones = %v", names)
	}
}

func TestAssociatedZones_Toggle(t *testing.T) {
	vca, folder, vol := &recorder{}, &recorder{}, &recorder{}
	views := &viewRecorder{}
	ts := newTestSurface(t, `
Zone "Home"
	AssociatedZones
		"VCA" "Folder"
	AssociatedZonesEnd
	Button1 GoVCA
	Button2 GoFolder
	Fader1 Vol
ZoneEnd
Zone "VCA"
	Fader1 VCAVol
ZoneEnd
Zone "Folder"
	Fader1 FolderVol
ZoneEnd
`, Catalogue{"Vol": vol, "VCAVol": vca, "FolderVol": folder}, "Button1", "Button2", "Fader1")
	ts.views = views

	ts.press("Button1")
	ts.DoAction("Fader1", 0.1)
	ts.press("Button2")
	ts.DoAction("Fader1", 0.2)
	ts.press("Button2")
	ts.DoAction("Fader1", 0.3)

	if !reflect.DeepEqual(vca.values, []float64{0.1}) || !reflect.DeepEqual(folder.values, []float64{0.2}) || !reflect.DeepEqual(vol.values, []float64{0.3}) {
		t.Errorf("vca=%v folder=%v vol=%v", vca.values, folder.values, vol.values)
	}
	expected := []string{"VCA+", "VCA-", "Folder+", "Folder-"}
	if !reflect.DeepEqual(views.events, expected) {
		t.Errorf("Views = %v, expected %v", views.events, expected)
	}
}

type viewRecorder struct {
	events []string
}

func (v *viewRecorder) ViewChanged(view string, active bool) {
	if active {
		v.events = append(v.events, view+"+")
	} else {
		v.events = append(v.events, view+"-")
	}
}

func TestFXSlot_TakesPriorityOverHome(t *testing.T) {
	vol, eq := &recorder{}, &recorder{}
	ts := newTestSurface(t, `
Zone "Home"
	Fader1 Vol
	Button1 GoFXSlot 0
	Button2 GoHome
ZoneEnd
Zone "ReaEQ"
	Fader1 EQ
ZoneEnd
`, Catalogue{"Vol": vol, "EQ": eq}, "Fader1", "Button1", "Button2")
	ts.host.fx = []string{"ReaEQ"}
	ts.host.selected = 1

	if ts.GoFXSlot(ts.host.TrackNavigator(1), 3) {
		t.Errorf("Expected out of range slot to fail")
	}
	ts.press("Button1")
	ts.DoAction("Fader1", 0.6)
	ts.press("Button2")
	ts.DoAction("Fader1", 0.4)

	if !reflect.DeepEqual(eq.values, []float64{0.6}) || !reflect.DeepEqual(vol.values, []float64{0.4}) {
		t.Errorf("eq=%v vol=%v", eq.values, vol.values)
	}
}

func TestFXSlot_GeneratesFromLayout(t *testing.T) {
	var params []int
	ts := newTestSurface(t, `
Zone "Home"
	Button1 NoAction
ZoneEnd
Zone "FXLayout"
	Rotary| FXParam
ZoneEnd
`, Catalogue{"FXParam": probe(func(ctx *ActionContext, v float64) {
		params = append(params, ctx.IntParam())
	})}, "Button1", "Rotary1", "Rotary2", "Rotary3")
	ts.host.fx = []string{"JS: Tilt"}
	ts.host.params["JS: Tilt"] = []string{"Tilt", "Gain"}

	if !ts.GoFXSlot(ts.host.TrackNavigator(2), 0) {
		t.Fatalf("Expected generated FX zone")
	}
	ts.DoAction("Rotary2", 0.5)
	ts.DoAction("Rotary1", 0.5)
	if ts.DoAction("Rotary3", 0.5) {
		t.Errorf("Rotary3 has no parameter and should not be claimed")
	}
	if !reflect.DeepEqual(params, []int{1, 0}) {
		t.Errorf("Params = %v", params)
	}
	if _, ok := ts.Index().Lookup("JS: Tilt"); !ok {
		t.Errorf("Generated zone should be cached in the index")
	}
}

func TestFocusedFXParam_TakesPriority(t *testing.T) {
	vol, param := &recorder{}, &recorder{}
	ts := newTestSurface(t, `
Zone "Home"
	Fader1 Vol
	Button1 ToggleFocusedFXParam
ZoneEnd
Zone "FocusedFXParam"
	Fader1 Param
ZoneEnd
`, Catalogue{"Vol": vol, "Param": param}, "Fader1", "Button1")

	ts.DoAction("Fader1", 0.1)
	ts.press("Button1")
	ts.DoAction("Fader1", 0.2)
	ts.press("Button1")
	ts.DoAction("Fader1", 0.3)

	if !reflect.DeepEqual(vol.values, []float64{0.1, 0.3}) || !reflect.DeepEqual(param.values, []float64{0.2}) {
		t.Errorf("vol=%v param=%v", vol.values, param.values)
	}
}

func TestSlotOffsets(t *testing.T) {
	var slots []int
	ts := newTestSurface(t, `
Zone "Home"
	IncludedZones
		"TrackSend"
	IncludedZonesEnd
	Button1 AdjustOffset TrackSend 1
	Button2 AdjustOffset TrackSend -5
ZoneEnd
Zone "TrackSend"
	Rotary| SendVol
ZoneEnd
`, Catalogue{"SendVol": probe(func(ctx *ActionContext, v float64) {
		slots = append(slots, ctx.SlotIndex())
	})}, "Button1", "Button2", "Rotary1", "Rotary2")

	ts.DoAction("Rotary2", 1)
	ts.press("Button1")
	ts.DoAction("Rotary2", 1)
	ts.press("Button2")
	ts.DoAction("Rotary1", 1)

	if !reflect.DeepEqual(slots, []int{1, 2, 0}) {
		t.Errorf("Slots = %v", slots)
	}
	if ts.Offset("TrackSend") != 0 {
		t.Errorf("Offset should clamp at zero, got %d", ts.Offset("TrackSend"))
	}
}

func TestRequestUpdate_FeedbackAndClear(t *testing.T) {
	mute := &recorder{}
	ts := newTestSurface(t, `
Zone "Home"
	Mute1 Mute { 255 0 0 0 255 0 }
	Display1 NoAction Feedback=No
	Display1 Mute Feedback=Yes
ZoneEnd
`, Catalogue{"Mute": mute}, "Mute1", "Display1", "Orphan")

	fb := map[string]*fakeFeedback{}
	for _, w := range ts.Widgets() {
		f := &fakeFeedback{}
		w.AddFeedback(f)
		fb[w.Name()] = f
	}

	ts.RequestUpdate()
	ts.RequestUpdate()
	if got := fb["Mute1"].colors; !reflect.DeepEqual(got, []theme.RGB{{255, 0, 0}}) {
		t.Errorf("Expected one red update, got %v", got)
	}
	if fb["Orphan"].clears != 1 {
		t.Errorf("Expected unclaimed widget cleared once, got %d", fb["Orphan"].clears)
	}
	if len(fb["Display1"].values) != 1 {
		t.Errorf("Expected feedback binding to answer, got %v", fb["Display1"].values)
	}

	mute.current = 1
	ts.RequestUpdate()
	if got := fb["Mute1"].colors; len(got) != 2 || got[1] != (theme.RGB{0, 255, 0}) {
		t.Errorf("Expected green after mute, got %v", got)
	}
}

func TestRequestUpdate_ClearsWhenNoBindingMatches(t *testing.T) {
	vol := &recorder{current: 0.7}
	ts := newTestSurface(t, `
Zone "Home"
	Shift+Fader1 Vol
ZoneEnd
`, Catalogue{"Vol": vol}, "Fader1")

	w, _ := ts.Widget("Fader1")
	f := &fakeFeedback{}
	w.AddFeedback(f)

	ts.Modifiers().SetModifier(modifier.Shift, true)
	ts.RequestUpdate()
	if st := w.State(); !st.HasValue || st.Value != 0.7 {
		t.Fatalf("Expected shifted feedback 0.7, got %+v", st)
	}

	ts.clock.advance(time.Second)
	ts.Modifiers().SetModifier(modifier.Shift, false)
	ts.RequestUpdate()
	if st := w.State(); st != (WidgetState{}) {
		t.Errorf("Expected widget blank after release, got %+v", st)
	}
	if f.clears != 1 {
		t.Errorf("Expected one clear, got %d", f.clears)
	}
}

func TestMultipleBindingsRunInOrder(t *testing.T) {
	var order []string
	mk := func(name string) Action {
		return probe(func(*ActionContext, float64) { order = append(order, name) })
	}
	ts := newTestSurface(t, `
Zone "Home"
	Button1 First
	Button1 Second
ZoneEnd
`, Catalogue{"First": mk("first"), "Second": mk("second")}, "Button1")

	ts.DoAction("Button1", 1)
	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Errorf("Order = %v", order)
	}
}
