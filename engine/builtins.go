package engine

import (
	"strconv"

	"go-csurf/modifier"
)

// Builtins returns the surface-navigation actions every surface knows
func Builtins() Catalogue {
	c := Catalogue{
		"NoAction":             noAction{},
		"ToggleChannel":        toggleChannel{},
		"ClearModifiers":       clearModifiers{},
		"GoHome":               goHome{},
		"GoSubZone":            goSubZone{},
		"LeaveSubZone":         leaveSubZone{},
		"GoAssociatedZone":     goAssociated{},
		"GoVCA":                goAssociated{zone: ViewVCA},
		"GoFolder":             goAssociated{zone: ViewFolder},
		"GoSelectedTracks":     goAssociated{zone: ViewSelectedTracks},
		"GoFXSlot":             goFXSlot{},
		"GoFocusedFX":          goFocusedFX{},
		"GoSelectedTrackFX":    goSelectedTrackFX{},
		"ToggleFocusedFXParam": toggleFocusedFXParam{},
		"AdjustOffset":         adjustOffset{},
	}
	for _, f := range modifier.Flags() {
		c.Register(f.String(), modifierAction{flag: f})
	}
	return c
}

type noAction struct{}

func (noAction) Do(*ActionContext, float64) {}

func (noAction) RequestUpdate(ctx *ActionContext) { ctx.ClearWidget() }

type modifierAction struct {
	flag modifier.Flag
}

func (a modifierAction) Do(ctx *ActionContext, v float64) {
	ctx.Surface().Modifiers().SetModifier(a.flag, v != 0)
}

func (a modifierAction) RequestUpdate(ctx *ActionContext) {
	ctx.UpdateValue(boolValue(ctx.Surface().Modifiers().Engaged(a.flag)))
}

// channelOf is the channel an action applies to: an explicit integer
// parameter, else the widget's own channel.
func channelOf(ctx *ActionContext) int {
	if ctx.IntParam() > 0 {
		return ctx.IntParam()
	}
	return ctx.Widget().Channel()
}

type toggleChannel struct{}

func (toggleChannel) Do(ctx *ActionContext, v float64) {
	if v == 0 {
		return
	}
	ctx.Surface().Modifiers().ToggleChannel(channelOf(ctx))
}

func (toggleChannel) RequestUpdate(ctx *ActionContext) {
	ctx.UpdateValue(boolValue(ctx.Surface().Modifiers().Toggled(channelOf(ctx))))
}

type clearModifiers struct{}

func (clearModifiers) Do(ctx *ActionContext, v float64) {
	if v != 0 {
		ctx.Surface().Modifiers().Clear()
	}
}

type goHome struct{}

func (goHome) Do(ctx *ActionContext, v float64) {
	if v != 0 {
		ctx.Surface().GoHome()
	}
}

type goSubZone struct{}

func (goSubZone) Do(ctx *ActionContext, v float64) {
	if v != 0 {
		ctx.Surface().GoSubZone(ctx, ctx.StringParam())
	}
}

type leaveSubZone struct{}

func (leaveSubZone) Do(ctx *ActionContext, v float64) {
	if v != 0 {
		ctx.Surface().LeaveSubZone(ctx)
	}
}

// goAssociated toggles an associated zone, named by the action or its
// first parameter
type goAssociated struct {
	zone string
}

func (a goAssociated) name(ctx *ActionContext) string {
	if a.zone != "" {
		return a.zone
	}
	return ctx.StringParam()
}

func (a goAssociated) Do(ctx *ActionContext, v float64) {
	if v != 0 {
		ctx.Surface().GoAssociatedZone(ctx, a.name(ctx))
	}
}

func (a goAssociated) RequestUpdate(ctx *ActionContext) {
	z, ok := ctx.Surface().FindZone(a.name(ctx))
	ctx.UpdateValue(boolValue(ok && z.Active()))
}

type goFXSlot struct{}

func (goFXSlot) Do(ctx *ActionContext, v float64) {
	if v == 0 {
		return
	}
	z := ctx.Zone()
	if z == nil {
		return
	}
	slot := ctx.SlotIndex()
	if len(ctx.Params()) > 0 {
		slot = ctx.IntParam()
	}
	nav := z.Navigator()
	if _, ok := nav.Target(); !ok {
		nav = ctx.Surface().Host().SelectedTrackNavigator()
	}
	ctx.Surface().GoFXSlot(nav, slot)
}

type goFocusedFX struct{}

func (goFocusedFX) Do(ctx *ActionContext, v float64) {
	if v != 0 {
		ctx.Surface().GoFocusedFX()
	}
}

type goSelectedTrackFX struct{}

func (goSelectedTrackFX) Do(ctx *ActionContext, v float64) {
	if v != 0 {
		ctx.Surface().GoSelectedTrackFX()
	}
}

type toggleFocusedFXParam struct{}

func (toggleFocusedFXParam) Do(ctx *ActionContext, v float64) {
	if v != 0 {
		ctx.Surface().ToggleFocusedFXParam()
	}
}

func (toggleFocusedFXParam) RequestUpdate(ctx *ActionContext) {
	ctx.UpdateValue(boolValue(ctx.Surface().FocusedFXParamEnabled()))
}

// adjustOffset moves a slot offset: AdjustOffset TrackSend -1
type adjustOffset struct{}

func (adjustOffset) Do(ctx *ActionContext, v float64) {
	if v == 0 {
		return
	}
	p := ctx.Params()
	if len(p) < 2 {
		return
	}
	delta, err := strconv.Atoi(p[1])
	if err != nil {
		return
	}
	ctx.Surface().AdjustOffset(p[0], delta)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
