// Package engine binds parsed zone templates to surface widgets and actions,
// keeps the active zone tree, and dispatches control messages through it.
package engine

import (
	"math"

	"go-csurf/theme"
)

// Action is a named operation bound to widgets. Do receives the value after
// the binding's transform pipeline has run.
type Action interface {
	Do(ctx *ActionContext, value float64)
}

// ValueReader reports the action's current normalized value, used by
// relative transforms and soft takeover.
type ValueReader interface {
	CurrentNormalizedValue(ctx *ActionContext) float64
}

// Updater pushes feedback for a binding on every poll. It must clear the
// widget when its target is gone.
type Updater interface {
	RequestUpdate(ctx *ActionContext)
}

// Toucher receives touch events for touch-sensitive controls
type Toucher interface {
	Touch(ctx *ActionContext, value float64)
}

// Ranged actions work in a native range instead of 0-1. A two-entry stepped
// list on a Ranged binding overrides that range.
type Ranged interface {
	Range() (min, max float64)
}

// Catalogue maps action names to implementations
type Catalogue map[string]Action

// Register adds or replaces an action
func (c Catalogue) Register(name string, a Action) {
	c[name] = a
}

// Lookup finds an action by name
func (c Catalogue) Lookup(name string) (Action, bool) {
	a, ok := c[name]
	return a, ok
}

// Merge copies every action of other into c
func (c Catalogue) Merge(other Catalogue) {
	for k, v := range other {
		c[k] = v
	}
}

// Target is the entity a navigator resolves to, typically a track
type Target interface {
	TargetID() string
}

// Navigator resolves a zone to its current target
type Navigator interface {
	Name() string
	Target() (Target, bool)
}

type nullNavigator struct{}

func (nullNavigator) Name() string           { return "None" }
func (nullNavigator) Target() (Target, bool) { return nil, false }

// Host is the workstation side: navigators and target attributes
type Host interface {
	TrackNavigator(channel int) Navigator
	MasterTrackNavigator() Navigator
	SelectedTrackNavigator() Navigator
	FocusedFXNavigator() Navigator

	FocusedFX() (Target, int, bool)
	FXCount(t Target) int
	FXName(t Target, slot int) string
	FXParamCount(t Target, slot int) int
	FXParamName(t Target, slot, param int) string
	FXParamSteps(t Target, slot, param int) int
	TrackColor(t Target) theme.RGB
}

// ViewListener is told when VCA, Folder or SelectedTracks views change
type ViewListener interface {
	ViewChanged(view string, active bool)
}

// CommandResolver maps named host commands to ids
type CommandResolver interface {
	CommandID(name string) (int, bool)
}

// softTakeoverWindow is how close an absolute write must be to the current
// value before it is applied
const softTakeoverWindow = 0.025

// SoftTakeover reports whether value is close enough to the action's current
// value to be applied without a jump.
func SoftTakeover(ctx *ActionContext, value float64) bool {
	r, ok := ctx.action.(ValueReader)
	if !ok {
		return true
	}
	return math.Abs(r.CurrentNormalizedValue(ctx)-value) <= softTakeoverWindow
}
