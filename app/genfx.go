package app

import (
	"errors"
	"fmt"

	"go-csurf/zonefile"
)

// ErrNoLayout is returned when the zone folder has no FXLayout zone
var ErrNoLayout = errors.New("no " + zonefile.FXLayoutZone + " zone")

// GenerateFX builds the zone the surface would generate for the FX at
// slot (0-based) on track (1-based)
func (a *App) GenerateFX(track, slot int) (*zonefile.ZoneTemplate, error) {
	layout, ok := a.Index.Lookup(zonefile.FXLayoutZone)
	if !ok {
		return nil, ErrNoLayout
	}
	tracks := a.Session.Tracks()
	if track < 1 || track > len(tracks) {
		return nil, fmt.Errorf("track %d of %d", track, len(tracks))
	}
	t := tracks[track-1]
	if slot < 0 || slot >= a.Session.FXCount(t) {
		return nil, fmt.Errorf("track %d has no fx in slot %d", track, slot)
	}

	name := a.Session.FXName(t, slot)
	aliases := a.Surface.Aliases()
	fx := zonefile.FXParams{
		Name:  name,
		Count: a.Session.FXParamCount(t, slot),
		Alias: func(idx int) string {
			if aliases != nil {
				if alias, ok := aliases.Alias(name, idx); ok {
					return alias
				}
			}
			return a.Session.FXParamName(t, slot, idx)
		},
		Steps: func(idx int) int { return a.Session.FXParamSteps(t, slot, idx) },
	}
	return zonefile.GenerateFXZone(layout, fx, a.Config.Channels), nil
}
