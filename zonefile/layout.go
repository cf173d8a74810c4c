package zonefile

import (
	"strconv"
	"sync"
)

// FXLayoutZone is the zone whose rows describe how auto-generated FX zones
// spread parameters over the surface.
const FXLayoutZone = "FXLayout"

// Layout row properties naming companion display widgets
const (
	layoutNameDisplay  = "NameDisplay"
	layoutValueDisplay = "ValueDisplay"
)

// Actions emitted for display companions
const (
	ActionFXParamNameDisplay  = "FXParamNameDisplay"
	ActionFXParamValueDisplay = "FXParamValueDisplay"
)

// FXParams describes the parameters of one plugin instance
type FXParams struct {
	Name  string
	Count int
	Alias func(idx int) string // display name for a parameter
	Steps func(idx int) int    // discrete step count, 0 or 1 for continuous
}

// GenerateFXZone builds a zone for an FX without a zone file. Every layout
// row whose widget has a wildcard takes consecutive parameter indices over
// channels 1..channels until the parameters run out. Rows without a wildcard
// are copied unchanged.
func GenerateFXZone(layout *ZoneTemplate, fx FXParams, channels int) *ZoneTemplate {
	z := &ZoneTemplate{
		Name:     fx.Name,
		Alias:    fx.Name,
		Included: append([]string(nil), layout.Included...),
	}

	idx := 0
	for _, row := range layout.Bindings {
		if !HasWildcard(row.Widget) {
			z.Bindings = append(z.Bindings, row)
			continue
		}

		vp, _ := ParseValueParams(row.Params)
		for ch := 1; ch <= channels && idx < fx.Count; ch++ {
			params := []string{strconv.Itoa(idx)}
			if fx.Steps != nil {
				if n := fx.Steps(idx); n > 1 {
					params = append(params, "[")
					for _, v := range SteppedValues(n) {
						params = append(params, strconv.FormatFloat(v, 'f', -1, 64))
					}
					params = append(params, "]")
				}
			}

			b := row
			b.Widget = Substitute(row.Widget, ch)
			b.Params = params
			z.Bindings = append(z.Bindings, b)

			alias := ""
			if fx.Alias != nil {
				alias = fx.Alias(idx)
			}
			if w, ok := vp.Properties[layoutNameDisplay]; ok {
				z.Bindings = append(z.Bindings, ActionTemplate{
					Widget:    Substitute(w, ch),
					Modifiers: row.Modifiers,
					Action:    ActionFXParamNameDisplay,
					Params:    []string{strconv.Itoa(idx), alias},
				})
			}
			if w, ok := vp.Properties[layoutValueDisplay]; ok {
				z.Bindings = append(z.Bindings, ActionTemplate{
					Widget:    Substitute(w, ch),
					Modifiers: row.Modifiers,
					Action:    ActionFXParamValueDisplay,
					Params:    []string{strconv.Itoa(idx)},
				})
			}
			idx++
		}
	}
	return z
}

var (
	stepMu    sync.Mutex
	stepCache = make(map[int][]float64)
)

// SteppedValues returns n evenly spaced values from 0 to 1
func SteppedValues(n int) []float64 {
	if n < 2 {
		return nil
	}
	stepMu.Lock()
	defer stepMu.Unlock()
	if v, ok := stepCache[n]; ok {
		return append([]float64(nil), v...)
	}
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i) / float64(n-1)
	}
	stepCache[n] = v
	return append([]float64(nil), v...)
}
