package app

import (
	"fmt"
	"sort"

	"go-csurf/config"
	"go-csurf/daw"
	"go-csurf/engine"
	"go-csurf/zonefile"
)

// Problem is one finding of Check
type Problem struct {
	Path string
	Line int
	Zone string
	Msg  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s:%d: zone %q: %s", p.Path, p.Line, p.Zone, p.Msg)
}

// Check reports bindings to widgets the surface lacks, unknown actions and
// references to missing zones. Surfaces still load with these problems;
// the offending bindings are dropped at build time.
func Check(ix *zonefile.Index, widgets []config.WidgetConfig, channels int, cat engine.Catalogue) []Problem {
	known := map[string]bool{
		zonefile.OnZoneActivation:   true,
		zonefile.OnZoneDeactivation: true,
	}
	for _, w := range widgets {
		known[w.Name] = true
	}

	var out []Problem
	for _, name := range ix.Names() {
		z, _ := ix.Lookup(name)
		report := func(line int, format string, args ...any) {
			out = append(out, Problem{Path: z.Path, Line: line, Zone: z.Name, Msg: fmt.Sprintf(format, args...)})
		}

		for _, b := range z.Bindings {
			for _, w := range zonefile.Expand(b.Widget, channels) {
				if !known[w] {
					report(b.Line, "no widget %s", w)
					break
				}
			}
			if _, ok := cat.Lookup(b.Action); !ok {
				report(b.Line, "unknown action %s", b.Action)
			}
		}

		refs := append(append(append([]string(nil), z.Included...), z.SubZones...), z.Associated...)
		for _, r := range refs {
			if _, ok := ix.Lookup(r); !ok {
				report(z.Line, "references missing zone %s", r)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// Catalogue is every action a surface bound to s knows
func Catalogue(s *daw.Session) engine.Catalogue {
	cat := engine.Builtins()
	cat.Merge(s.Catalogue())
	return cat
}
