package app

import (
	"strings"
	"testing"

	"go-csurf/config"
	"go-csurf/daw"
	"go-csurf/zonefile"
)

func TestCheck(t *testing.T) {
	const text = `Zone "Home"
	IncludedZones
		"Channel|"
		"Missing"
	IncludedZonesEnd
	Play Play
	Jog Rewind
	OnZoneActivation GoHome
ZoneEnd

Zone "Channel|"
	Fader| TrackVolume
	Knob| TrackPan
ZoneEnd
`
	zones, err := zonefile.Parse(strings.NewReader(text), "test.zon")
	if err != nil {
		t.Fatal(err)
	}
	ix := zonefile.NewIndex()
	for _, z := range zones {
		ix.Add(z)
	}

	problems := Check(ix, config.DefaultWidgets(2), 2, Catalogue(daw.NewSession(1)))

	want := []string{
		"no widget Knob1",
		"references missing zone Missing",
		"no widget Jog",
		"unknown action Rewind",
	}
	var got []string
	for _, p := range problems {
		got = append(got, p.Msg)
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d problems, got %v", len(want), got)
	}
	for _, w := range want {
		found := false
		for _, g := range got {
			if g == w {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected problem %q in %v", w, got)
		}
	}
}
