package midi

import (
	"fmt"

	"go-csurf/theme"
)

// NovationPalette maps a subset of the Launchpad velocity palette
var NovationPalette = &theme.Palette{
	Name: "novation",
	Colors: []theme.RGB{
		{0, 0, 0}, {0x40, 0, 0}, {0xff, 0, 0}, {0xff, 0x40, 0x40},
		{0, 0x40, 0}, {0, 0xff, 0}, {0x40, 0xff, 0x40},
		{0x40, 0x40, 0}, {0xff, 0xff, 0}, {0xff, 0xff, 0x80},
		{0x40, 0x20, 0}, {0xff, 0x80, 0}, {0xff, 0xa0, 0x40},
		{0, 0, 0x40}, {0, 0, 0xff}, {0x40, 0x80, 0xff},
		{0, 0xff, 0xff}, {0x80, 0, 0xff}, {0xff, 0x40, 0xc0},
		{0xc0, 0xc0, 0xc0}, {0xff, 0xff, 0xff},
	},
	Values: []uint8{
		0, 7, 5, 72,
		19, 21, 87,
		97, 13, 62,
		11, 9, 84,
		43, 45, 78,
		37, 49, 53,
		3, 119,
	},
}

// LoadPalette resolves the configured button palette. Empty means buttons
// only light on and off.
func LoadPalette(name string) (*theme.Palette, error) {
	switch name {
	case "":
		return nil, nil
	case NovationPalette.Name:
		return NovationPalette, nil
	}
	p, err := theme.LoadGPL(name)
	if err != nil {
		return nil, fmt.Errorf("button palette: %w", err)
	}
	return p, nil
}
