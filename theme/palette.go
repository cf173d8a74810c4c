package theme

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type RGB [3]uint8

// Hex renders the colour as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// ParseHex parses #rrggbb (or #rgb)
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return fromColorful(c), nil
}

// ParseTriple parses three 0-255 components
func ParseTriple(r, g, b string) (RGB, error) {
	var out RGB
	for i, s := range []string{r, g, b} {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("parse colour component %q", s)
		}
		out[i] = uint8(v)
	}
	return out, nil
}

// Blend mixes a towards b in Lab space, t in 0-1
func Blend(a, b RGB, t float64) RGB {
	return fromColorful(a.colorful().BlendLab(b.colorful(), t))
}

// Palette is an ordered set of colours. A device palette maps entry i to the
// velocity/value that selects it on the hardware.
type Palette struct {
	Name   string
	Colors []RGB
	Values []uint8 // optional hardware value per colour, defaults to the index
}

func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) >= 3 {
			if c, err := ParseTriple(fields[0], fields[1], fields[2]); err == nil {
				p.Colors = append(p.Colors, c)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette %s", path)
	}

	return p, nil
}

// Lookup returns interpolated color for normalized value 0-1
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	return Blend(p.Colors[i], p.Colors[i+1], pos-float64(i))
}

// Nearest returns the hardware value of the palette entry closest to c
func (p *Palette) Nearest(c RGB) uint8 {
	best := 0
	bestDist := -1.0
	target := c.colorful()
	for i, pc := range p.Colors {
		d := target.DistanceLab(pc.colorful())
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < len(p.Values) {
		return p.Values[best]
	}
	return uint8(best)
}
