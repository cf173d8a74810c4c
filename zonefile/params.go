package zonefile

import (
	"fmt"
	"strconv"
	"strings"

	"go-csurf/theme"
)

// ValueParams is the structured reading of a binding's parameter list
type ValueParams struct {
	Plain       []string // parameters outside any block, e.g. a param index or zone name
	Stepped     []float64
	Delta       float64
	AccelDeltas []float64
	AccelTicks  []int
	HasRange    bool
	RangeMin    float64
	RangeMax    float64
	Colors      []theme.RGB
	TrackColor  bool
	Properties  map[string]string
}

// ParseValueParams reads the numeric and structured sub-grammars out of a
// parameter list.
func ParseValueParams(params []string) (ValueParams, error) {
	vp := ValueParams{Properties: make(map[string]string)}

	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == "[":
			end, err := closing(params, i, "]")
			if err != nil {
				return vp, err
			}
			if err := vp.parseStepBlock(params[i+1 : end]); err != nil {
				return vp, err
			}
			i = end
		case p == "{":
			end, err := closing(params, i, "}")
			if err != nil {
				return vp, err
			}
			if err := vp.parseColorBlock(params[i+1 : end]); err != nil {
				return vp, err
			}
			i = end
		case p == "]" || p == "}":
			return vp, fmt.Errorf("unexpected %q", p)
		case strings.HasPrefix(p, "("):
			if err := vp.parseParen(p); err != nil {
				return vp, err
			}
		case strings.Contains(p, "=") && !strings.HasPrefix(p, "="):
			kv := strings.SplitN(p, "=", 2)
			vp.Properties[kv[0]] = kv[1]
		default:
			vp.Plain = append(vp.Plain, p)
		}
	}
	return vp, nil
}

func closing(params []string, start int, want string) (int, error) {
	for j := start + 1; j < len(params); j++ {
		if params[j] == want {
			return j, nil
		}
	}
	return 0, fmt.Errorf("missing %q", want)
}

func (vp *ValueParams) parseStepBlock(tokens []string) error {
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "(") {
			if err := vp.parseParen(tok); err != nil {
				return err
			}
			continue
		}
		if lo, hi, ok := splitRange(tok); ok {
			vp.HasRange = true
			vp.RangeMin, vp.RangeMax = lo, hi
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("bad stepped value %q", tok)
		}
		vp.Stepped = append(vp.Stepped, v)
	}
	return nil
}

// splitRange reads lo>hi or lo-hi. A leading minus belongs to lo.
func splitRange(tok string) (lo, hi float64, ok bool) {
	sep := strings.Index(tok, ">")
	if sep < 0 && len(tok) > 1 {
		if j := strings.Index(tok[1:], "-"); j >= 0 {
			sep = j + 1
		}
	}
	if sep <= 0 || sep == len(tok)-1 {
		return 0, 0, false
	}
	lo, err1 := strconv.ParseFloat(tok[:sep], 64)
	hi, err2 := strconv.ParseFloat(tok[sep+1:], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

func (vp *ValueParams) parseParen(tok string) error {
	if !strings.HasSuffix(tok, ")") {
		return fmt.Errorf("missing \")\" in %q", tok)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, "("), ")")
	parts := strings.Split(inner, ",")

	if len(parts) == 1 {
		v, err := strconv.ParseFloat(inner, 64)
		if err != nil {
			return fmt.Errorf("bad delta %q", tok)
		}
		vp.Delta = v
		return nil
	}

	if strings.Contains(inner, ".") {
		for _, s := range parts {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("bad accelerated delta %q", s)
			}
			vp.AccelDeltas = append(vp.AccelDeltas, v)
		}
		return nil
	}

	for _, s := range parts {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("bad accelerated tick %q", s)
		}
		vp.AccelTicks = append(vp.AccelTicks, v)
	}
	return nil
}

func (vp *ValueParams) parseColorBlock(tokens []string) error {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "Track":
			vp.TrackColor = true
		case strings.HasPrefix(tok, "#"):
			c, err := theme.ParseHex(tok)
			if err != nil {
				return err
			}
			vp.Colors = append(vp.Colors, c)
		default:
			if i+2 >= len(tokens) {
				return fmt.Errorf("incomplete colour near %q", tok)
			}
			c, err := theme.ParseTriple(tok, tokens[i+1], tokens[i+2])
			if err != nil {
				return err
			}
			vp.Colors = append(vp.Colors, c)
			i += 2
		}
	}
	return nil
}
