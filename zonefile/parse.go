package zonefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go-csurf/modifier"
)

// ParseError is a malformed line in a zone file
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// Block keywords
const (
	kwZone               = "Zone"
	kwZoneEnd            = "ZoneEnd"
	kwIncludedZones      = "IncludedZones"
	kwIncludedZonesEnd   = "IncludedZonesEnd"
	kwSubZones           = "SubZones"
	kwSubZonesEnd        = "SubZonesEnd"
	kwAssociatedZones    = "AssociatedZones"
	kwAssociatedZonesEnd = "AssociatedZonesEnd"
	feedbackYes          = "Feedback=Yes"
	feedbackNo           = "Feedback=No"
	holdDelayPrefix      = "HoldDelay="
)

// Prefixes that set binding flags instead of contributing modifier weight
const (
	prefixHold     = "Hold"
	prefixInvert   = "Invert"
	prefixInvertFB = "InvertFB"
)

type parseMode int

const (
	modeTop parseMode = iota
	modeZone
	modeIncluded
	modeSub
	modeAssociated
)

// ParseFile reads every zone defined in path
func ParseFile(path string) ([]*ZoneTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open zone file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads zone definitions from r. On a syntax error it returns the
// zones completed before the offending line together with a *ParseError.
func Parse(r io.Reader, path string) ([]*ZoneTemplate, error) {
	var zones []*ZoneTemplate
	var cur *ZoneTemplate
	mode := modeTop

	fail := func(line int, format string, args ...any) ([]*ZoneTemplate, error) {
		return zones, &ParseError{Path: path, Line: line, Msg: fmt.Sprintf(format, args...)}
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tokens := Tokenize(strings.ReplaceAll(scanner.Text(), "\t", " "))
		if len(tokens) == 0 {
			continue
		}
		for i := range tokens {
			tokens[i] = normaliseWildcard(tokens[i])
		}

		switch tokens[0] {
		case kwZone:
			if mode != modeTop {
				return fail(lineNum, "Zone inside zone %q", cur.Name)
			}
			if len(tokens) < 2 || tokens[1] == "" {
				return fail(lineNum, "Zone without a name")
			}
			cur = &ZoneTemplate{Name: tokens[1], Alias: tokens[1], Path: path, Line: lineNum}
			if len(tokens) > 2 && tokens[2] != "" {
				cur.Alias = tokens[2]
			}
			mode = modeZone
			continue
		case kwZoneEnd:
			if mode != modeZone {
				return fail(lineNum, "ZoneEnd without Zone")
			}
			zones = append(zones, cur)
			cur = nil
			mode = modeTop
			continue
		}

		if mode == modeTop {
			return fail(lineNum, "%q outside of a zone", tokens[0])
		}

		switch tokens[0] {
		case kwIncludedZones, kwSubZones, kwAssociatedZones:
			if mode != modeZone {
				return fail(lineNum, "%s inside another block", tokens[0])
			}
			mode = map[string]parseMode{
				kwIncludedZones:   modeIncluded,
				kwSubZones:        modeSub,
				kwAssociatedZones: modeAssociated,
			}[tokens[0]]
			continue
		case kwIncludedZonesEnd, kwSubZonesEnd, kwAssociatedZonesEnd:
			want := map[string]parseMode{
				kwIncludedZonesEnd:   modeIncluded,
				kwSubZonesEnd:        modeSub,
				kwAssociatedZonesEnd: modeAssociated,
			}[tokens[0]]
			if mode != want {
				return fail(lineNum, "unexpected %s", tokens[0])
			}
			mode = modeZone
			continue
		}

		switch mode {
		case modeIncluded:
			cur.Included = append(cur.Included, tokens...)
		case modeSub:
			cur.SubZones = append(cur.SubZones, tokens...)
		case modeAssociated:
			cur.Associated = append(cur.Associated, tokens...)
		case modeZone:
			t, err := ParseBinding(tokens)
			if err != nil {
				return fail(lineNum, "%v", err)
			}
			t.Line = lineNum
			cur.Bindings = append(cur.Bindings, t)
		}
	}

	if err := scanner.Err(); err != nil {
		return zones, fmt.Errorf("read %s: %w", path, err)
	}
	if cur != nil {
		return fail(lineNum, "zone %q missing ZoneEnd", cur.Name)
	}
	return zones, nil
}

// ParseBinding reads one tokenised binding line
func ParseBinding(tokens []string) (ActionTemplate, error) {
	var t ActionTemplate
	if len(tokens) < 2 {
		return t, fmt.Errorf("binding %q needs a widget and an action", strings.Join(tokens, " "))
	}

	parts := strings.Split(tokens[0], "+")
	t.Widget = parts[len(parts)-1]
	if t.Widget == "" {
		return t, fmt.Errorf("binding %q has no widget", tokens[0])
	}
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case prefixHold:
			t.HoldDelay = DefaultHoldDelay
		case prefixInvert:
			t.ValueInverted = true
		case prefixInvertFB:
			t.FeedbackInverted = true
		default:
			w, ok := modifier.Weight(p)
			if !ok {
				return t, fmt.Errorf("unknown modifier %q", p)
			}
			t.Modifiers |= w
		}
	}

	t.Action = tokens[1]
	for _, p := range tokens[2:] {
		switch {
		case p == feedbackYes:
			t.Feedback = FeedbackYes
		case p == feedbackNo:
			t.Feedback = FeedbackNo
		case strings.HasPrefix(p, holdDelayPrefix):
			v, err := strconv.ParseFloat(strings.TrimPrefix(p, holdDelayPrefix), 64)
			if err != nil || v < 0 {
				return t, fmt.Errorf("bad hold delay %q", p)
			}
			t.HoldDelay = v
		default:
			t.Params = append(t.Params, p)
		}
	}

	if _, err := ParseValueParams(t.Params); err != nil {
		return t, err
	}
	return t, nil
}
