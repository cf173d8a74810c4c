package zonefile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go-csurf/modifier"
)

// Write serialises zones in the zone language
func Write(w io.Writer, zones ...*ZoneTemplate) error {
	bw := bufio.NewWriter(w)
	for i, z := range zones {
		if i > 0 {
			bw.WriteString("\n")
		}
		writeZone(bw, z)
	}
	return bw.Flush()
}

func writeZone(w *bufio.Writer, z *ZoneTemplate) {
	if z.Alias != "" && z.Alias != z.Name {
		fmt.Fprintf(w, "%s %q %q\n", kwZone, z.Name, z.Alias)
	} else {
		fmt.Fprintf(w, "%s %q\n", kwZone, z.Name)
	}

	writeList(w, kwIncludedZones, kwIncludedZonesEnd, z.Included)
	writeList(w, kwSubZones, kwSubZonesEnd, z.SubZones)
	writeList(w, kwAssociatedZones, kwAssociatedZonesEnd, z.Associated)

	for _, b := range z.Bindings {
		w.WriteString("    ")
		w.WriteString(FormatBinding(b))
		w.WriteString("\n")
	}
	w.WriteString(kwZoneEnd + "\n")
}

func writeList(w *bufio.Writer, open, close string, names []string) {
	if len(names) == 0 {
		return
	}
	w.WriteString("    " + open + "\n")
	for _, n := range names {
		fmt.Fprintf(w, "        %q\n", n)
	}
	w.WriteString("    " + close + "\n")
}

// FormatBinding renders one binding line
func FormatBinding(b ActionTemplate) string {
	var sb strings.Builder
	if b.HoldDelay > 0 {
		sb.WriteString(prefixHold + "+")
	}
	if b.ValueInverted {
		sb.WriteString(prefixInvert + "+")
	}
	if b.FeedbackInverted {
		sb.WriteString(prefixInvertFB + "+")
	}
	sb.WriteString(modifier.Prefix(b.Modifiers))
	sb.WriteString(b.Widget)
	sb.WriteString(" ")
	sb.WriteString(b.Action)

	for _, p := range b.Params {
		sb.WriteString(" ")
		sb.WriteString(quoteParam(p))
	}
	if b.HoldDelay > 0 && b.HoldDelay != DefaultHoldDelay {
		sb.WriteString(" " + holdDelayPrefix + strconv.FormatFloat(b.HoldDelay, 'g', -1, 64))
	}
	switch b.Feedback {
	case FeedbackYes:
		sb.WriteString(" " + feedbackYes)
	case FeedbackNo:
		sb.WriteString(" " + feedbackNo)
	}
	return sb.String()
}

// quoteParam quotes p unless the tokenizer would read it back as the same
// single token. Lone brackets and parenthesised groups stay bare.
func quoteParam(p string) string {
	switch {
	case p == "[" || p == "]" || p == "{" || p == "}":
		return p
	case strings.HasPrefix(p, "(") && strings.HasSuffix(p, ")") && strings.Count(p, "(") == 1:
		return p
	case p == "" || strings.ContainsAny(p, " \t[]{}()") || strings.Contains(p, "//"):
		return `"` + p + `"`
	}
	return p
}
