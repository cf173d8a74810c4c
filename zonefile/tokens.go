package zonefile

import (
	"strconv"
	"strings"
	"unicode"
)

// Wildcard is the positional token replaced by a channel number when a
// binding or zone name is expanded per navigation channel.
const Wildcard = "|"

// altWildcard is accepted on input and normalised to Wildcard
const altWildcard = `\`

// Tokenize splits one configuration line. Quoted strings are single tokens
// with the quotes removed, brackets and braces always stand alone, and a
// parenthesised group is one token with inner whitespace removed. A "//"
// outside quotes ends the line.
func Tokenize(line string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			flush()
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			tokens = append(tokens, string(runes[i+1:j]))
			i = j
		case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
			flush()
			return tokens
		case unicode.IsSpace(r):
			flush()
		case r == '[' || r == ']' || r == '{' || r == '}':
			flush()
			tokens = append(tokens, string(r))
		case r == '(':
			flush()
			j := i + 1
			for j < len(runes) && runes[j] != ')' {
				j++
			}
			end := j + 1
			if end > len(runes) {
				end = len(runes)
			}
			tokens = append(tokens, strings.Join(strings.Fields(string(runes[i:end])), ""))
			i = j
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// HasWildcard reports whether s contains the positional wildcard
func HasWildcard(s string) bool {
	return strings.Contains(s, Wildcard)
}

// Substitute replaces the wildcard in s with channel
func Substitute(s string, channel int) string {
	return strings.ReplaceAll(s, Wildcard, strconv.Itoa(channel))
}

// Expand returns one copy of s per channel 1..channels, or s alone when it
// has no wildcard.
func Expand(s string, channels int) []string {
	if !HasWildcard(s) {
		return []string{s}
	}
	out := make([]string, 0, channels)
	for ch := 1; ch <= channels; ch++ {
		out = append(out, Substitute(s, ch))
	}
	return out
}

func normaliseWildcard(s string) string {
	return strings.ReplaceAll(s, altWildcard, Wildcard)
}
