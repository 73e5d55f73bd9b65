package csv

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader returns the canonical form of a header cell: control and
// format characters (zero-width spaces, stray BOMs) removed, NFKC-composed,
// surrounding whitespace trimmed. Case is preserved.
func NormalizeHeader(s string) string {
	t := transform.Chain(
		runes.Remove(runes.In(unicode.Cc)),
		runes.Remove(runes.In(unicode.Cf)),
		norm.NFKC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(out)
}

// normalizeHeaders canonicalizes every header, applies headerMap, names empty
// cells col_N, and disambiguates repeats as name.1, name.2, ...
func normalizeHeaders(h []string, headerMap map[string]string) []string {
	h = StripHeaderBOM(h)
	res := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, col := range h {
		c := NormalizeHeader(col)
		if m, ok := headerMap[c]; ok {
			c = m
		}
		if c == "" {
			c = "col_" + strconv.Itoa(i)
		}
		if n, dup := seen[c]; dup {
			seen[c] = n + 1
			c = c + "." + strconv.Itoa(n+1)
		} else {
			seen[c] = 0
		}
		res[i] = c
	}
	return res
}
