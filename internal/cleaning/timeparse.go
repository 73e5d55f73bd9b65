package cleaning

import (
	"strings"
	"time"
)

// DefaultLayouts are tried, in order, after the zero-alloc fast path. They
// cover the layouts found in the Olist exports and the common ISO variants.
var DefaultLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Parser turns timestamp text into time.Time. The zero value only knows the
// fast path; build one with NewParser.
type Parser struct {
	layouts []string
	loc     *time.Location
}

// NewParser returns a Parser that tries the fast path, then DefaultLayouts,
// then extra. Layouts without a zone offset are interpreted in loc (UTC when
// nil).
func NewParser(loc *time.Location, extra ...string) Parser {
	if loc == nil {
		loc = time.UTC
	}
	layouts := make([]string, 0, len(DefaultLayouts)+len(extra))
	layouts = append(layouts, DefaultLayouts...)
	for _, l := range extra {
		if strings.TrimSpace(l) != "" {
			layouts = append(layouts, l)
		}
	}
	return Parser{layouts: layouts, loc: loc}
}

var defaultParser = NewParser(time.UTC)

// ParseTime parses s with the default layouts in UTC. Empty or unparsable
// input reports ok=false.
func ParseTime(s string) (time.Time, bool) { return defaultParser.Parse(s) }

// Parse parses s. Surrounding whitespace is ignored.
func (p Parser) Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	loc := p.loc
	if loc == nil {
		loc = time.UTC
	}
	if t, ok := parseISODateTime(s, loc); ok {
		return t, true
	}
	for _, layout := range p.layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseISODateTime is a zero-allocation parser for "2006-01-02 15:04:05",
// the layout of every timestamp column in the Olist exports.
func parseISODateTime(s string, loc *time.Location) (time.Time, bool) {
	if len(s) != 19 || s[4] != '-' || s[7] != '-' || s[10] != ' ' || s[13] != ':' || s[16] != ':' {
		return time.Time{}, false
	}
	year, ok1 := digits(s[0:4])
	mon, ok2 := digits(s[5:7])
	day, ok3 := digits(s[8:10])
	hh, ok4 := digits(s[11:13])
	mm, ok5 := digits(s[14:16])
	ss, ok6 := digits(s[17:19])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return time.Time{}, false
	}
	if mon < 1 || mon > 12 || day < 1 || day > daysIn(time.Month(mon), year) || hh > 23 || mm > 59 || ss > 59 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(mon), day, hh, mm, ss, 0, loc), true
}

func digits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		d := s[i] - '0'
		if d > 9 {
			return 0, false
		}
		n = n*10 + int(d)
	}
	return n, true
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
