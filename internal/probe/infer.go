package probe

import (
	"strconv"
	"strings"
	"time"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/cleaning"
)

// inferType picks the narrowest type every non-empty value satisfies:
// integer, boolean, real, timestamp, date, then text.
func inferType(nonEmpty []string) string {
	if len(nonEmpty) == 0 {
		return TypeText
	}
	if allMatch(nonEmpty, isInt) {
		return TypeInteger
	}
	if allMatch(nonEmpty, isBool) {
		return TypeBoolean
	}
	if allMatch(nonEmpty, isFloat) {
		return TypeReal
	}
	allDate, anyTime := true, false
	for _, v := range nonEmpty {
		ok, hasTime := parseDateOrTimestamp(v)
		if !ok {
			allDate = false
			break
		}
		anyTime = anyTime || hasTime
	}
	switch {
	case allDate && anyTime:
		return TypeTimestamp
	case allDate:
		return TypeDate
	}
	return TypeText
}

func nonEmptyTrimmed(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "t", "f", "yes", "no", "y", "n":
		return true
	}
	return false
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// parseDateOrTimestamp accepts anything the cleaner parses plus the extra
// layouts below. hasTime is false only for date-only layouts.
func parseDateOrTimestamp(s string) (ok bool, hasTime bool) {
	if _, ok := cleaning.ParseTime(s); ok {
		return true, len(s) > len("2006-01-02")
	}
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, true
		}
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, false
		}
	}
	return false, false
}

// layoutFor returns "" when the cleaner's built-in layouts cover every
// sample, otherwise the best-scoring extra layout.
func layoutFor(typ string, samples []string) string {
	if allMatch(samples, func(s string) bool { _, ok := cleaning.ParseTime(s); return ok }) {
		return ""
	}
	if typ == TypeTimestamp {
		return selectBestLayout(samples, timestampLayouts, timestampLayoutPreference)
	}
	return selectBestLayout(samples, dateLayouts, dateLayoutPreference)
}

// dateLayouts are common date formats without a time component.
var dateLayouts = []string{
	"02.01.2006",
	"01.02.2006",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"20060102",
}

// timestampLayouts are common formats with a time component.
var timestampLayouts = []string{
	"2006/01/02 15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04:05",
	"02/01/2006 15:04",
	"01/02/2006 15:04",
	"2006-01-02 15:04:05 -0700",
}

// dateLayoutPreference breaks ties between date layouts. Brazilian exports
// are day-first, so DMY wins over ISO over MDY.
func dateLayoutPreference(layout string) int {
	switch layout {
	case "02.01.2006", "02/01/2006":
		return 3
	case "2006/01/02", "20060102":
		return 2
	case "01.02.2006", "01/02/2006":
		return 1
	}
	return 0
}

func timestampLayoutPreference(layout string) int {
	switch layout {
	case "02/01/2006 15:04:05", "02/01/2006 15:04":
		return 2
	case "2006/01/02 15:04:05", "2006-01-02 15:04:05 -0700":
		return 1
	}
	return 0
}

// selectBestLayout scores each layout by how many samples it parses and
// picks the highest score, then the higher preference, then the earlier
// layout. It returns "" when nothing parses.
func selectBestLayout(samples []string, layouts []string, pref func(string) int) string {
	bestIdx, bestScore, bestPref := -1, 0, -1
	for i, lay := range layouts {
		score := 0
		for _, s := range samples {
			if _, err := time.Parse(lay, s); err == nil {
				score++
			}
		}
		if score == 0 || score < bestScore {
			continue
		}
		if p := pref(lay); score > bestScore || p > bestPref {
			bestIdx, bestScore, bestPref = i, score, p
		}
	}
	if bestIdx < 0 {
		return ""
	}
	return layouts[bestIdx]
}
