package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cesargomez89/leaktracker/internal/constants"
)

type dateLayout struct {
	pattern *regexp.Regexp
	build   func(m []string) (y, mo, d int, ok bool)
}

var datePrefix = regexp.MustCompile(`(?i)^(?:leaked|released|recorded|date)\s*(?:on)?\s*:?\s*`)

var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// dateLayouts are tried in order; the first that matches and yields a valid
// in-range date wins.
var dateLayouts = []dateLayout{
	{ // M/D/YYYY
		regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`),
		func(m []string) (int, int, int, bool) { return atoi(m[3]), atoi(m[1]), atoi(m[2]), true },
	},
	{ // D.M.YYYY
		regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`),
		func(m []string) (int, int, int, bool) { return atoi(m[3]), atoi(m[2]), atoi(m[1]), true },
	},
	{ // YYYY-M-D
		regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`),
		func(m []string) (int, int, int, bool) { return atoi(m[1]), atoi(m[2]), atoi(m[3]), true },
	},
	{ // Mon D, YYYY
		regexp.MustCompile(`(?i)^([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})$`),
		func(m []string) (int, int, int, bool) {
			mo, ok := month(m[1])
			return atoi(m[3]), mo, atoi(m[2]), ok
		},
	},
	{ // D Mon YYYY
		regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]{3,9})\.?,?\s+(\d{4})$`),
		func(m []string) (int, int, int, bool) {
			mo, ok := month(m[2])
			return atoi(m[3]), mo, atoi(m[1]), ok
		},
	},
	{ // Mon YYYY
		regexp.MustCompile(`(?i)^([a-z]{3,9})\.?,?\s+(\d{4})$`),
		func(m []string) (int, int, int, bool) {
			mo, ok := month(m[1])
			return atoi(m[2]), mo, 1, ok
		},
	},
	{ // YYYY
		regexp.MustCompile(`^(\d{4})$`),
		func(m []string) (int, int, int, bool) { return atoi(m[1]), 1, 1, true },
	},
	{ // Q<n> YYYY
		regexp.MustCompile(`(?i)^Q([1-4])\s+(\d{4})$`),
		func(m []string) (int, int, int, bool) { return atoi(m[2]), (atoi(m[1])-1)*3 + 1, 1, true },
	},
}

// NormalizeDate parses the loose date formats found in trackers. ok is false when
// nothing matched or the year falls outside [1990, now+5].
func NormalizeDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, "("), ")"))
	s = strings.TrimSpace(datePrefix.ReplaceAllString(s, ""))
	if s == "" {
		return time.Time{}, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch strings.ToLower(s) {
	case "today":
		return today, true
	case "yesterday":
		return today.AddDate(0, 0, -1), true
	case "last week":
		return today.AddDate(0, 0, -7), true
	case "last month":
		return today.AddDate(0, -1, 0), true
	case "last year":
		return today.AddDate(-1, 0, 0), true
	}

	for _, layout := range dateLayouts {
		m := layout.pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		y, mo, d, ok := layout.build(m)
		if !ok {
			continue
		}
		if t, valid := validDate(y, mo, d, now); valid {
			return t, true
		}
	}
	return time.Time{}, false
}

func validDate(y, mo, d int, now time.Time) (time.Time, bool) {
	if y < constants.MinYear || y > now.Year()+constants.MaxYearsAhead {
		return time.Time{}, false
	}
	if mo < 1 || mo > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func month(name string) (int, bool) {
	m, ok := monthNames[strings.ToLower(name)]
	return m, ok
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
