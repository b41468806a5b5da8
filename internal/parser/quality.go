package parser

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical quality labels.
const (
	QualityLossless     = "Lossless"
	QualityCD           = "CD Quality"
	QualityHigh         = "High Quality"
	QualityLow          = "Low Quality"
	QualityRecording    = "Recording"
	QualityOG           = "OG File"
	QualityNotAvailable = "Not Available"
)

var qualitySynonyms = map[string]string{
	"lossless":         QualityLossless,
	"flac":             QualityLossless,
	"wav":              QualityLossless,
	"alac":             QualityLossless,
	"aiff":             QualityLossless,
	"cdq":              QualityCD,
	"cd quality":       QualityCD,
	"cd":               QualityCD,
	"hq":               QualityHigh,
	"high quality":     QualityHigh,
	"high":             QualityHigh,
	"320kbps":          QualityHigh,
	"lq":               QualityLow,
	"low quality":      QualityLow,
	"low":              QualityLow,
	"recording":        QualityRecording,
	"recorded":         QualityRecording,
	"rec":              QualityRecording,
	"og":               QualityOG,
	"original":         QualityOG,
	"og file":          QualityOG,
	"og files":         QualityOG,
	"n/a":              QualityNotAvailable,
	"na":               QualityNotAvailable,
	"unavailable":      QualityNotAvailable,
	"not available":    QualityNotAvailable,
	"none":             QualityNotAvailable,
	"lost":             QualityNotAvailable,
	"not yet surfaced": QualityNotAvailable,
}

type qualityMatcher struct {
	pattern *regexp.Regexp
	label   string
}

// qualityBySubstring checks longer synonyms first and only at word boundaries, so
// "og" does not fire inside "recording".
var qualityBySubstring = buildQualityMatchers()

func buildQualityMatchers() []qualityMatcher {
	keys := make([]string, 0, len(qualitySynonyms))
	for k := range qualitySynonyms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	out := make([]qualityMatcher, 0, len(keys))
	for _, k := range keys {
		out = append(out, qualityMatcher{
			pattern: regexp.MustCompile(`(?:^|[^a-z0-9])` + regexp.QuoteMeta(k) + `(?:$|[^a-z0-9])`),
			label:   qualitySynonyms[k],
		})
	}
	return out
}

var titleCaser = cases.Title(language.English)

// StandardizeQuality maps free-text quality to a canonical label. Unknown text is
// title-cased and returned as its own label.
func StandardizeQuality(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if label, ok := qualitySynonyms[lower]; ok {
		return label
	}
	for _, m := range qualityBySubstring {
		if m.pattern.MatchString(lower) {
			return m.label
		}
	}
	return titleCaser.String(trimmed)
}
