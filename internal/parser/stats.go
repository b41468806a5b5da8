package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cesargomez89/leaktracker/internal/domain"
)

type statPattern struct {
	pattern *regexp.Regexp
	set     func(s *domain.TrackerStatistics, n int)
}

// statPatterns each read one "<number> <label>" count. A category is taken from
// the first cell that matches it; later matches are ignored.
var statPatterns = []statPattern{
	{regexp.MustCompile(`(?i)(\d+)\s*(?:total\s+)?links?\s*(?:total|tracked)?\b`), func(s *domain.TrackerStatistics, n int) { s.Links.Total = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*(?:missing|dead|broken)\s*links?`), func(s *domain.TrackerStatistics, n int) { s.Links.Missing = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*(?:sources?|sourced)\b`), func(s *domain.TrackerStatistics, n int) { s.Links.Sources = n }},

	{regexp.MustCompile(`(?i)(\d+)\s*lossless\b`), func(s *domain.TrackerStatistics, n int) { s.Quality.Lossless = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*(?:cd\s*quality|cdq)\b`), func(s *domain.TrackerStatistics, n int) { s.Quality.CDQuality = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*(?:high\s*quality|hq)\b`), func(s *domain.TrackerStatistics, n int) { s.Quality.HighQuality = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*(?:low\s*quality|lq)\b`), func(s *domain.TrackerStatistics, n int) { s.Quality.LowQuality = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*recordings?\b`), func(s *domain.TrackerStatistics, n int) { s.Quality.Recordings = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*not\s*available\b`), func(s *domain.TrackerStatistics, n int) { s.Quality.NotAvailable = n }},

	{regexp.MustCompile(`(?i)(\d+)\s*og\s*files?\b`), func(s *domain.TrackerStatistics, n int) { s.Availability.OGFiles = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*full\b`), func(s *domain.TrackerStatistics, n int) { s.Availability.Full = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*tagged\b`), func(s *domain.TrackerStatistics, n int) { s.Availability.Tagged = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*partials?\b`), func(s *domain.TrackerStatistics, n int) { s.Availability.Partial = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*snippets?\b`), func(s *domain.TrackerStatistics, n int) { s.Availability.Snippets = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*stem\s*bounces?\b`), func(s *domain.TrackerStatistics, n int) { s.Availability.StemBounces = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*unavailable\b`), func(s *domain.TrackerStatistics, n int) { s.Availability.Unavailable = n }},

	{regexp.MustCompile(`(?i)(\d+)\s*(?:best\s*of|⭐)`), func(s *domain.TrackerStatistics, n int) { s.Highlighted.Best = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*(?:special|✨)`), func(s *domain.TrackerStatistics, n int) { s.Highlighted.Special = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*(?:grails?|wanted|🏆)`), func(s *domain.TrackerStatistics, n int) { s.Highlighted.Grails = n }},
}

// ExtractStatistics scans every cell from footerStart onward for footer counts.
func ExtractStatistics(rows [][]string, footerStart int) domain.TrackerStatistics {
	var stats domain.TrackerStatistics
	if footerStart < 0 || footerStart >= len(rows) {
		return stats
	}

	found := make([]bool, len(statPatterns))
	for _, r := range rows[footerStart:] {
		for _, cell := range r {
			text := strings.ReplaceAll(cell, "\n", " ")
			if strings.TrimSpace(text) == "" {
				continue
			}
			for i, p := range statPatterns {
				if found[i] {
					continue
				}
				if m := p.pattern.FindStringSubmatch(text); m != nil {
					n, _ := strconv.Atoi(m[1])
					p.set(&stats, n)
					found[i] = true
				}
			}
		}
	}
	return stats
}

// CountHighlighted counts highlighted tracks by marker.
func CountHighlighted(eras []domain.Era) domain.HighlightedStatistics {
	var h domain.HighlightedStatistics
	for _, e := range eras {
		for _, t := range e.Tracks {
			switch t.SpecialType {
			case domain.SpecialBest:
				h.Best++
			case domain.SpecialWanted:
				h.Special++
			case domain.SpecialGrail:
				h.Grails++
			}
		}
	}
	return h
}

// CountActual computes the counts present in the parsed tree.
func CountActual(eras []domain.Era) domain.ActualCounts {
	c := domain.ActualCounts{Eras: len(eras)}
	for _, e := range eras {
		c.Tracks += len(e.Tracks)
		for _, t := range e.Tracks {
			c.Links += len(t.Links)
			if t.IsSpecial {
				c.Highlighted++
			}
		}
	}
	return c
}
