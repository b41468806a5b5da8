package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
	"github.com/cesargomez89/leaktracker/internal/sheets"
)

// EraName is the result of parsing an era-name cell.
type EraName struct {
	Name           string
	AlternateNames []string
	Description    string
}

var (
	pureParenthetical  = regexp.MustCompile(`^\([^()]*\)$`)
	balancedParens     = regexp.MustCompile(`\([^()]+\)`)
	datedParenthetical = regexp.MustCompile(`\([^()]*(?:\d{4}|\d{1,2}/\d{1,2}/\d{2,4})[^()]*\)`)
	timelineKeyword    = regexp.MustCompile(`(?i)\b(?:recorded|released|leaked|announced|scrapped|cancelled|canceled|began|started|ended|timeline|sessions?)\b`)

	bareDate   = regexp.MustCompile(`(?i)^(?:\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}|\d{4}-\d{1,2}-\d{1,2}|\d{4}|q[1-4]\s+\d{4}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}|\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+\d{4})$`)
	timeOfDay  = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?$`)
	metaShape  = regexp.MustCompile(`\d+[^\n]*\n\s*\d+`)
	metaLabels = regexp.MustCompile(`(?i)og\s*files?|unavailable`)
)

type metadataCounter struct {
	pattern *regexp.Regexp
	set     func(m *domain.EraMetadata, n int)
}

var metadataCounters = []metadataCounter{
	{regexp.MustCompile(`(?i)(\d+)\s*OG\s*Files?`), func(m *domain.EraMetadata, n int) { m.OGFiles = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*Full\b`), func(m *domain.EraMetadata, n int) { m.FullFiles = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*Tagged\b`), func(m *domain.EraMetadata, n int) { m.TaggedFiles = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*Partials?\b`), func(m *domain.EraMetadata, n int) { m.PartialFiles = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*Snippets?\b`), func(m *domain.EraMetadata, n int) { m.SnippetFiles = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*Stem\s*Bounces?\b`), func(m *domain.EraMetadata, n int) { m.StemBounceFiles = n }},
	{regexp.MustCompile(`(?i)(\d+)\s*Unavailable\b`), func(m *domain.EraMetadata, n int) { m.UnavailableFiles = n }},
}

// ParseEraName splits an era cell into its name, alternate names and description.
func ParseEraName(raw string) EraName {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return EraName{AlternateNames: []string{}}
	}

	first := lines[0]
	alts := []string{}
	for _, m := range parenGroup.FindAllStringSubmatch(first, -1) {
		for _, name := range strings.Split(m[1], ",") {
			alts = appendUnique(alts, strings.TrimSpace(name))
		}
	}
	name := cleanTitle(parenGroup.ReplaceAllString(first, ""))
	if name == "" {
		name = strings.TrimSpace(strings.Trim(first, "()"))
	}

	var desc []string
	for _, l := range lines[1:] {
		if pureParenthetical.MatchString(l) {
			continue
		}
		desc = append(desc, l)
	}

	return EraName{Name: name, AlternateNames: alts, Description: strings.Join(desc, " ")}
}

// CountMetadata reads per-category file counts from a metadata cell.
func CountMetadata(s string) domain.EraMetadata {
	text := strings.ReplaceAll(strings.ReplaceAll(s, "\r", " "), "\n", " ")
	var md domain.EraMetadata
	for _, c := range metadataCounters {
		if m := c.pattern.FindStringSubmatch(text); m != nil {
			n, _ := strconv.Atoi(m[1])
			c.set(&md, n)
		}
	}
	return md
}

// eraDetails is what can be mined from the cells that accompany an era row.
type eraDetails struct {
	picture     string
	description string
	notes       []string
}

// scanEraCells looks for an image URL, dated parentheticals (notes) and the first
// substantial non-URL text (description).
func scanEraCells(cells []string) eraDetails {
	var d eraDetails
	for _, raw := range cells {
		c := strings.TrimSpace(raw)
		if c == "" {
			continue
		}
		if isURL(c) {
			if d.picture == "" && sheets.IsImageURL(c) {
				d.picture = c
			}
			continue
		}
		if datedParenthetical.MatchString(c) {
			d.notes = append(d.notes, c)
			continue
		}
		if d.description == "" && len(c) > constants.MinNoteTextLen {
			d.description = c
		}
	}
	return d
}

// labelInfo is era detail mined from a multi-line column label.
type labelInfo struct {
	name        string
	description string
	timeline    string
}

// mineLabel reads an era name, description and timeline out of a column label.
func mineLabel(label string) (labelInfo, bool) {
	lines := splitLines(label)
	if len(lines) < 2 {
		return labelInfo{}, false
	}
	info := labelInfo{name: ParseEraName(lines[0]).Name}
	if info.name == "" {
		return labelInfo{}, false
	}
	var timeline []string
	for _, l := range lines[1:] {
		switch {
		case datedParenthetical.MatchString(l):
			timeline = append(timeline, l)
		case info.description == "" && len(l) >= constants.MinDescriptionLen && !pureParenthetical.MatchString(l):
			info.description = l
		}
	}
	info.timeline = strings.Join(timeline, "\n")
	if info.description == "" && info.timeline == "" {
		return labelInfo{}, false
	}
	return info, true
}

func splitLines(s string) []string {
	parts := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstLine(s string) string {
	if lines := splitLines(s); len(lines) > 0 {
		return lines[0]
	}
	return ""
}

func isURL(s string) bool {
	l := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") || strings.HasPrefix(l, "www.")
}

func isBareDate(s string) bool {
	return bareDate.MatchString(strings.TrimSpace(s))
}

func isTime(s string) bool {
	return timeOfDay.MatchString(strings.TrimSpace(s))
}

// isMetadataShaped reports whether a cell reads like an era file-count summary.
func isMetadataShaped(s string) bool {
	return metaLabels.MatchString(s) || metaShape.MatchString(s)
}

// looksLikeEraName reports whether a first-column value on a track row names an era.
func looksLikeEraName(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) > 3 && !isBareDate(s) && !isTime(s) && !isURL(s)
}

// isTimelineText reports whether text reads like a timeline entry.
func isTimelineText(s string) bool {
	return timelineKeyword.MatchString(s) || datedParenthetical.MatchString(s)
}

func hasBalancedParenthetical(s string) bool {
	return balancedParens.MatchString(s) && strings.Count(s, "(") == strings.Count(s, ")")
}
