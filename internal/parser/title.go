package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cesargomez89/leaktracker/internal/domain"
)

type creditKind int

const (
	creditReference creditKind = iota
	creditProducer
	creditFeature
	creditCollaborator
)

// creditRule pairs a pattern over a parenthetical's content with the list it feeds.
// Rules are tested in order; the first match claims the group.
type creditRule struct {
	kind    creditKind
	pattern *regexp.Regexp
}

var parenCreditRules = []creditRule{
	{creditReference, regexp.MustCompile(`(?i)^(?:ref\.|ref\b|reference)\s*:?\s*(.+)$`)},
	{creditProducer, regexp.MustCompile(`(?i)^(?:prod\.|prod\b|produced|production)(?:\s+by)?\s*:?\s*(.+)$`)},
	{creditFeature, regexp.MustCompile(`(?i)^(?:ft\.|ft\b|feat\.|feat\b|featuring)\s*:?\s*(.+)$`)},
	{creditCollaborator, regexp.MustCompile(`(?i)^(?:with\b|w/)\s*(.+)$`)},
}

var (
	parenGroup = regexp.MustCompile(`\(([^()]*)\)`)

	technicalToken = regexp.MustCompile(`(?i)^(?:\d{2,4}\s*kbps|\d{2,4}k|\d{2}(?:\.\d)?\s*khz|\d{2}\s*-?\s*bit|mp3|m4a|flac|wav|aac|ogg|opus|alac|lossless|cdq|hq|lq|\d{1,2}:\d{2}(?::\d{2})?)$`)

	versionToken = regexp.MustCompile(`(?i)^(?:v\d+|(?:og|original|alt|alternate|rough|early|final|new|old|clean|dirty|radio|extended|short)?\s*(?:demo|snippet|mix|remix|edit|version|session|take|bounce|stem|master|mastered|instrumental|acapella|a capella|freestyle|live|leak|reprise|intro|outro|cut|ref|reference|og|original|alt|alternate)s?)(?:\s*#?\s*\d+)?$`)

	// "with" only counts in lowercase; "With" in Title Case is part of a title.
	trailingCredit = regexp.MustCompile(`(?:^|\s)((?i:ft\.|ft|feat\.|feat|featuring|w/|prod\.\s*by|prod\s+by|produced\s+by|prod\.|prod)|with)\s+`)

	artistPrefix = regexp.MustCompile(`^([^-]+?)\s+-\s+([^-].*)$`)
	multiSpace   = regexp.MustCompile(`\s{2,}`)
)

// DecomposeTitle splits a raw track name into its display title and credit lists.
func DecomposeTitle(raw string) domain.TrackTitle {
	t := domain.TrackTitle{
		Features:       []string{},
		Collaborators:  []string{},
		Producers:      []string{},
		References:     []string{},
		AlternateNames: []string{},
	}

	working := strings.TrimSpace(raw)
	matched := false

	for i := 0; i < 10; i++ {
		groups := parenGroup.FindAllStringSubmatchIndex(working, -1)
		if len(groups) == 0 {
			break
		}
		var b strings.Builder
		last := 0
		for _, g := range groups {
			b.WriteString(working[last:g[0]])
			last = g[1]
			classifyGroup(&t, strings.TrimSpace(working[g[2]:g[3]]))
		}
		b.WriteString(working[last:])
		working = b.String()
		matched = true
	}

	working = cleanTitle(working)

	// Trailing credits come off before the artist prefix so that a second pass over
	// Main finds nothing left to strip.
	if main, ok := extractTrailingCredits(&t, working); ok {
		working = main
		matched = true
	}

	if m := artistPrefix.FindStringSubmatch(working); m != nil && strings.Count(working, " - ") == 1 {
		working = strings.TrimSpace(m[2])
		matched = true
	}

	if matched {
		t.Main = cleanTitle(working)
	} else {
		t.Main = raw
	}

	lower := strings.ToLower(t.Main)
	t.IsUnknown = strings.TrimSpace(t.Main) == "" ||
		strings.Contains(t.Main, "???") ||
		strings.Contains(lower, "unknown")

	return t
}

func classifyGroup(t *domain.TrackTitle, content string) {
	if content == "" {
		return
	}
	for _, rule := range parenCreditRules {
		if m := rule.pattern.FindStringSubmatch(content); m != nil {
			appendCredits(t, rule.kind, m[1])
			return
		}
	}
	if technicalToken.MatchString(content) || versionToken.MatchString(content) {
		return
	}
	for _, name := range strings.Split(content, ",") {
		t.AlternateNames = appendUnique(t.AlternateNames, strings.TrimSpace(name))
	}
}

// extractTrailingCredits pulls "ft. X", "with Y", "prod. Z" phrases that are not
// inside parentheses off the end of the title.
func extractTrailingCredits(t *domain.TrackTitle, title string) (string, bool) {
	locs := creditLocs(title)
	if len(locs) == 0 {
		return title, false
	}
	main := strings.TrimSpace(title[:locs[0][0]])
	if main == "" {
		return title, false
	}
	for i, loc := range locs {
		end := len(title)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		keyword := strings.TrimSpace(title[loc[2]:loc[3]])
		appendCredits(t, trailingKind(keyword), title[loc[1]:end])
	}
	return main, true
}

// creditLocs finds trailing credit keywords. A bare lowercase "with" only counts
// when what follows it reads as a list of names, so "Dancing with the Stars" stays whole.
func creditLocs(title string) [][]int {
	all := trailingCredit.FindAllStringSubmatchIndex(title, -1)
	locs := make([][]int, 0, len(all))
	for i, loc := range all {
		if title[loc[2]:loc[3]] == "with" {
			end := len(title)
			if i+1 < len(all) {
				end = all[i+1][0]
			}
			if !looksLikeNames(title[loc[1]:end]) {
				continue
			}
		}
		locs = append(locs, loc)
	}
	return locs
}

func looksLikeNames(payload string) bool {
	names := splitCredits(payload)
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		for _, word := range strings.Fields(name) {
			if r, _ := utf8.DecodeRuneInString(word); unicode.IsLower(r) {
				return false
			}
		}
	}
	return true
}

func trailingKind(keyword string) creditKind {
	keyword = strings.ToLower(keyword)
	switch {
	case strings.HasPrefix(keyword, "prod"):
		return creditProducer
	case strings.HasPrefix(keyword, "with"), keyword == "w/":
		return creditCollaborator
	default:
		return creditFeature
	}
}

func appendCredits(t *domain.TrackTitle, kind creditKind, payload string) {
	for _, name := range splitCredits(payload) {
		switch kind {
		case creditReference:
			t.References = appendUnique(t.References, name)
		case creditProducer:
			t.Producers = appendUnique(t.Producers, name)
		case creditFeature:
			t.Features = appendUnique(t.Features, name)
		case creditCollaborator:
			t.Collaborators = appendUnique(t.Collaborators, name)
		}
	}
}

func splitCredits(payload string) []string {
	fields := strings.FieldsFunc(payload, func(r rune) bool { return r == '&' || r == ',' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

func cleanTitle(s string) string {
	s = multiSpace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimRight(s, "-–,"))
}
