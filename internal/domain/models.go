package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cesargomez89/leaktracker/internal/constants"
)

// SheetType selects a view over a parsed tracker.
type SheetType string

const (
	SheetUnreleased SheetType = "unreleased"
	SheetBest       SheetType = "best"
	SheetRecent     SheetType = "recent"
)

// ParseSheetType returns the sheet type named by s; empty means unreleased.
func ParseSheetType(s string) (SheetType, error) {
	switch SheetType(strings.ToLower(strings.TrimSpace(s))) {
	case "", SheetUnreleased:
		return SheetUnreleased, nil
	case SheetBest:
		return SheetBest, nil
	case SheetRecent:
		return SheetRecent, nil
	}
	return "", fmt.Errorf("unknown sheet type %q (want unreleased, best or recent)", s)
}

// SpecialType marks a highlighted track.
type SpecialType string

const (
	SpecialBest    SpecialType = "⭐"
	SpecialWanted  SpecialType = "✨"
	SpecialGrail   SpecialType = "🏆"
	SpecialUnknown SpecialType = ""
)

// Rank orders highlighted tracks for the best view: grails first.
func (s SpecialType) Rank() int {
	switch s {
	case SpecialGrail:
		return 0
	case SpecialBest:
		return 1
	case SpecialWanted:
		return 2
	}
	return 3
}

// Artist is the root of a parsed tracker.
type Artist struct {
	Name        string            `json:"name"`
	Albums      []Era             `json:"albums"`
	Statistics  TrackerStatistics `json:"statistics"`
	Counts      ActualCounts      `json:"counts"`
	LastUpdated time.Time         `json:"lastUpdated"`
}

// IsFresh reports whether the snapshot is younger than ttl at now.
func (a *Artist) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(a.LastUpdated) < ttl
}

// TrackCount returns the number of tracks across all eras.
func (a *Artist) TrackCount() int {
	n := 0
	for _, e := range a.Albums {
		n += len(e.Tracks)
	}
	return n
}

// Era is a grouping of tracks, usually an album cycle.
type Era struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	AlternateNames []string    `json:"alternateNames"`
	Picture        string      `json:"picture,omitempty"`
	Description    string      `json:"description,omitempty"`
	Tracks         []Track     `json:"tracks"`
	Metadata       EraMetadata `json:"metadata"`
	Notes          string      `json:"notes,omitempty"`
}

// EraMetadata holds per-category file counts for an era.
type EraMetadata struct {
	OGFiles          int `json:"ogFiles"`
	FullFiles        int `json:"fullFiles"`
	TaggedFiles      int `json:"taggedFiles"`
	PartialFiles     int `json:"partialFiles"`
	SnippetFiles     int `json:"snippetFiles"`
	StemBounceFiles  int `json:"stemBounceFiles"`
	UnavailableFiles int `json:"unavailableFiles"`
}

// IsZero reports whether every count is zero.
func (m EraMetadata) IsZero() bool {
	return m == EraMetadata{}
}

// Total returns the sum of all categories.
func (m EraMetadata) Total() int {
	return m.OGFiles + m.FullFiles + m.TaggedFiles + m.PartialFiles +
		m.SnippetFiles + m.StemBounceFiles + m.UnavailableFiles
}

// Track is one data row of the tracker.
type Track struct {
	ID              string      `json:"id"`
	Era             string      `json:"era"`
	Title           TrackTitle  `json:"title"`
	RawName         string      `json:"rawName"`
	Notes           string      `json:"notes"`
	TrackLength     string      `json:"trackLength"`
	FileDate        string      `json:"fileDate"`
	LeakDate        string      `json:"leakDate"`
	AvailableLength string      `json:"availableLength"`
	Type            string      `json:"type,omitempty"`
	Quality         string      `json:"quality"`
	Links           []Link      `json:"links"`
	IsSpecial       bool        `json:"isSpecial"`
	SpecialType     SpecialType `json:"specialType,omitempty"`
}

var pillowcaseIDPattern = regexp.MustCompile(`(?i)pillow(?:s|case|cases)\.(?:su|top)/f/([0-9a-f]{32})`)

// PlayableURL returns the first link a player can consume, or "".
// Pillowcase file pages are rewritten to their direct download endpoint.
func (t *Track) PlayableURL() string {
	for _, l := range t.Links {
		if !l.IsValid {
			continue
		}
		switch l.Type {
		case LinkDownload, LinkStream, LinkAudio:
		default:
			continue
		}
		if m := pillowcaseIDPattern.FindStringSubmatch(l.URL); m != nil {
			return constants.PillowcaseHost + strings.ToLower(m[1])
		}
		return l.URL
	}
	return ""
}

// TrackTitle is a raw track name split into its parts.
type TrackTitle struct {
	Main           string   `json:"main"`
	IsUnknown      bool     `json:"isUnknown"`
	Features       []string `json:"features"`
	Collaborators  []string `json:"collaborators"`
	Producers      []string `json:"producers"`
	References     []string `json:"references"`
	AlternateNames []string `json:"alternateNames"`
}

// LinkType is the capability of a link.
type LinkType string

const (
	LinkDownload LinkType = "download"
	LinkStream   LinkType = "stream"
	LinkSocial   LinkType = "social"
	LinkAudio    LinkType = "audio"
	LinkWeb      LinkType = "web"
	LinkUnknown  LinkType = "unknown"
)

// Link is a categorized URL attached to a track.
type Link struct {
	URL      string   `json:"url"`
	Type     LinkType `json:"type"`
	Platform string   `json:"platform,omitempty"`
	IsValid  bool     `json:"isValid"`
}

// TrackerStatistics holds aggregate counts mined from a tracker footer.
type TrackerStatistics struct {
	Links        LinkStatistics         `json:"links"`
	Quality      QualityStatistics      `json:"quality"`
	Availability AvailabilityStatistics `json:"availability"`
	Highlighted  HighlightedStatistics  `json:"highlighted"`
}

type LinkStatistics struct {
	Total   int `json:"total"`
	Missing int `json:"missing"`
	Sources int `json:"sources"`
}

type QualityStatistics struct {
	Lossless     int `json:"lossless"`
	CDQuality    int `json:"cdQuality"`
	HighQuality  int `json:"highQuality"`
	LowQuality   int `json:"lowQuality"`
	Recordings   int `json:"recordings"`
	NotAvailable int `json:"notAvailable"`
}

type AvailabilityStatistics struct {
	OGFiles     int `json:"ogFiles"`
	Full        int `json:"full"`
	Tagged      int `json:"tagged"`
	Partial     int `json:"partial"`
	Snippets    int `json:"snippets"`
	StemBounces int `json:"stemBounces"`
	Unavailable int `json:"unavailable"`
}

type HighlightedStatistics struct {
	Best    int `json:"best"`
	Special int `json:"special"`
	Grails  int `json:"grails"`
}

// ActualCounts are computed from the parsed tree and may disagree with the mined statistics.
type ActualCounts struct {
	Eras        int `json:"eras"`
	Tracks      int `json:"tracks"`
	Links       int `json:"links"`
	Highlighted int `json:"highlighted"`
}

// TrackerRecord is a tracker document seen by the service.
type TrackerRecord struct {
	DocID       string      `json:"doc_id" db:"doc_id"`
	URL         string      `json:"url" db:"url"`
	ArtistName  string      `json:"artist_name" db:"artist_name"`
	Eras        StringSlice `json:"eras" db:"eras"`
	TrackCount  int         `json:"track_count" db:"track_count"`
	LastFetched time.Time   `json:"last_fetched" db:"last_fetched"`
}

// FetchRecord is one entry of the fetch history.
type FetchRecord struct {
	ID         string    `json:"id" db:"id"`
	DocID      string    `json:"doc_id" db:"doc_id"`
	SheetType  string    `json:"sheet_type" db:"sheet_type"`
	Status     string    `json:"status" db:"status"`
	Error      *string   `json:"error,omitempty" db:"error"`
	TrackCount int       `json:"track_count" db:"track_count"`
	DurationMs int64     `json:"duration_ms" db:"duration_ms"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
