package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cesargomez89/leaktracker/internal/apperr"
	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
)

// TrackerQuery is the query string of GET /api/v1/tracker.
type TrackerQuery struct {
	URL     string `query:"url" validate:"required,url"`
	Sheet   string `query:"sheet" validate:"omitempty,oneof=unreleased best recent"`
	Refresh bool   `query:"refresh"`
	Artist  string `query:"artist" validate:"max=200"`
}

// ViewQuery selects the sheet of an already cached tracker.
type ViewQuery struct {
	DocID string `query:"docID" validate:"required,max=128"`
	Sheet string `query:"sheet" validate:"omitempty,oneof=unreleased best recent"`
}

// SearchQuery is the query string of the search endpoint.
type SearchQuery struct {
	DocID string `query:"docID" validate:"required,max=128"`
	Q     string `query:"q" validate:"required,max=200"`
	Limit int    `query:"limit" validate:"gte=0,lte=100"`
}

// HistoryQuery is the query string of the history endpoint.
type HistoryQuery struct {
	DocID string `query:"docID" validate:"required,max=128"`
	Limit int    `query:"limit" validate:"gte=0,lte=500"`
}

func ParseTrackerQuery(v url.Values) (*TrackerQuery, error) {
	q := &TrackerQuery{
		URL:    strings.TrimSpace(v.Get("url")),
		Sheet:  normalizeSheet(v.Get("sheet")),
		Artist: strings.TrimSpace(v.Get("artist")),
	}
	if raw := v.Get("refresh"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperr.InvalidInput("refresh: must be a boolean")
		}
		q.Refresh = b
	}
	return q, nil
}

func ParseViewQuery(docID string, v url.Values) *ViewQuery {
	return &ViewQuery{DocID: docID, Sheet: normalizeSheet(v.Get("sheet"))}
}

func ParseSearchQuery(docID string, v url.Values) (*SearchQuery, error) {
	q := &SearchQuery{DocID: docID, Q: strings.TrimSpace(v.Get("q"))}
	limit, err := parseLimit(v.Get("limit"))
	if err != nil {
		return nil, err
	}
	q.Limit = limit
	if q.Limit == 0 {
		q.Limit = constants.DefaultSearchLimit
	}
	return q, nil
}

func ParseHistoryQuery(docID string, v url.Values) (*HistoryQuery, error) {
	limit, err := parseLimit(v.Get("limit"))
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = constants.DefaultHistoryLimit
	}
	return &HistoryQuery{DocID: docID, Limit: limit}, nil
}

// SheetType converts a validated sheet name.
func SheetType(s string) domain.SheetType {
	if s == "" {
		return domain.SheetUnreleased
	}
	return domain.SheetType(s)
}

func normalizeSheet(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidInput("limit: must be a number")
	}
	return n, nil
}
