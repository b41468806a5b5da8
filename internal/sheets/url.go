package sheets

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/cesargomez89/leaktracker/internal/apperr"
)

var (
	docIDPathPattern  = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)
	docIDQueryPattern = regexp.MustCompile(`[?&]id=([a-zA-Z0-9-_]+)`)
	gidPattern        = regexp.MustCompile(`[#?&]gid=(\d+)`)
)

// ExtractDocID returns the document id of a Google Sheets share URL.
func ExtractDocID(sheetURL string) (string, error) {
	s := strings.TrimSpace(sheetURL)
	if s == "" {
		return "", apperr.InvalidInput("Tracker URL is required")
	}
	if m := docIDPathPattern.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if m := docIDQueryPattern.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	return "", apperr.InvalidInput("Invalid Google Sheets URL. Expected a link containing /d/<id> or id=<id>")
}

// ParseGID returns the tab id embedded in a share URL, or "".
func ParseGID(sheetURL string) string {
	if m := gidPattern.FindStringSubmatch(sheetURL); m != nil {
		return m[1]
	}
	return ""
}

// URLBuilder builds query endpoints against a sheets host.
type URLBuilder struct {
	BaseURL string
}

func NewURLBuilder(baseURL string) URLBuilder {
	return URLBuilder{BaseURL: strings.TrimRight(baseURL, "/")}
}

// QueryURL is the table-query endpoint for a document, optionally limited to one tab.
func (b URLBuilder) QueryURL(docID, gid string) string {
	u := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:json", b.BaseURL, url.PathEscape(docID))
	if gid != "" {
		u += "&gid=" + url.QueryEscape(gid)
	}
	return u
}

// SheetURL is the gviz JSON endpoint for a named tab.
func (b URLBuilder) SheetURL(docID, sheetName string) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:json&sheet=%s",
		b.BaseURL, url.PathEscape(docID), url.QueryEscape(sheetName))
}

// ShareURL is the canonical edit URL of a document.
func (b URLBuilder) ShareURL(docID string) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/edit", b.BaseURL, url.PathEscape(docID))
}
