package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/cesargomez89/leaktracker/internal/apperr"
	"github.com/cesargomez89/leaktracker/internal/httpclient"
	"github.com/cesargomez89/leaktracker/internal/logger"
)

// Source returns the raw table of a tracker document.
type Source interface {
	FetchTable(ctx context.Context, docID, gid string) (*Table, error)
	FetchSheet(ctx context.Context, docID, sheetName string) (*Table, error)
}

// Fetcher reads sheets through the public gviz query endpoint.
type Fetcher struct {
	Client *httpclient.Client
	URLs   URLBuilder
	Logger *logger.Logger
}

func NewFetcher(client *httpclient.Client, baseURL string, log *logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Default()
	}
	return &Fetcher{
		Client: client,
		URLs:   NewURLBuilder(baseURL),
		Logger: log.WithComponent("sheets"),
	}
}

// FetchTable fetches the main table of a document (or the tab gid).
func (f *Fetcher) FetchTable(ctx context.Context, docID, gid string) (*Table, error) {
	return f.fetch(ctx, f.URLs.QueryURL(docID, gid))
}

// FetchSheet fetches a tab by name.
func (f *Fetcher) FetchSheet(ctx context.Context, docID, sheetName string) (*Table, error) {
	return f.fetch(ctx, f.URLs.SheetURL(docID, sheetName))
}

func (f *Fetcher) fetch(ctx context.Context, u string) (*Table, error) {
	f.Logger.Debug("Fetching sheet", "url", u)

	resp, err := f.Client.Get(ctx, u)
	if err != nil {
		return nil, apperr.Upstream("Failed to fetch tracker").WithCause(err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Upstream("Failed to read tracker response").WithCause(err)
	}

	return Unwrap(string(body))
}

func statusError(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusForbidden || code == http.StatusUnauthorized:
		return apperr.AccessDenied("Access denied. Make sure the sheet is shared publicly (anyone with the link can view).")
	case code == http.StatusNotFound:
		return apperr.NotFound("Tracker not found. Check that the sheet URL is correct.")
	default:
		return apperr.Upstream(fmt.Sprintf("Failed to fetch tracker: HTTP %d", code))
	}
}

var _ Source = (*Fetcher)(nil)
