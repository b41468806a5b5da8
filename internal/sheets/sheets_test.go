package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/leaktracker/internal/apperr"
	"github.com/cesargomez89/leaktracker/internal/httpclient"
	"github.com/cesargomez89/leaktracker/internal/logger"
)

const samplePayload = `{"version":"0.6","status":"ok","table":{"cols":[{"id":"A","label":"Era","type":"string"},{"id":"B","label":"Name","type":"string"}],"rows":[{"c":[{"v":"Donda"},{"v":"Hurricane"}]},{"c":[null,{"v":3.0,"f":"3"}]}]}}`

func TestExtractDocID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"edit url", "https://docs.google.com/spreadsheets/d/1abcDEF_ghi-JKL/edit#gid=0", "1abcDEF_ghi-JKL", false},
		{"htmlview", "https://docs.google.com/spreadsheets/d/XYZ123/htmlview", "XYZ123", false},
		{"id query", "https://docs.google.com/open?id=QWERTY9", "QWERTY9", false},
		{"empty", "  ", "", true},
		{"unrelated", "https://example.com/sheet", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDocID(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGID(t *testing.T) {
	assert.Equal(t, "12345", ParseGID("https://docs.google.com/spreadsheets/d/X/edit#gid=12345"))
	assert.Equal(t, "7", ParseGID("https://docs.google.com/spreadsheets/d/X/edit?gid=7"))
	assert.Equal(t, "", ParseGID("https://docs.google.com/spreadsheets/d/X/edit"))
}

func TestURLBuilder(t *testing.T) {
	b := NewURLBuilder("https://docs.google.com/")
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/ID/gviz/tq?tqx=out:json", b.QueryURL("ID", ""))
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/ID/gviz/tq?tqx=out:json&gid=42", b.QueryURL("ID", "42"))
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/ID/gviz/tq?tqx=out:json&sheet=Album+Art", b.SheetURL("ID", "Album Art"))
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"setResponse with comment prefix", "/*O_o*/\ngoogle.visualization.Query.setResponse(" + samplePayload + ");"},
		{"DataTable setResponse", "google.visualization.DataTable.setResponse(" + samplePayload + ")"},
		{"xssi prefix plain json", ")]}'\n" + samplePayload},
		{"plain json", samplePayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Unwrap(tt.raw)
			require.NoError(t, err)
			require.Len(t, table.Cols, 2)
			assert.Equal(t, "Era", table.Cols[0].Label)
			require.Len(t, table.Rows, 2)
			assert.Equal(t, "Hurricane", table.Cell(0, 1))
			assert.Equal(t, "", table.Cell(1, 0))
			assert.Equal(t, "3", table.Cell(1, 1))
		})
	}
}

func TestUnwrap_Errors(t *testing.T) {
	_, err := Unwrap("<html>Sign in</html>")
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "invalid response format", pe.Msg)
	assert.True(t, errors.Is(err, apperr.ErrInvalidFormat))

	_, err = Unwrap(`/*O_o*/google.visualization.Query.setResponse({"status":"error","errors":[]});`)
	require.Error(t, err)
	assert.Equal(t, "api status: error", err.Error())
}

func TestCellValues(t *testing.T) {
	table, err := Unwrap(`{"status":"ok","table":{"cols":[],"rows":[{"c":[{"v":true},{"v":12.5},{"v":"Date(2020,0,15)","f":"1/15/2020"}]}]}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"TRUE", "12.5", "1/15/2020"}, table.Rows[0])
}

func newTestFetcher(srv *httptest.Server) *Fetcher {
	return NewFetcher(httpclient.NewClient(srv.Client(), 0), srv.URL, logger.Discard())
}

func TestFetcher_FetchTable(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, "/*O_o*/\ngoogle.visualization.Query.setResponse("+samplePayload+");")
	}))
	defer srv.Close()

	table, err := newTestFetcher(srv).FetchTable(context.Background(), "DOC", "5")
	require.NoError(t, err)
	assert.Equal(t, "/spreadsheets/d/DOC/gviz/tq", gotPath)
	assert.Contains(t, gotQuery, "gid=5")
	assert.Len(t, table.Rows, 2)
}

func TestFetcher_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		target error
		text   string
	}{
		{http.StatusForbidden, apperr.ErrAccessDenied, "Access denied"},
		{http.StatusNotFound, apperr.ErrNotFound, "not found"},
		{http.StatusInternalServerError, apperr.ErrUpstream, "HTTP 500"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestFetcher(srv).FetchTable(context.Background(), "DOC", "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target))
			assert.Contains(t, err.Error(), tt.text)
		})
	}
}

func TestIsImageURL(t *testing.T) {
	assert.True(t, IsImageURL("https://example.com/cover.JPG"))
	assert.True(t, IsImageURL("https://i.imgur.com/abc"))
	assert.True(t, IsImageURL("https://lh3.googleusercontent.com/xyz=w400"))
	assert.False(t, IsImageURL("https://pillows.su/f/abc"))
	assert.False(t, IsImageURL("cover.png"))
}

func TestArtIndex_LookupPrefersLongestName(t *testing.T) {
	idx := ArtIndex{
		"Donda":   "https://example.com/donda.jpg",
		"Donda 2": "https://example.com/donda2.jpg",
		"DONDA 2": "https://example.com/shout.jpg",
	}

	for i := 0; i < 50; i++ {
		assert.Equal(t, "https://example.com/donda2.jpg", idx.Lookup("Donda 2 Sessions"))
		assert.Equal(t, "https://example.com/shout.jpg", idx.Lookup("donda 2"))
	}
	assert.Equal(t, "https://example.com/donda.jpg", idx.Lookup("Donda"))
	assert.Equal(t, "https://example.com/donda.jpg", idx.Lookup("Donda (Stem Player)"))
}

type stubSource struct {
	sheets map[string]*Table
	calls  []string
}

func (s *stubSource) FetchTable(ctx context.Context, docID, gid string) (*Table, error) {
	return nil, errors.New("not used")
}

func (s *stubSource) FetchSheet(ctx context.Context, docID, name string) (*Table, error) {
	s.calls = append(s.calls, name)
	if t, ok := s.sheets[name]; ok {
		return t, nil
	}
	return nil, apperr.NotFound("no such sheet")
}

func TestFindArt(t *testing.T) {
	src := &stubSource{sheets: map[string]*Table{
		"Art Sheet": {Rows: [][]string{
			{"Graduation", "https://i.imgur.com/grad.png"},
			{"Donda 2\n(2022)", "", "https://example.com/d2.jpg"},
		}},
		"Covers": {Rows: [][]string{{"Never", "https://i.imgur.com/x.png"}}},
	}}

	idx := FindArt(context.Background(), src, "DOC", logger.Discard())

	assert.Equal(t, []string{"Art", "Album Art", "Art Sheet"}, src.calls)
	assert.Equal(t, "https://i.imgur.com/grad.png", idx.Lookup("Graduation"))
	assert.Equal(t, "https://example.com/d2.jpg", idx.Lookup("donda 2"))
	assert.Equal(t, "https://i.imgur.com/grad.png", idx.Lookup("Graduation (Deluxe)"))
	assert.Equal(t, "", idx.Lookup("Yeezus"))
}

func TestFindArt_AllFail(t *testing.T) {
	src := &stubSource{sheets: map[string]*Table{
		"Art": {Rows: [][]string{{"no", "images", "here"}}},
	}}

	idx := FindArt(context.Background(), src, "DOC", logger.Discard())

	assert.Empty(t, idx)
	assert.Len(t, src.calls, len(ArtSheetCandidates))
	assert.True(t, strings.EqualFold(src.calls[0], "Art"))
}
