package sheets

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/cesargomez89/leaktracker/internal/apperr"
)

// ParseError reports an upstream payload that could not be turned into a table.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return e.Msg
}

// Unwrap exposes the failure as an invalid-format apperr carrying the same message.
func (e *ParseError) Unwrap() error {
	return apperr.InvalidFormat(e.Msg)
}

var (
	setResponsePattern = regexp.MustCompile(`(?s)setResponse\((.*)\)\s*;?\s*$`)
	commentPrefix      = regexp.MustCompile(`(?s)^\s*(?:/\*.*?\*/|\)\]\}'|//[^\n]*)\s*`)
)

// Unwrap strips the JSONP envelope variants of the query endpoint and decodes the table.
// Attempts, first success wins: setResponse(...) argument, the same after removing a
// leading comment prefix, then the prefix-stripped text as plain JSON.
func Unwrap(raw string) (*Table, error) {
	stripped := stripCommentPrefix(raw)

	attempts := []func() (*gvizResponse, bool){
		func() (*gvizResponse, bool) { return fromSetResponse(raw) },
		func() (*gvizResponse, bool) { return fromSetResponse(stripped) },
		func() (*gvizResponse, bool) { return decode(stripped) },
	}

	for _, attempt := range attempts {
		resp, ok := attempt()
		if !ok {
			continue
		}
		if resp.Status != "" && resp.Status != "ok" {
			return nil, &ParseError{Msg: "api status: " + resp.Status}
		}
		return resp.ToTable(), nil
	}
	return nil, &ParseError{Msg: "invalid response format"}
}

func stripCommentPrefix(s string) string {
	for {
		loc := commentPrefix.FindStringIndex(s)
		if loc == nil || loc[1] == 0 {
			return strings.TrimSpace(s)
		}
		s = s[loc[1]:]
	}
}

func fromSetResponse(s string) (*gvizResponse, bool) {
	m := setResponsePattern.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	return decode(m[1])
}

func decode(s string) (*gvizResponse, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var resp gvizResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, false
	}
	return &resp, true
}
