package parser

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cesargomez89/leaktracker/internal/domain"
)

type platform struct {
	name     string
	linkType domain.LinkType
	domains  []string
	// hostOnly platforms match on the parsed host, not on a raw substring.
	hostOnly bool
}

// platforms are checked in order; the first domain hit wins.
var platforms = []platform{
	{name: "Pillowcase", linkType: domain.LinkDownload, domains: []string{"pillows.su", "pillowcase.su", "pillowcases.su", "pillowcases.top"}},
	{name: "SoundCloud", linkType: domain.LinkStream, domains: []string{"soundcloud.com", "snd.sc"}},
	{name: "YouTube", linkType: domain.LinkStream, domains: []string{"youtube.com", "youtu.be"}},
	{name: "Spotify", linkType: domain.LinkStream, domains: []string{"spotify.com", "spotify.link"}},
	{name: "Apple Music", linkType: domain.LinkStream, domains: []string{"music.apple.com"}},
	{name: "Google Drive", linkType: domain.LinkDownload, domains: []string{"drive.google.com", "docs.google.com/uc"}},
	{name: "Dropbox", linkType: domain.LinkDownload, domains: []string{"dropbox.com"}},
	{name: "MEGA", linkType: domain.LinkDownload, domains: []string{"mega.nz", "mega.co.nz"}},
	{name: "Froste", linkType: domain.LinkDownload, domains: []string{"froste.lol"}},
	{name: "Twitter", linkType: domain.LinkSocial, domains: []string{"twitter.com"}},
	{name: "Twitter", linkType: domain.LinkSocial, domains: []string{"x.com"}, hostOnly: true},
	{name: "Instagram", linkType: domain.LinkSocial, domains: []string{"instagram.com"}},
	{name: "TikTok", linkType: domain.LinkSocial, domains: []string{"tiktok.com"}},
	{name: "Reddit", linkType: domain.LinkSocial, domains: []string{"reddit.com", "redd.it"}},
}

var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".flac": true, ".wav": true, ".ogg": true, ".opus": true, ".aac": true,
}

var linkPattern = regexp.MustCompile(`https?://[^\s,]+`)

// CategorizeLink identifies the platform and capability of a URL.
func CategorizeLink(raw string) domain.Link {
	u := strings.TrimSpace(raw)
	lower := strings.ToLower(u)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return domain.Link{URL: u, Type: domain.LinkUnknown, Platform: "Unknown", IsValid: false}
	}

	var host, p string
	if parsed, err := url.Parse(u); err == nil {
		host = strings.ToLower(parsed.Hostname())
		p = parsed.Path
	}

	for _, pl := range platforms {
		for _, d := range pl.domains {
			if pl.hostOnly {
				if host == d || strings.HasSuffix(host, "."+d) {
					return domain.Link{URL: u, Type: pl.linkType, Platform: pl.name, IsValid: true}
				}
				continue
			}
			if strings.Contains(lower, d) {
				return domain.Link{URL: u, Type: pl.linkType, Platform: pl.name, IsValid: true}
			}
		}
	}

	if audioExtensions[strings.ToLower(path.Ext(p))] {
		return domain.Link{URL: u, Type: domain.LinkAudio, Platform: "Direct", IsValid: true}
	}
	return domain.Link{URL: u, Type: domain.LinkWeb, Platform: "Web", IsValid: true}
}

// ExtractLinks finds every http(s) URL in text, categorized, in order of appearance.
func ExtractLinks(text string) []domain.Link {
	matches := linkPattern.FindAllString(text, -1)
	links := make([]domain.Link, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, ").;")
		if seen[m] {
			continue
		}
		seen[m] = true
		links = append(links, CategorizeLink(m))
	}
	return links
}
