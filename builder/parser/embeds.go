package parser

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Embed types whose targets need no link preview.
var skipOGPTypes = map[string]bool{
	EmbedMermaid:     true,
	EmbedYouTube:     true,
	EmbedCodePen:     true,
	EmbedCodeSandbox: true,
	EmbedStackBlitz:  true,
	EmbedJSFiddle:    true,
}

var skipOGPHosts = []string{
	"youtube.com",
	"youtu.be",
	"codesandbox.io",
	"stackblitz.com",
	"codepen.io",
	"jsfiddle.net",
}

// ExtractEmbedURLs returns the sorted, de-duplicated external URLs referenced
// by embed frames in rendered post HTML that need OGP data.
func ExtractEmbedURLs(rendered string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	doc.Find("iframe[data-content]").Each(func(_ int, s *goquery.Selection) {
		if skipOGPTypes[s.AttrOr("data-embed-type", "")] {
			return
		}
		encoded, _ := s.Attr("data-content")
		raw, err := url.PathUnescape(encoded)
		if err != nil {
			return
		}
		if u, ok := needsOGP(raw); ok {
			seen[u] = struct{}{}
		}
	})

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

func needsOGP(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	for _, skip := range skipOGPHosts {
		if host == skip || strings.HasSuffix(host, "."+skip) {
			return "", false
		}
	}
	return u.String(), true
}
