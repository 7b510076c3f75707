package ogp

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// Parse reads Open Graph tags from an HTML document fetched from pageURL.
func Parse(pageURL string, r io.Reader) (models.OGPData, error) {
	data := models.OGPData{URL: pageURL}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return data, err
	}

	og := map[string]string{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key := s.AttrOr("property", "")
		if key == "" {
			key = s.AttrOr("name", "")
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return
		}
		if _, seen := og[key]; seen {
			return
		}
		if content := strings.TrimSpace(s.AttrOr("content", "")); content != "" {
			og[key] = content
		}
	})

	data.Title = first(og, "og:title", "twitter:title")
	if data.Title == "" {
		data.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	data.Description = first(og, "og:description", "twitter:description", "description")
	data.Image = resolve(pageURL, first(og, "og:image", "twitter:image", "twitter:image:src"))
	data.SiteName = og["og:site_name"]
	data.Favicon = favicon(doc, pageURL)

	return data, nil
}

// first returns the value of the first key present in tags.
func first(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := tags[k]; v != "" {
			return v
		}
	}
	return ""
}

func favicon(doc *goquery.Document, pageURL string) string {
	var href string
	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, rel := range strings.Fields(strings.ToLower(s.AttrOr("rel", ""))) {
			if rel == "icon" {
				href = strings.TrimSpace(s.AttrOr("href", ""))
				return href == ""
			}
		}
		return true
	})
	if href == "" {
		return ""
	}
	return resolve(pageURL, href)
}

// resolve makes ref absolute against the origin of base.
func resolve(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	origin := &url.URL{Scheme: b.Scheme, Host: b.Host, Path: "/"}
	return origin.ResolveReference(r).String()
}
