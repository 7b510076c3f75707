package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

const (
	DefaultReadTime = "5 min read"
	wordsPerMinute  = 200
)

// ExtractOptions controls how missing frontmatter fields are filled in.
type ExtractOptions struct {
	DeriveID         bool
	EstimateReadTime bool
	Now              time.Time
}

// ExtractPost maps a parsed document onto a Post, applying defaults.
// Values are only coerced here; type problems are reported by the validator.
func ExtractPost(path string, doc models.Document, opts ExtractOptions) models.Post {
	fm := doc.Frontmatter
	if fm == nil {
		fm = models.Frontmatter{}
	}

	post := models.Post{
		ID:        utils.GetString(fm, "id"),
		Title:     utils.GetString(fm, "title"),
		Excerpt:   utils.GetString(fm, "excerpt"),
		Date:      utils.GetString(fm, "date"),
		Tags:      utils.GetSlice(fm, "tags"),
		ReadTime:  utils.GetString(fm, "readTime"),
		Content:   doc.Body,
		Published: true,
		Path:      path,
	}

	if _, ok := fm["id"]; !ok && opts.DeriveID {
		post.ID = DeriveID(path)
	}
	if _, ok := fm["date"]; !ok {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		post.Date = utils.FormatDate(now)
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if _, ok := fm["readTime"]; !ok {
		post.ReadTime = DefaultReadTime
		if opts.EstimateReadTime {
			post.ReadTime = EstimateReadTime(doc.Body)
		}
	}
	if published, ok := utils.GetBool(fm, "published"); ok {
		post.Published = published
	}

	return post
}

// DeriveID returns the file name without its extension, NFC-normalised so
// names typed on different platforms produce the same id.
func DeriveID(path string) string {
	base := filepath.Base(path)
	return norm.NFC.String(strings.TrimSuffix(base, filepath.Ext(base)))
}

// EstimateReadTime formats the reading time of body at 200 words per minute.
func EstimateReadTime(body string) string {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
