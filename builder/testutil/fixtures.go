// Package testutil provides testing utilities and fixtures
package testutil

import (
	"strings"
	"time"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/models"
)

// FixedNow is the clock used by test configurations.
var FixedNow = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

// CreateSamplePost creates a valid published Post for testing
func CreateSamplePost() models.Post {
	return models.Post{
		ID:        "test-post",
		Title:     "Test Post",
		Excerpt:   "A test post for testing purposes",
		Date:      "2026-01-15",
		Tags:      []string{"test", "go"},
		ReadTime:  "5 min read",
		Content:   "# Test Post\n\nThis is a test post.\n",
		Published: true,
		Path:      "content/blog/test-post.md",
	}
}

// CreatePost creates a published Post with the given id, date and tags.
func CreatePost(id, date string, tags ...string) models.Post {
	p := CreateSamplePost()
	p.ID = id
	p.Title = "Post " + id
	p.Date = date
	p.Tags = append([]string{}, tags...)
	p.Path = "content/blog/" + id + ".md"
	return p
}

// CreateSampleConfig creates a Config rooted at content/blog and public/data
// with OGP fetching and the on-disk cache disabled.
func CreateSampleConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.CacheDir = ""
	cfg.Pipeline.FetchOGP = false
	cfg.OGPConcurrency = 4
	cfg.Now = FixedNow
	cfg.BuildVersion = FixedNow.Unix()
	return cfg
}

// PostSpec describes the frontmatter of a generated markdown file.
// Empty fields are omitted from the header.
type PostSpec struct {
	ID        string
	Title     string
	Date      string
	Tags      []string
	Excerpt   string
	Published *bool
	Body      string
}

// CreateTestMarkdown creates sample markdown content for testing
func CreateTestMarkdown() string {
	return `---
id: test-post
title: "Test Post"
date: 2026-01-15
tags: ["test", "go"]
excerpt: "A short summary"
---

# Test Post

This is a test post for testing purposes.

## Section 1

Some content with **bold** and *italic* text.

- List item 1
- List item 2

[Link to example](https://example.com)
`
}

// CreateMarkdown renders spec as a markdown file with frontmatter.
func CreateMarkdown(spec PostSpec) string {
	var b strings.Builder
	b.WriteString("---\n")
	if spec.ID != "" {
		b.WriteString("id: " + spec.ID + "\n")
	}
	if spec.Title != "" {
		b.WriteString(`title: "` + spec.Title + `"` + "\n")
	}
	if spec.Date != "" {
		b.WriteString("date: " + spec.Date + "\n")
	}
	if len(spec.Tags) == 0 {
		b.WriteString("tags: []\n")
	} else {
		b.WriteString(`tags: ["` + joinTags(spec.Tags) + `"]` + "\n")
	}
	if spec.Excerpt != "" {
		b.WriteString(`excerpt: "` + spec.Excerpt + `"` + "\n")
	}
	if spec.Published != nil {
		if *spec.Published {
			b.WriteString("published: true\n")
		} else {
			b.WriteString("published: false\n")
		}
	}
	b.WriteString("---\n\n")
	body := spec.Body
	if body == "" {
		body = "Test content for " + spec.Title + ".\n"
	}
	b.WriteString(body)
	return b.String()
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

func joinTags(tags []string) string {
	return strings.Join(tags, `", "`)
}
