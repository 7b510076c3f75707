package new

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// ErrExists is returned when the target post file is already present.
var ErrExists = errors.New("file already exists")

// slugRegex matches characters that are unsafe for filenames/URLs
var slugRegex = regexp.MustCompile(`[<>:"/\\|?*#%&{}\x00-\x1f]`)

// sanitizeSlug converts a title to a safe filename slug
func sanitizeSlug(title string) string {
	slug := norm.NFC.String(strings.ToLower(strings.TrimSpace(title)))
	slug = strings.Join(strings.Fields(slug), "-")
	slug = slugRegex.ReplaceAllString(slug, "")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-.")
	if len(slug) > 100 {
		slug = strings.TrimRight(strings.ToValidUTF8(slug[:100], ""), "-")
	}
	return slug
}

// Create writes a new post with valid frontmatter into contentDir and returns its path.
func Create(fs afero.Fs, contentDir, title string, now time.Time) (string, error) {
	slug := sanitizeSlug(title)
	if slug == "" {
		return "", fmt.Errorf("title %q produces an empty slug", title)
	}
	path := filepath.Join(contentDir, slug+utils.MarkdownExt)

	if exists, err := afero.Exists(fs, path); err != nil {
		return "", err
	} else if exists {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	}

	content := fmt.Sprintf(`---
id: %q
title: %q
date: %q
excerpt: "Enter a short description here..."
tags: []
readTime: "5 min read"
published: false
---

## Introduction

Start writing here...
`, slug, title, utils.FormatDate(now))

	if err := utils.WriteFileVFS(fs, path, []byte(content)); err != nil {
		return "", err
	}
	return path, nil
}

// Run creates a new blog post file
func Run(args []string) int {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fmt.Println("Usage: folio new \"My New Post Title\" [--content DIR]")
		return 1
	}

	cfg, err := config.Load(args[1:])
	if errors.Is(err, config.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	path, err := Create(afero.NewOsFs(), cfg.ContentDir, args[0], cfg.Now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		return 1
	}
	fmt.Printf("✅ Created: %s (unpublished until you set published: true)\n", path)
	return 0
}
