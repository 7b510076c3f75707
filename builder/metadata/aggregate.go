// Package metadata derives tag counts and monthly archives from published posts.
package metadata

import (
	"sort"
	"time"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// Calculate computes tag frequencies and (year, month) archive buckets.
// Equal tag counts keep the order in which the tags were first seen.
func Calculate(posts []models.Post) models.Aggregates {
	counts := make(map[string]int)
	var order []string
	for _, p := range posts {
		for _, tag := range p.Tags {
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	tagCounts := make([]models.TagCount, 0, len(order))
	for _, tag := range order {
		tagCounts = append(tagCounts, models.TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(tagCounts, func(i, j int) bool {
		return tagCounts[i].Count > tagCounts[j].Count
	})

	type bucket struct{ year, month int }
	buckets := make(map[bucket]int)
	for _, p := range posts {
		d, err := time.Parse(utils.DateLayout, p.Date)
		if err != nil {
			continue
		}
		buckets[bucket{d.Year(), int(d.Month())}]++
	}

	archives := make([]models.BlogArchive, 0, len(buckets))
	for b, n := range buckets {
		archives = append(archives, models.BlogArchive{Year: b.year, Month: b.month, Count: n})
	}
	sort.Slice(archives, func(i, j int) bool {
		if archives[i].Year != archives[j].Year {
			return archives[i].Year > archives[j].Year
		}
		return archives[i].Month > archives[j].Month
	})

	return models.Aggregates{TagCounts: tagCounts, Archives: archives}
}

// Build assembles the blog-metadata.json document for sorted published posts.
func Build(posts []models.Post) models.BlogMetadata {
	agg := Calculate(posts)
	summaries := make([]models.PostSummary, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, p.Summary())
	}
	return models.BlogMetadata{
		Posts:     summaries,
		Archives:  agg.Archives,
		TagCounts: agg.TagCounts,
	}
}
