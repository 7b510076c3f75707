package run

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/Kush-Singh-26/folio/builder/metadata"
	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/services"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// ErrValidation is returned by Build when any post failed validation.
// Nothing is written in that case; the problems are in Result.Errors.
var ErrValidation = errors.New("validation failed")

// Result describes one build pass.
type Result struct {
	Posts     []models.Post
	Metadata  models.BlogMetadata
	OGP       map[string]models.OGPData
	Errors    []models.ValidationError
	Artifacts []string
	Metrics   *metrics.BuildMetrics
}

// Build executes a single build pass
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	cfg := b.cfg
	m := metrics.NewBuildMetrics()
	res := &Result{Metrics: m}
	defer m.RecordEnd()

	fmt.Fprintf(b.out, "🔨 Building blog data... (Version: %d) | Parallel Workers: %d\n", cfg.BuildVersion, runtime.NumCPU())

	posts := services.NewPostService(cfg, b.renderer, b.logger, m, b.SourceFs)

	// 1. Discover
	files, err := posts.Discover()
	if err != nil {
		res.Errors = []models.ValidationError{{File: "directory", Field: "access", Message: err.Error()}}
		return res, fmt.Errorf("read content directory %s: %w", cfg.ContentDir, err)
	}
	fmt.Fprintf(b.out, "📝 Processing %d posts...\n", len(files))

	// 2. Parse, validate, de-duplicate
	var loaded *services.LoadResult
	metrics.Phase(&m.ParseTime, func() {
		loaded, err = posts.Load(ctx, files)
	})
	if err != nil {
		return res, fmt.Errorf("load posts: %w", err)
	}
	if len(loaded.Errors) > 0 {
		res.Errors = loaded.Errors
		return res, ErrValidation
	}

	// 3. Render
	if cfg.Pipeline.RenderHTML {
		var convErrs []models.ValidationError
		metrics.Phase(&m.ConvertTime, func() {
			convErrs, err = posts.Convert(ctx, loaded.Posts)
		})
		if err != nil {
			return res, fmt.Errorf("convert posts: %w", err)
		}
		if len(convErrs) > 0 {
			m.ValidationErrors += len(convErrs)
			res.Errors = convErrs
			return res, ErrValidation
		}
	}

	// 4. Drop unpublished posts from the public set
	public := make([]models.Post, 0, len(loaded.Posts))
	for _, p := range loaded.Posts {
		if !p.Published {
			m.UnpublishedPosts++
			b.logger.Info("skipping unpublished post", "id", p.ID, "title", p.Title)
			continue
		}
		public = append(public, p)
	}
	m.PostsProcessed = len(public)

	// 5. Link previews
	ogpData := map[string]models.OGPData{}
	if cfg.Pipeline.FetchOGP {
		var urls []string
		for _, p := range public {
			urls = append(urls, parser.ExtractEmbedURLs(p.HTML)...)
		}
		if len(urls) > 0 {
			fmt.Fprintf(b.out, "🔗 Fetching link previews for %d URLs...\n", len(urls))
			before := b.fetcher.Stats()
			metrics.Phase(&m.OGPTime, func() {
				ogpData = b.fetcher.FetchAll(ctx, urls)
			})
			after := b.fetcher.Stats()
			m.OGPFetched = int(after.Fetched - before.Fetched)
			m.OGPFailed = int(after.Failed - before.Failed)
			m.OGPCacheHits = int(after.CacheHits - before.CacheHits)
		}
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	// 6. Aggregate
	utils.SortPosts(public)
	res.Posts = public
	res.Metadata = metadata.Build(public)
	res.OGP = ogpData

	// 7. Emit
	metrics.Phase(&m.WriteTime, func() {
		res.Artifacts, err = b.artifacts.Write(services.Artifacts{
			Posts:    public,
			Metadata: res.Metadata,
			OGP:      ogpData,
		})
	})
	if err != nil {
		return res, fmt.Errorf("write artifacts: %w", err)
	}
	m.ArtifactsWritten = len(res.Artifacts)

	if b.cacheSvc != nil {
		b.maintainCache(time.Now())
	}

	fmt.Fprintln(b.out, "✅ Build Complete.")
	return res, nil
}

func (b *Builder) maintainCache(now time.Time) {
	if err := b.cacheSvc.RecordBuild(now); err != nil {
		b.logger.Warn("failed to record build", "error", err)
	}
	if _, err := b.cacheSvc.PruneOGP(now); err != nil {
		b.logger.Warn("failed to prune ogp cache", "error", err)
	}
}
