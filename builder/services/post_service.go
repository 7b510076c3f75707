package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/utils"
	"github.com/Kush-Singh-26/folio/builder/validate"
)

// Field names used for errors that do not come from frontmatter validation.
const (
	FieldParsing = "parsing"
	FieldID      = "id"
)

type postServiceImpl struct {
	cfg      *config.Config
	renderer RenderService
	logger   *slog.Logger
	metrics  *metrics.BuildMetrics
	sourceFs afero.Fs
}

func NewPostService(
	cfg *config.Config,
	renderer RenderService,
	logger *slog.Logger,
	metrics *metrics.BuildMetrics,
	sourceFs afero.Fs,
) PostService {
	return &postServiceImpl{
		cfg:      cfg,
		renderer: renderer,
		logger:   logger,
		metrics:  metrics,
		sourceFs: sourceFs,
	}
}

// Discover lists the markdown files directly under the content directory in
// name order. A missing directory yields no files.
func (s *postServiceImpl) Discover() ([]string, error) {
	entries, err := afero.ReadDir(s.sourceFs, s.cfg.ContentDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("content directory does not exist", "dir", s.cfg.ContentDir)
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !utils.IsMarkdown(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(s.cfg.ContentDir, e.Name()))
	}
	return files, nil
}

// Load parses, extracts and validates every file. All problems are collected;
// the first file to claim an id keeps it. Drafts claim ids too. Load stops
// with ctx's error once ctx is done.
func (s *postServiceImpl) Load(ctx context.Context, files []string) (*LoadResult, error) {
	res := &LoadResult{Files: len(files)}
	claimed := make(map[string]string, len(files))

	extractOpts := parser.ExtractOptions{
		DeriveID:         s.cfg.Pipeline.DeriveIDFromFilename,
		EstimateReadTime: s.cfg.Pipeline.EstimateReadTime,
		Now:              s.cfg.Now,
	}
	validateOpts := validate.Options{
		RequireID:         !s.cfg.Pipeline.DeriveIDFromFilename,
		RejectFutureDates: s.cfg.Pipeline.RejectFutureDates,
		Now:               s.cfg.Now,
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := parser.ParseFile(s.sourceFs, file)
		if err != nil {
			msg := err.Error()
			var perr *parser.ParseError
			if errors.As(err, &perr) {
				msg = perr.Err.Error()
			}
			res.Errors = append(res.Errors, models.ValidationError{File: file, Field: FieldParsing, Message: msg})
			continue
		}

		post := parser.ExtractPost(file, doc, extractOpts)
		if verrs := validate.Post(file, doc, post, validateOpts); len(verrs) > 0 {
			res.Errors = append(res.Errors, verrs...)
			continue
		}

		if first, dup := claimed[post.ID]; dup {
			res.Errors = append(res.Errors, models.ValidationError{
				File:    file,
				Field:   FieldID,
				Message: fmt.Sprintf("duplicate id %q (already used by %s)", post.ID, first),
			})
			continue
		}
		claimed[post.ID] = file

		if !s.cfg.Pipeline.RejectFutureDates && validate.IsFutureDate(post.Date, s.cfg.Now) {
			s.logger.Warn("post date is in the future", "file", file, "date", post.Date)
		}
		s.logger.Debug("loaded post", "id", post.ID, "file", file)
		res.Posts = append(res.Posts, post)
	}

	if s.metrics != nil {
		s.metrics.ValidationErrors = len(res.Errors)
	}
	return res, nil
}

// Convert renders every post's HTML in place on a bounded pool. Conversion
// failures come back as parsing errors in input order.
func (s *postServiceImpl) Convert(ctx context.Context, posts []models.Post) ([]models.ValidationError, error) {
	indexes := make([]int, len(posts))
	for i := range indexes {
		indexes[i] = i
	}

	failures := make([]error, len(posts))
	var hits, misses atomic.Int64
	utils.ForEach(ctx, runtime.NumCPU(), indexes, func(i int) {
		html, cached, err := s.renderer.Render(posts[i].Content)
		if err != nil {
			failures[i] = err
			return
		}
		if cached {
			hits.Add(1)
		} else {
			misses.Add(1)
		}
		posts[i].HTML = html
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.HTMLCacheHits += int(hits.Load())
		s.metrics.HTMLCacheMisses += int(misses.Load())
	}

	var errs []models.ValidationError
	for i, err := range failures {
		if err != nil {
			errs = append(errs, models.ValidationError{File: posts[i].Path, Field: FieldParsing, Message: err.Error()})
		}
	}
	return errs, nil
}
