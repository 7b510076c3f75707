package run

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/cache"
	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/ogp"
	"github.com/Kush-Singh-26/folio/builder/services"
)

// Builder maintains the state shared between builds
type Builder struct {
	cfg      *config.Config
	logger   *slog.Logger
	out      io.Writer
	SourceFs afero.Fs
	DestFs   afero.Fs

	cacheSvc  services.CacheService
	renderer  services.RenderService
	artifacts services.ArtifactService
	fetcher   *ogp.Fetcher
}

// Option customises a Builder before its services are wired.
type Option func(*Builder)

// WithFilesystems replaces the OS filesystem for reading posts and writing artifacts.
func WithFilesystems(source, dest afero.Fs) Option {
	return func(b *Builder) {
		b.SourceFs = source
		b.DestFs = dest
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithOutput redirects progress lines, which go to stdout by default.
func WithOutput(w io.Writer) Option {
	return func(b *Builder) { b.out = w }
}

// WithCache injects a cache service instead of opening cfg.CacheDir.
func WithCache(svc services.CacheService) Option {
	return func(b *Builder) { b.cacheSvc = svc }
}

// NewLogger returns the text logger used by the CLI.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewBuilder initializes a builder and its services
func NewBuilder(cfg *config.Config, opts ...Option) (*Builder, error) {
	b := &Builder{
		cfg:      cfg,
		out:      os.Stdout,
		SourceFs: afero.NewOsFs(),
		DestFs:   afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = NewLogger(cfg.Debug)
	}

	if b.cacheSvc == nil && cfg.CacheDir != "" {
		manager, err := cache.Open(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("open cache %s: %w", cfg.CacheDir, err)
		}
		b.cacheSvc = services.NewCacheService(manager, b.logger)
	}

	b.renderer = services.NewRenderService(cfg.Pipeline, b.cacheSvc, b.logger)
	b.artifacts = services.NewArtifactService(cfg, b.DestFs, b.logger)

	var store ogp.Store
	if b.cacheSvc != nil {
		store = b.cacheSvc
	}
	b.fetcher = ogp.NewFetcher(ogp.Options{
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.OGPTimeout,
		Concurrency:  cfg.OGPConcurrency,
		MaxBodyBytes: cfg.MaxBodyBytes,
		CacheTTL:     cfg.OGPCacheTTL,
	}, store, b.logger)

	return b, nil
}

// Config returns the builder's configuration
func (b *Builder) Config() *config.Config {
	return b.cfg
}

// Logger returns the builder's logger
func (b *Builder) Logger() *slog.Logger {
	return b.logger
}

// Close releases the cache database.
func (b *Builder) Close() error {
	if b.cacheSvc == nil {
		return nil
	}
	return b.cacheSvc.Close()
}
