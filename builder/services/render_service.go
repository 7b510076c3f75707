package services

import (
	"fmt"
	"log/slog"

	"github.com/Kush-Singh-26/folio/builder/cache"
	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/parser"
)

// rendererVersion is part of the render cache key; bump it when converter
// output changes for the same input.
const rendererVersion = 1

type renderServiceImpl struct {
	converter   *parser.Converter
	cache       CacheService
	fingerprint string
	logger      *slog.Logger
}

// NewRenderService builds the converter for opts. cacheSvc may be nil.
func NewRenderService(opts config.PipelineOptions, cacheSvc CacheService, logger *slog.Logger) RenderService {
	return &renderServiceImpl{
		converter: parser.NewConverter(parser.ConverterOptions{
			EmbedOrigin:  opts.EmbedOrigin,
			AllowRawHTML: opts.AllowRawHTML,
			Minify:       opts.MinifyHTML,
		}),
		cache:       cacheSvc,
		fingerprint: fmt.Sprintf("v%d|%s|raw=%t|min=%t", rendererVersion, opts.EmbedOrigin, opts.AllowRawHTML, opts.MinifyHTML),
		logger:      logger,
	}
}

func (s *renderServiceImpl) Render(body string) (string, bool, error) {
	if s.cache == nil {
		html, err := s.converter.Convert(body)
		return html, false, err
	}

	key := cache.HTMLKey(s.fingerprint, body)
	if html, ok, err := s.cache.GetHTML(key); err != nil {
		s.logger.Warn("render cache read failed", "error", err)
	} else if ok {
		return html, true, nil
	}

	html, err := s.converter.Convert(body)
	if err != nil {
		return "", false, err
	}
	if err := s.cache.PutHTML(key, html); err != nil {
		s.logger.Warn("render cache write failed", "error", err)
	}
	return html, false, nil
}
