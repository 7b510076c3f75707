package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultEmbedOrigin is the remote origin that renders third-party embeds.
const DefaultEmbedOrigin = "https://embed.zenn.studio"

// DefaultUserAgent is sent with every OGP request.
const DefaultUserAgent = "folio-ogp-fetcher/1.0 (+https://github.com/Kush-Singh-26/folio)"

// PipelineOptions selects the pipeline variant.
// These can be overridden via folio.build.yaml or flags.
type PipelineOptions struct {
	DeriveIDFromFilename bool   `yaml:"deriveIdFromFilename"` // Missing id falls back to the file name (default: true)
	RenderHTML           bool   `yaml:"renderHtml"`           // Emit html alongside content (default: true)
	FetchOGP             bool   `yaml:"fetchOgp"`             // Fetch link previews for embeds (default: true)
	RejectFutureDates    bool   `yaml:"rejectFutureDates"`    // Future dates fail validation instead of warning
	EstimateReadTime     bool   `yaml:"estimateReadTime"`     // Compute readTime from word count when absent
	EmbedOrigin          string `yaml:"embedOrigin"`          // Origin embeds are routed through
	AllowRawHTML         bool   `yaml:"allowRawHtml"`         // Pass raw HTML in markdown through
	MinifyHTML           bool   `yaml:"minifyHtml"`           // Minify rendered post html
	AtomicWrites         bool   `yaml:"atomicWrites"`         // Write artifacts via temp file + rename (default: true)
}

// DefaultPipelineOptions returns the richer variant with id derivation.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		DeriveIDFromFilename: true,
		RenderHTML:           true,
		FetchOGP:             true,
		EmbedOrigin:          DefaultEmbedOrigin,
		AtomicWrites:         true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ContentDir: "content/blog",
		OutputDir:  "public/data",
		CacheDir:   ".folio-cache",
		Addr:       ":8080",

		UserAgent:      DefaultUserAgent,
		OGPConcurrency: 8,
		OGPTimeout:     10 * time.Second,
		OGPCacheTTL:    7 * 24 * time.Hour,
		MaxBodyBytes:   2 * 1024 * 1024, // 2MB

		DebounceDuration: 300 * time.Millisecond,
		MetadataCacheTTL: 5 * time.Minute,

		Pipeline: DefaultPipelineOptions(),
	}
}

// loadFile overlays folio.build.yaml onto cfg.
// A missing file is not an error.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// validate ensures configuration values are within reasonable bounds
func (c *Config) validate() {
	if c.OGPConcurrency < 1 {
		c.OGPConcurrency = 1
	}
	if c.OGPConcurrency > 64 {
		c.OGPConcurrency = 64
	}
	if c.OGPTimeout < 500*time.Millisecond {
		c.OGPTimeout = 500 * time.Millisecond
	}
	if c.OGPTimeout > 2*time.Minute {
		c.OGPTimeout = 2 * time.Minute
	}
	if c.MaxBodyBytes < 16*1024 {
		c.MaxBodyBytes = 16 * 1024
	}
	if c.DebounceDuration < 10*time.Millisecond {
		c.DebounceDuration = 10 * time.Millisecond
	}
	if c.DebounceDuration > 5*time.Second {
		c.DebounceDuration = 5 * time.Second
	}
	if c.MetadataCacheTTL < 0 {
		c.MetadataCacheTTL = 0
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Pipeline.EmbedOrigin == "" {
		c.Pipeline.EmbedOrigin = DefaultEmbedOrigin
	}
	// Link previews are collected from rendered html.
	if !c.Pipeline.RenderHTML {
		c.Pipeline.FetchOGP = false
	}
}
