// handles configuration from folio.build.yaml, environment and command-line flags
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// ErrHelp is returned by Load when --help was requested.
var ErrHelp = errors.New("help requested")

type Config struct {
	ContentDir string `yaml:"contentDir"`
	OutputDir  string `yaml:"outputDir"`
	CacheDir   string `yaml:"cacheDir"` // Empty disables the OGP cache
	Addr       string `yaml:"addr"`

	// OGP fetching
	UserAgent      string        `yaml:"userAgent"`
	OGPConcurrency int           `yaml:"ogpConcurrency"`
	OGPTimeout     time.Duration `yaml:"ogpTimeout"`
	OGPCacheTTL    time.Duration `yaml:"ogpCacheTTL"`
	MaxBodyBytes   int64         `yaml:"maxBodyBytes"`

	// watch / serve
	DebounceDuration time.Duration `yaml:"debounce"`
	MetadataCacheTTL time.Duration `yaml:"metadataCacheTTL"`

	Pipeline PipelineOptions `yaml:"pipeline"`

	Debug        bool      `yaml:"debug"`
	BuildVersion int64     `yaml:"-"`
	Now          time.Time `yaml:"-"`
}

// cliFlags mirrors the overridable subset of Config. Fields are pre-populated
// from the file configuration so an absent flag keeps the file value.
type cliFlags struct {
	ContentDir     string        `long:"content" env:"FOLIO_CONTENT_DIR" description:"Directory containing markdown posts"`
	OutputDir      string        `long:"output" env:"FOLIO_OUTPUT_DIR" description:"Directory the JSON artifacts are written to"`
	CacheDir       string        `long:"cache-dir" env:"FOLIO_CACHE_DIR" description:"OGP cache directory (empty disables)"`
	Addr           string        `long:"addr" env:"FOLIO_ADDR" description:"Listen address for serve"`
	UserAgent      string        `long:"user-agent" env:"FOLIO_USER_AGENT" description:"User agent for OGP requests"`
	OGPConcurrency int           `long:"ogp-workers" env:"FOLIO_OGP_WORKERS" description:"Concurrent OGP fetches"`
	OGPTimeout     time.Duration `long:"ogp-timeout" env:"FOLIO_OGP_TIMEOUT" description:"Per-request OGP timeout"`
	EmbedOrigin    string        `long:"embed-origin" env:"FOLIO_EMBED_ORIGIN" description:"Origin third-party embeds are routed through"`

	RequireID         bool `long:"require-id" description:"Reject posts without an explicit id"`
	NoHTML            bool `long:"no-html" description:"Skip html rendering (implies --no-ogp)"`
	NoOGP             bool `long:"no-ogp" description:"Skip OGP lookups"`
	RejectFutureDates bool `long:"reject-future-dates" description:"Treat future post dates as errors"`
	EstimateReadTime  bool `long:"estimate-read-time" description:"Estimate readTime from word count when absent"`
	AllowRawHTML      bool `long:"allow-raw-html" description:"Keep raw HTML blocks in markdown"`
	Minify            bool `long:"minify" description:"Minify rendered post html"`
	NoAtomic          bool `long:"no-atomic" description:"Write artifacts in place instead of temp+rename"`
	Debug             bool `long:"debug" env:"FOLIO_DEBUG" description:"Enable debug logging"`
}

// Load builds the configuration: defaults, then folio.build.yaml (or
// $FOLIO_CONFIG), then environment and args.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("FOLIO_CONFIG")
	if path == "" {
		path = "folio.build.yaml"
	}
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}

	f := cliFlags{
		ContentDir:        cfg.ContentDir,
		OutputDir:         cfg.OutputDir,
		CacheDir:          cfg.CacheDir,
		Addr:              cfg.Addr,
		UserAgent:         cfg.UserAgent,
		OGPConcurrency:    cfg.OGPConcurrency,
		OGPTimeout:        cfg.OGPTimeout,
		EmbedOrigin:       cfg.Pipeline.EmbedOrigin,
		RejectFutureDates: cfg.Pipeline.RejectFutureDates,
		EstimateReadTime:  cfg.Pipeline.EstimateReadTime,
		AllowRawHTML:      cfg.Pipeline.AllowRawHTML,
		Minify:            cfg.Pipeline.MinifyHTML,
		Debug:             cfg.Debug,
	}

	parser := flags.NewParser(&f, flags.Default)
	parser.Usage = "[OPTIONS]"
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	cfg.ContentDir = f.ContentDir
	cfg.OutputDir = f.OutputDir
	cfg.CacheDir = f.CacheDir
	cfg.Addr = f.Addr
	cfg.UserAgent = f.UserAgent
	cfg.OGPConcurrency = f.OGPConcurrency
	cfg.OGPTimeout = f.OGPTimeout
	cfg.Pipeline.EmbedOrigin = strings.TrimSuffix(f.EmbedOrigin, "/")
	cfg.Pipeline.RejectFutureDates = f.RejectFutureDates
	cfg.Pipeline.EstimateReadTime = f.EstimateReadTime
	cfg.Pipeline.AllowRawHTML = f.AllowRawHTML
	cfg.Pipeline.MinifyHTML = f.Minify
	cfg.Debug = f.Debug
	if f.RequireID {
		cfg.Pipeline.DeriveIDFromFilename = false
	}
	if f.NoHTML {
		cfg.Pipeline.RenderHTML = false
	}
	if f.NoOGP {
		cfg.Pipeline.FetchOGP = false
	}
	if f.NoAtomic {
		cfg.Pipeline.AtomicWrites = false
	}

	cfg.Now = time.Now()
	cfg.BuildVersion = cfg.Now.Unix()
	cfg.validate()
	return cfg, nil
}
