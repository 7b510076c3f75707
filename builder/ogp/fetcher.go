// Package ogp fetches Open Graph link previews for embedded URLs.
package ogp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// Store persists successful lookups between builds.
type Store interface {
	GetOGP(url string, now time.Time) (models.OGPData, bool, error)
	PutOGP(data models.OGPData, now time.Time, ttl time.Duration) error
}

// Options configures a Fetcher.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	Concurrency  int
	MaxBodyBytes int64
	CacheTTL     time.Duration
}

// Stats counts the outcome of every lookup since the fetcher was created.
type Stats struct {
	Fetched   int64
	Failed    int64
	CacheHits int64
}

// Fetcher resolves URLs to OGPData. Failures never escape: a URL that cannot
// be fetched or parsed resolves to a record holding only the URL.
type Fetcher struct {
	client *http.Client
	opts   Options
	store  Store
	logger *slog.Logger
	now    func() time.Time

	fetched   atomic.Int64
	failed    atomic.Int64
	cacheHits atomic.Int64
}

// NewFetcher creates a fetcher. store may be nil to disable caching.
func NewFetcher(opts Options, store Store, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 2 * 1024 * 1024
	}
	return &Fetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Stats returns the lookup counters.
func (f *Fetcher) Stats() Stats {
	return Stats{
		Fetched:   f.fetched.Load(),
		Failed:    f.failed.Load(),
		CacheHits: f.cacheHits.Load(),
	}
}

// FetchAll looks up every distinct URL on a bounded pool and waits for all of them.
// The result has one entry per distinct input URL.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) map[string]models.OGPData {
	unique := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	var mu sync.Mutex
	out := make(map[string]models.OGPData, len(unique))
	utils.ForEach(ctx, f.opts.Concurrency, unique, func(u string) {
		data := f.Fetch(ctx, u)
		mu.Lock()
		out[u] = data
		mu.Unlock()
	})

	// URLs never reached because ctx was cancelled still get a record.
	for _, u := range unique {
		if _, ok := out[u]; !ok {
			out[u] = models.OGPData{URL: u}
		}
	}
	return out
}

// Fetch looks up a single URL, consulting the store first.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) models.OGPData {
	if f.store != nil {
		data, ok, err := f.store.GetOGP(pageURL, f.now())
		if err != nil {
			f.logger.Warn("ogp cache read failed", "url", pageURL, "error", err)
		} else if ok {
			f.cacheHits.Add(1)
			return data
		}
	}

	data, err := f.fetch(ctx, pageURL)
	if err != nil {
		f.failed.Add(1)
		f.logger.Warn("ogp fetch failed", "url", pageURL, "error", err)
		return models.OGPData{URL: pageURL}
	}
	f.fetched.Add(1)
	f.logger.Debug("ogp fetched", "url", pageURL, "title", data.Title)

	if f.store != nil {
		if err := f.store.PutOGP(data, f.now(), f.opts.CacheTTL); err != nil {
			f.logger.Warn("ogp cache write failed", "url", pageURL, "error", err)
		}
	}
	return data
}

func (f *Fetcher) fetch(ctx context.Context, pageURL string) (models.OGPData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return models.OGPData{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return models.OGPData{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.OGPData{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, f.opts.MaxBodyBytes)
	reader, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return models.OGPData{}, fmt.Errorf("decode charset: %w", err)
	}

	data, err := Parse(pageURL, reader)
	if err != nil {
		return models.OGPData{}, fmt.Errorf("parse html: %w", err)
	}
	return data, nil
}
