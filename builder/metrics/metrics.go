// Package metrics provides build performance tracking.
package metrics

import (
	"fmt"
	"time"
)

// BuildMetrics tracks performance data during the build process.
type BuildMetrics struct {
	// Timing
	StartTime   time.Time
	EndTime     time.Time
	ParseTime   time.Duration
	ConvertTime time.Duration
	OGPTime     time.Duration
	WriteTime   time.Duration

	// Counters
	PostsProcessed   int
	UnpublishedPosts int
	ValidationErrors int
	HTMLCacheHits    int
	HTMLCacheMisses  int
	OGPFetched       int
	OGPFailed        int
	OGPCacheHits     int
	ArtifactsWritten int
}

// NewBuildMetrics creates a new metrics instance.
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{
		StartTime: time.Now(),
	}
}

// RecordEnd marks the end of the build.
func (m *BuildMetrics) RecordEnd() {
	m.EndTime = time.Now()
}

// TotalDuration returns the total build duration.
func (m *BuildMetrics) TotalDuration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// Phase times fn and adds the elapsed time to dst.
func Phase(dst *time.Duration, fn func()) {
	start := time.Now()
	fn()
	*dst += time.Since(start)
}

// HTMLCacheHitRate returns the render cache hit percentage.
func (m *BuildMetrics) HTMLCacheHitRate() float64 {
	total := m.HTMLCacheHits + m.HTMLCacheMisses
	if total == 0 {
		return 0
	}
	return float64(m.HTMLCacheHits) / float64(total) * 100
}

// OGPLookups returns the number of distinct URLs resolved.
func (m *BuildMetrics) OGPLookups() int {
	return m.OGPFetched + m.OGPFailed + m.OGPCacheHits
}

// String returns a formatted summary of the build metrics (minimal single-line format).
func (m *BuildMetrics) String() string {
	return fmt.Sprintf("📊 Built %d posts in %v (%d unpublished, ogp: %d fetched/%d failed/%d cached, render cache: %.0f%%)\n",
		m.PostsProcessed,
		m.TotalDuration().Round(time.Millisecond),
		m.UnpublishedPosts,
		m.OGPFetched,
		m.OGPFailed,
		m.OGPCacheHits,
		m.HTMLCacheHitRate(),
	)
}

// Print outputs the metrics to stdout.
func (m *BuildMetrics) Print() {
	fmt.Println(m.String())
}
