package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestNewBuildMetrics(t *testing.T) {
	m := NewBuildMetrics()

	if m.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}
	if !m.EndTime.IsZero() {
		t.Error("EndTime should be zero initially")
	}
	if m.PostsProcessed != 0 || m.OGPLookups() != 0 {
		t.Error("counters should start at zero")
	}
}

func TestRecordEnd(t *testing.T) {
	m := NewBuildMetrics()
	before := time.Now()
	m.RecordEnd()
	after := time.Now()

	if m.EndTime.Before(before) || m.EndTime.After(after) {
		t.Error("EndTime should be set to current time")
	}
}

func TestTotalDuration(t *testing.T) {
	m := &BuildMetrics{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 1, 1, 0, 0, 2, 0, time.UTC),
	}
	if got := m.TotalDuration(); got != 2*time.Second {
		t.Errorf("TotalDuration() = %v, want 2s", got)
	}
}

func TestHTMLCacheHitRate(t *testing.T) {
	tests := []struct {
		name   string
		hits   int
		misses int
		want   float64
	}{
		{"no lookups", 0, 0, 0},
		{"all hits", 4, 0, 100},
		{"half", 2, 2, 50},
		{"quarter", 1, 3, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &BuildMetrics{HTMLCacheHits: tt.hits, HTMLCacheMisses: tt.misses}
			if got := m.HTMLCacheHitRate(); got != tt.want {
				t.Errorf("HTMLCacheHitRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPhase(t *testing.T) {
	var d time.Duration
	Phase(&d, func() { time.Sleep(5 * time.Millisecond) })
	Phase(&d, func() { time.Sleep(5 * time.Millisecond) })
	if d < 10*time.Millisecond {
		t.Errorf("Phase should accumulate, got %v", d)
	}
}

func TestString(t *testing.T) {
	m := NewBuildMetrics()
	m.PostsProcessed = 3
	m.UnpublishedPosts = 1
	m.OGPFetched = 2
	m.OGPFailed = 1
	m.RecordEnd()

	s := m.String()
	for _, want := range []string{"Built 3 posts", "1 unpublished", "2 fetched", "1 failed"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q: %s", want, s)
		}
	}
}
