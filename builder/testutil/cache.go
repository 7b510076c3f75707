package testutil

import (
	"testing"

	"github.com/Kush-Singh-26/folio/builder/cache"
)

// CreateTestCache opens a cache in a temp directory. The returned cleanup
// closes it; the directory itself is removed by the test framework.
func CreateTestCache(t *testing.T) (*cache.Manager, func()) {
	t.Helper()
	mgr, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open test cache: %v", err)
	}
	return mgr, func() { _ = mgr.Close() }
}
