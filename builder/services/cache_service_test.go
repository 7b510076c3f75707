package services

import (
	"strings"
	"testing"
	"time"

	"github.com/Kush-Singh-26/folio/builder/cache"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/testutil"
)

func setupCacheServiceTest(t *testing.T) (CacheService, *cache.Manager) {
	t.Helper()
	mgr, cleanup := testutil.CreateTestCache(t)
	t.Cleanup(cleanup)
	return NewCacheService(mgr, quietLogger()), mgr
}

func TestCacheService_HTML(t *testing.T) {
	svc, _ := setupCacheServiceTest(t)

	if _, ok, err := svc.GetHTML("missing"); err != nil || ok {
		t.Fatalf("GetHTML(missing) = %v, %v", ok, err)
	}

	large := "<p>" + strings.Repeat("lorem ipsum ", 2000) + "</p>"
	for key, html := range map[string]string{"small": "<p>hi</p>", "large": large} {
		if err := svc.PutHTML(key, html); err != nil {
			t.Fatalf("PutHTML(%s) failed: %v", key, err)
		}
		got, ok, err := svc.GetHTML(key)
		if err != nil || !ok {
			t.Fatalf("GetHTML(%s) = %v, %v", key, ok, err)
		}
		if got != html {
			t.Errorf("GetHTML(%s) returned %d bytes, want %d", key, len(got), len(html))
		}
	}
}

func TestCacheService_OGPLifecycle(t *testing.T) {
	svc, mgr := setupCacheServiceTest(t)
	now := testutil.FixedNow

	fresh := models.OGPData{URL: "https://fresh.example.com", Title: "Fresh"}
	stale := models.OGPData{URL: "https://stale.example.com", Title: "Stale"}
	if err := svc.PutOGP(fresh, now, 24*time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := svc.PutOGP(stale, now.Add(-48*time.Hour), 24*time.Hour); err != nil {
		t.Fatal(err)
	}

	if got, ok, err := svc.GetOGP(fresh.URL, now); err != nil || !ok || got.Title != "Fresh" {
		t.Errorf("GetOGP(fresh) = %+v, %v, %v", got, ok, err)
	}
	if _, ok, _ := svc.GetOGP(stale.URL, now); ok {
		t.Error("expired records should miss")
	}

	removed, err := svc.PruneOGP(now)
	if err != nil || removed != 1 {
		t.Errorf("PruneOGP = %d, %v; want 1", removed, err)
	}
	stats, err := mgr.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.OGPEntries != 1 {
		t.Errorf("OGPEntries = %d after prune, want 1", stats.OGPEntries)
	}
}

func TestCacheService_RecordBuild(t *testing.T) {
	svc, mgr := setupCacheServiceTest(t)

	for i := 0; i < 3; i++ {
		if err := svc.RecordBuild(testutil.FixedNow); err != nil {
			t.Fatalf("RecordBuild failed: %v", err)
		}
	}
	stats, err := mgr.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.BuildCount != 3 {
		t.Errorf("BuildCount = %d, want 3", stats.BuildCount)
	}
	if !stats.LastBuild.Equal(testutil.FixedNow) {
		t.Errorf("LastBuild = %v, want %v", stats.LastBuild, testutil.FixedNow)
	}
}
