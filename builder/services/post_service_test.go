package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/services/mocks"
	"github.com/Kush-Singh-26/folio/builder/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupPostServiceTest(t *testing.T, files map[string]string) (PostService, *metrics.BuildMetrics, *mocks.MockCacheService) {
	t.Helper()
	cfg := testutil.CreateSampleConfig()
	sourceFs, _ := testutil.CreateTestFilesystemWithContent(files)
	m := metrics.NewBuildMetrics()
	cacheSvc := mocks.NewMockCacheService()
	renderer := NewRenderService(cfg.Pipeline, cacheSvc, quietLogger())
	return NewPostService(cfg, renderer, quietLogger(), m, sourceFs), m, cacheSvc
}

func TestDiscover(t *testing.T) {
	svc, _, _ := setupPostServiceTest(t, map[string]string{
		"content/blog/b.md":        "x",
		"content/blog/a.md":        "x",
		"content/blog/notes.txt":   "x",
		"content/blog/nested/c.md": "x",
	})

	files, err := svc.Discover()
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	want := []string{"content/blog/a.md", "content/blog/b.md"}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("Discover() = %v, want %v", files, want)
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	cfg := testutil.CreateSampleConfig()
	svc := NewPostService(cfg, nil, quietLogger(), nil, afero.NewMemMapFs())
	files, err := svc.Discover()
	if err != nil {
		t.Fatalf("missing directory should not fail: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}

func TestLoadCollectsAllErrors(t *testing.T) {
	files := map[string]string{
		"content/blog/good.md":    testutil.CreateMarkdown(testutil.PostSpec{ID: "good", Title: "Good", Date: "2025-01-01", Tags: []string{"go"}}),
		"content/blog/bad.md":     testutil.CreateMarkdown(testutil.PostSpec{ID: "bad", Date: "2023-13-45"}),
		"content/blog/broken.md":  "---\ntitle: never closed\n",
		"content/blog/dup-one.md": testutil.CreateMarkdown(testutil.PostSpec{ID: "shared", Title: "First", Date: "2025-01-02"}),
		"content/blog/dup-two.md": testutil.CreateMarkdown(testutil.PostSpec{ID: "shared", Title: "Second", Date: "2025-01-03"}),
		"content/blog/derived.md": testutil.CreateMarkdown(testutil.PostSpec{Title: "Derived", Date: "2025-01-04"}),
		"content/blog/hidden.md":  testutil.CreateMarkdown(testutil.PostSpec{ID: "hidden", Title: "Hidden", Date: "2025-01-05", Published: testutil.Bool(false)}),
	}
	svc, m, _ := setupPostServiceTest(t, files)

	paths, err := svc.Discover()
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	res, err := svc.Load(context.Background(), paths)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	byField := map[string][]string{}
	for _, e := range res.Errors {
		byField[e.File] = append(byField[e.File], e.Field)
	}
	if got := strings.Join(byField["content/blog/bad.md"], ","); got != "title,date" {
		t.Errorf("bad.md errors = %q, want title,date", got)
	}
	if got := strings.Join(byField["content/blog/broken.md"], ","); got != FieldParsing {
		t.Errorf("broken.md errors = %q, want parsing", got)
	}
	if got := strings.Join(byField["content/blog/dup-two.md"], ","); got != FieldID {
		t.Errorf("dup-two.md errors = %q, want id", got)
	}
	if _, ok := byField["content/blog/dup-one.md"]; ok {
		t.Error("the first file to claim an id keeps it")
	}

	ids := map[string]bool{}
	for _, p := range res.Posts {
		ids[p.ID] = true
	}
	for _, want := range []string{"good", "shared", "derived", "hidden"} {
		if !ids[want] {
			t.Errorf("expected post %q to load, got %v", want, ids)
		}
	}
	if m.ValidationErrors != len(res.Errors) {
		t.Errorf("metrics.ValidationErrors = %d, want %d", m.ValidationErrors, len(res.Errors))
	}
}

func TestConvertFillsHTMLAndUsesCache(t *testing.T) {
	files := map[string]string{
		"content/blog/a.md": testutil.CreateMarkdown(testutil.PostSpec{ID: "a", Title: "A", Date: "2025-01-01", Body: "# Heading\n\n@[card](https://example.com)\n"}),
		"content/blog/b.md": testutil.CreateMarkdown(testutil.PostSpec{ID: "b", Title: "B", Date: "2025-01-02"}),
	}
	svc, m, cacheSvc := setupPostServiceTest(t, files)

	paths, _ := svc.Discover()
	res, err := svc.Load(context.Background(), paths)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}

	errs, err := svc.Convert(context.Background(), res.Posts)
	if err != nil || len(errs) != 0 {
		t.Fatalf("Convert failed: %v %v", err, errs)
	}
	for _, p := range res.Posts {
		if p.HTML == "" {
			t.Errorf("post %s has no html", p.ID)
		}
	}
	if !strings.Contains(res.Posts[0].HTML, "data-embed-type=\"card\"") {
		t.Errorf("expected card embed in %s", res.Posts[0].HTML)
	}
	if m.HTMLCacheMisses != 2 || m.HTMLCacheHits != 0 {
		t.Errorf("first pass: hits=%d misses=%d", m.HTMLCacheHits, m.HTMLCacheMisses)
	}

	again, err := svc.Load(context.Background(), paths)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := svc.Convert(context.Background(), again.Posts); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if m.HTMLCacheHits != 2 {
		t.Errorf("second pass should hit the render cache, hits=%d", m.HTMLCacheHits)
	}
	if cacheSvc.Calls("PutHTML") != 2 {
		t.Errorf("PutHTML calls = %d, want 2", cacheSvc.Calls("PutHTML"))
	}
	if again.Posts[0].HTML != res.Posts[0].HTML {
		t.Error("cached html should match a fresh render")
	}
}

func TestConvertReportsFailuresInOrder(t *testing.T) {
	cfg := testutil.CreateSampleConfig()
	renderer := mocks.NewMockRenderService()
	renderer.FailOn = "boom"
	renderer.Err = errors.New("render exploded")
	svc := NewPostService(cfg, renderer, quietLogger(), nil, afero.NewMemMapFs())

	posts := []models.Post{
		testutil.CreatePost("first", "2025-01-01"),
		testutil.CreatePost("second", "2025-01-02"),
		testutil.CreatePost("third", "2025-01-03"),
	}
	posts[0].Content = "boom one"
	posts[2].Content = "boom three"

	errs, err := svc.Convert(context.Background(), posts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].File != posts[0].Path || errs[1].File != posts[2].Path {
		t.Errorf("errors out of input order: %v", errs)
	}
	for _, e := range errs {
		if e.Field != FieldParsing || e.Message != "render exploded" {
			t.Errorf("unexpected error %+v", e)
		}
	}
	if !strings.HasPrefix(posts[1].HTML, "<p># Test Post") {
		t.Errorf("successful posts still get html, got %q", posts[1].HTML)
	}
	if renderer.Calls() != 3 {
		t.Errorf("Render calls = %d, want 3", renderer.Calls())
	}
}

func TestConvertCancelled(t *testing.T) {
	cfg := testutil.CreateSampleConfig()
	svc := NewPostService(cfg, mocks.NewMockRenderService(), quietLogger(), nil, afero.NewMemMapFs())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Convert(ctx, []models.Post{testutil.CreateSamplePost()}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	svc, _, _ := setupPostServiceTest(t, map[string]string{
		"content/blog/a.md": testutil.CreateMarkdown(testutil.PostSpec{ID: "a", Title: "A", Date: "2025-01-01"}),
	})
	paths, err := svc.Discover()
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := svc.Load(ctx, paths)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res != nil {
		t.Errorf("a cancelled load returns no result, got %+v", res)
	}
}

func TestLoadDraftsClaimIDs(t *testing.T) {
	svc, _, _ := setupPostServiceTest(t, map[string]string{
		"content/blog/a-draft.md": testutil.CreateMarkdown(testutil.PostSpec{ID: "shared", Title: "Draft", Date: "2025-01-01", Published: testutil.Bool(false)}),
		"content/blog/b-live.md":  testutil.CreateMarkdown(testutil.PostSpec{ID: "shared", Title: "Live", Date: "2025-01-02"}),
	})
	paths, _ := svc.Discover()
	res, err := svc.Load(context.Background(), paths)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(res.Errors) != 1 || res.Errors[0].File != "content/blog/b-live.md" || res.Errors[0].Field != FieldID {
		t.Errorf("a draft keeps its id against later published posts, errors = %v", res.Errors)
	}
}
