package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/metadata"
	"github.com/Kush-Singh-26/folio/builder/run"
)

// Server exposes the generated artifacts and a read-only JSON API over them.
type Server struct {
	cfg      *config.Config
	fs       afero.Fs
	logger   *slog.Logger
	snapshot *metadata.Cache[*Snapshot]
	reload   *hub
}

// New creates a server reading artifacts from cfg.OutputDir on fs.
func New(cfg *config.Config, fs afero.Fs, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		fs:     fs,
		logger: logger,
		reload: newHub(),
	}
	s.snapshot = metadata.NewCache(cfg.MetadataCacheTTL, func() (*Snapshot, error) {
		return LoadSnapshot(fs, cfg.OutputDir)
	})
	return s
}

// Invalidate drops the cached snapshot and tells connected browsers to reload.
func (s *Server) Invalidate() {
	s.snapshot.Invalidate()
	s.reload.broadcast()
}

// Handler returns the route table. Everything except /events is gzip-compressed.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/blog/posts", s.handlePosts)
	mux.HandleFunc("GET /api/blog/posts/{id}", s.handlePost)
	mux.HandleFunc("GET /api/blog/metadata", s.handleMetadata)
	mux.HandleFunc("GET /api/ogp", s.handleOGP)
	mux.Handle("GET /", noStore(http.FileServer(afero.NewHttpFs(s.fs).Dir(s.cfg.OutputDir))))

	// The event stream stays outside the gzip wrapper so flushes reach the client.
	root := http.NewServeMux()
	root.HandleFunc("GET /events", s.reload.serveSSE)
	root.Handle("/", gzhttp.GzipHandler(mux))
	return root
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		next.ServeHTTP(w, r)
	})
}

// Run builds once, then serves the artifacts and rebuilds on content changes.
func Run(ctx context.Context, args []string) int {
	cfg, err := config.Load(args)
	if errors.Is(err, config.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	b, err := run.NewBuilder(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	defer func() { _ = b.Close() }()

	if res, err := b.Build(ctx); err != nil {
		if res != nil && len(res.Errors) > 0 {
			run.PrintReport(os.Stderr, res.Errors)
		}
		fmt.Println("⚠️ Initial build failed; serving previous artifacts until the next successful build.")
	}

	srv := New(cfg, b.DestFs, b.Logger())
	go func() {
		if err := b.Watch(ctx, func(*run.Result) { srv.Invalidate() }); err != nil {
			b.Logger().Error("watcher stopped", "error", err)
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		fmt.Println("\n🛑 Shutting down server...")
		srv.reload.close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			b.Logger().Error("http server shutdown failed", "error", err)
		}
	}()

	fmt.Printf("🌐 Serving on http://%s\n", cfg.Addr)
	fmt.Println("   (Auto-reload enabled via /events)")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	fmt.Println("✅ Server stopped.")
	return 0
}
