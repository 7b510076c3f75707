package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/internal/watch"
)

// Watch rebuilds whenever a post under the content directory changes, until
// ctx is cancelled. onBuild runs after every successful rebuild.
func (b *Builder) Watch(ctx context.Context, onBuild func(*Result)) error {
	var mu sync.Mutex
	rebuild := func(ev watch.Event) {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(b.out, "\n⚡ Change detected in [%s]. Rebuilding...\n", ev.Name)
		res, err := b.Build(ctx)
		if b.report(res, err) == 0 && onBuild != nil {
			onBuild(res)
		}
	}

	w, err := watch.New([]string{b.cfg.ContentDir}, b.cfg.DebounceDuration, b.logger, rebuild)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	fmt.Fprintln(b.out, "👀 Watch mode active. Waiting for changes...")
	return w.Start(ctx)
}

// RunWatch performs an initial build and then watches for changes.
// A failing initial build does not stop the watcher.
func RunWatch(ctx context.Context, args []string) int {
	cfg, err := config.Load(args)
	if errors.Is(err, config.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	b, err := NewBuilder(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	defer func() { _ = b.Close() }()

	b.report(b.Build(ctx))
	if err := b.Watch(ctx, nil); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}
