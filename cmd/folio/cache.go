package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Kush-Singh-26/folio/builder/cache"
	"github.com/Kush-Singh-26/folio/builder/config"
)

// handleCacheCommand processes cache-related subcommands
func handleCacheCommand(args []string) int {
	if len(args) < 1 {
		printCacheUsage()
		return 1
	}

	cfg, err := config.Load(args[1:])
	if errors.Is(err, config.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	if cfg.CacheDir == "" {
		fmt.Fprintln(os.Stderr, "❌ Cache is disabled (cacheDir is empty)")
		return 1
	}

	switch args[0] {
	case "stats":
		return withCache(cfg.CacheDir, cacheStats)
	case "prune":
		return withCache(cfg.CacheDir, cachePrune)
	case "clear":
		return withCache(cfg.CacheDir, cacheClear)
	default:
		fmt.Printf("Unknown cache subcommand: %s\n", args[0])
		printCacheUsage()
		return 1
	}
}

func printCacheUsage() {
	fmt.Println("Usage: folio cache <subcommand> [flags]")
	fmt.Println("\nSubcommands:")
	fmt.Println("  stats          Show cache statistics")
	fmt.Println("  prune          Drop expired link previews")
	fmt.Println("  clear          Delete cached link previews and rendered html")
}

func withCache(dir string, fn func(*cache.Manager) error) int {
	cm, err := cache.Open(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to open cache: %v\n", err)
		return 1
	}
	defer func() { _ = cm.Close() }()

	if err := fn(cm); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}

func cacheStats(cm *cache.Manager) error {
	stats, err := cm.Stats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Println("📊 Cache Statistics")
	fmt.Println("════════════════════════════════════════")
	fmt.Printf("Location:        %s\n", cm.BasePath())
	fmt.Printf("Schema Version:  %d\n", cache.SchemaVersion)
	fmt.Printf("Link Previews:   %d\n", stats.OGPEntries)
	fmt.Printf("Rendered Posts:  %d\n", stats.HTMLEntries)
	fmt.Printf("Build Count:     %d\n", stats.BuildCount)
	if stats.LastBuild.IsZero() {
		fmt.Printf("Last Build:      never\n")
	} else {
		fmt.Printf("Last Build:      %s\n", stats.LastBuild.Format(time.RFC3339))
	}
	return nil
}

func cachePrune(cm *cache.Manager) error {
	n, err := cm.PruneOGP(time.Now())
	if err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}
	fmt.Printf("🗑️  Removed %d expired link previews\n", n)
	return nil
}

func cacheClear(cm *cache.Manager) error {
	fmt.Println("🗑️  Clearing all cache data...")
	if err := cm.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Println("✅ Cache cleared")
	return nil
}
