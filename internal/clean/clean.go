package clean

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/services"
)

// Result lists what a clean removed.
type Result struct {
	Removed []string
}

// Artifacts removes the generated JSON files (and any staged leftovers) from
// outputDir. The directory itself is left in place.
func Artifacts(afs afero.Fs, outputDir string) (*Result, error) {
	res := &Result{}
	names := []string{services.PostsFile, services.MetadataFile, services.OGPFile}
	for _, name := range names {
		path := filepath.Join(outputDir, name)
		if err := afs.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return res, fmt.Errorf("remove %s: %w", path, err)
		}
		res.Removed = append(res.Removed, path)
	}

	// Temp files left behind by an interrupted atomic write.
	for _, name := range names {
		staged, err := afero.Glob(afs, filepath.Join(outputDir, "."+name+".tmp-*"))
		if err != nil {
			return res, err
		}
		for _, path := range staged {
			if err := afs.Remove(path); err == nil {
				res.Removed = append(res.Removed, path)
			}
		}
	}
	return res, nil
}

// Cache removes the cache directory entirely.
func Cache(afs afero.Fs, cacheDir string) (bool, error) {
	if cacheDir == "" {
		return false, nil
	}
	exists, err := afero.DirExists(afs, cacheDir)
	if err != nil || !exists {
		return false, err
	}
	if err := afs.RemoveAll(cacheDir); err != nil {
		return false, fmt.Errorf("remove %s: %w", cacheDir, err)
	}
	return true, nil
}

// Run removes generated artifacts and, with --cache, the cache directory.
func Run(args []string) int {
	start := time.Now()

	var opts struct {
		Cache bool `long:"cache" description:"Also remove the cache directory"`
	}
	// Everything this parser does not know is handed to config.Load.
	rest, err := flags.NewParser(&opts, flags.IgnoreUnknown).ParseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	cfg, err := config.Load(rest)
	if errors.Is(err, config.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	osFs := afero.NewOsFs()
	res, err := Artifacts(osFs, cfg.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	for _, path := range res.Removed {
		fmt.Printf("🧹 Removed %s\n", path)
	}

	if opts.Cache {
		removed, err := Cache(osFs, cfg.CacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return 1
		}
		if removed {
			fmt.Printf("🧹 Removed cache %s\n", cfg.CacheDir)
		}
	}

	fmt.Printf("🧹 Clean finished in %v.\n", time.Since(start).Round(time.Millisecond))
	return 0
}
