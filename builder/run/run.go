package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/models"
)

// Run executes a single build and returns the process exit code.
func Run(ctx context.Context, args []string) int {
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
	defer func() {
		if err := b.Close(); err != nil {
			b.logger.Warn("failed to close cache", "error", err)
		}
	}()

	return b.report(b.Build(ctx))
}

// report prints the outcome of a build and maps it to an exit code.
func (b *Builder) report(res *Result, err error) int {
	if err != nil {
		if res != nil && len(res.Errors) > 0 {
			PrintReport(os.Stderr, res.Errors)
		}
		if !errors.Is(err, ErrValidation) {
			fmt.Fprintf(os.Stderr, "❌ Build failed: %v\n", err)
		}
		return 1
	}
	fmt.Fprint(b.out, res.Metrics.String())
	return 0
}

// PrintReport writes one line per validation error followed by the total.
func PrintReport(w io.Writer, errs []models.ValidationError) {
	for _, e := range errs {
		fmt.Fprintf(w, "   %s\n", e.String())
	}
	fmt.Fprintf(w, "❌ %d validation error(s)\n", len(errs))
}
