package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kush-Singh-26/folio/builder/run"
	"github.com/Kush-Singh-26/folio/internal/clean"
	"github.com/Kush-Singh-26/folio/internal/new"
	"github.com/Kush-Singh-26/folio/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]
	args := os.Args[2:]

	var code int
	switch command {
	case "build":
		code = run.Run(ctx, args)
	case "watch":
		code = run.RunWatch(ctx, args)
	case "serve":
		code = server.Run(ctx, args)
	case "new":
		code = new.Run(args)
	case "clean":
		code = clean.Run(args)
	case "cache":
		code = handleCacheCommand(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		code = 1
	}
	stop()
	os.Exit(code)
}

func printUsage() {
	fmt.Println("Usage: folio <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  build          Generate blog-posts.json, blog-metadata.json and ogp-data.json")
	fmt.Println("  watch          Build, then rebuild whenever a post changes")
	fmt.Println("  serve          Build, watch and serve the artifacts with a JSON API")
	fmt.Println("  new <title>    Create a new blog post")
	fmt.Println("  clean          Remove generated artifacts (--cache also removes the cache)")
	fmt.Println("  cache          Inspect or clear the build cache")
	fmt.Println("  help           Show this help message")
	fmt.Println("\nRun 'folio build --help' for build flags.")
}
