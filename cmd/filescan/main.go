package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mhr3/filescan/contents"
	"github.com/mhr3/filescan/internal/config"
	"github.com/mhr3/filescan/internal/loader"
	"github.com/mhr3/filescan/query"
	"github.com/mhr3/filescan/search"

	"github.com/urfave/cli/v2"
)

// errNoMatches makes the process exit with status 1, like grep.
var errNoMatches = cli.Exit("", 1)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "filescan",
		Usage:     "Search files for a literal pattern with optional wildcard terms",
		ArgsUsage: "QUERY",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Directory to search",
				Value:   ".",
			},
			&cli.StringSliceFlag{
				Name:    "include",
				Aliases: []string{"i"},
				Usage:   "Search files matching glob patterns (e.g., --include '**/*.go'), overrides config",
			},
			&cli.BoolFlag{
				Name:    "match-case",
				Aliases: []string{"c"},
				Usage:   "Case-sensitive matching",
			},
			&cli.StringFlag{
				Name:  "scope",
				Usage: "Where wildcard terms must occur: line or buffer",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Directory holding .filescan.kdl or .filescan.toml (default: root)",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of files loaded and searched concurrently",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Show debug logs",
			},
		},
		Action: run,
	}
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// loadConfigWithOverrides loads configuration and applies CLI flag overrides.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	dir := c.String("config")
	if dir == "" {
		dir = c.String("root")
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", dir, err)
	}

	if c.IsSet("match-case") {
		cfg.Search.MatchCase = c.Bool("match-case")
	}
	if c.IsSet("scope") {
		cfg.Search.Scope = c.String("scope")
	}
	if c.IsSet("workers") {
		cfg.Search.Workers = c.Int("workers")
	}
	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Files.Include = include
	}
	return cfg, cfg.Validate()
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one QUERY argument", 2)
	}

	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	q, err := query.Parse(c.Args().First(), search.Options{MatchCase: cfg.Search.MatchCase})
	if err != nil {
		return err
	}
	q.Scope = cfg.ScopeValue()

	req, err := contents.Compile(q, search.WithCheckInterval(cfg.Search.CheckIntervalBytes))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := c.String("root")
	paths, err := loader.Expand(root, cfg.Files.Include)
	if err != nil {
		return err
	}

	ldr, err := loader.New(
		loader.WithPoolSize(cfg.Search.Workers),
		loader.WithMaxFileSize(cfg.Files.MaxFileSize),
		loader.WithLogger(logger),
		loader.WithContentsOptions(
			contents.WithLogger(logger),
			contents.WithTextExtent(cfg.Search.MaxTextExtent),
		),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := ldr.Release(); err != nil {
			logger.Warn("releasing loader", slog.Any("err", err))
		}
	}()

	files, err := ldr.LoadAll(ctx, paths)
	if err != nil {
		return exitError(err)
	}
	logger.Debug("searching", slog.Int("files", len(files)), slog.String("query", c.Args().First()))

	bufs := make([]*contents.Contents, len(files))
	for i, f := range files {
		bufs[i] = f.Contents
	}
	results, err := contents.SearchFiles(ctx, bufs, req, cfg.Search.Workers)
	if err != nil {
		return exitError(err)
	}

	matches := 0
	for i, r := range results {
		if r.Err != nil || len(r.Spans) == 0 {
			continue
		}
		extracts, err := r.File.Extracts(r.Spans)
		if err != nil {
			logger.Warn("skipping file", slog.String("path", files[i].Path), slog.Any("err", err))
			continue
		}
		name := displayPath(root, files[i].Path)
		for _, e := range extracts {
			fmt.Fprintf(c.App.Writer, "%s:%d:%d: %s\n", name, e.Line+1, e.Column+1, e.Text)
		}
		matches += len(extracts)
	}

	if matches == 0 {
		return errNoMatches
	}
	return nil
}

// exitError turns an interruption during loading or searching into exit
// status 130.
func exitError(err error) error {
	if errors.Is(err, search.ErrCanceled) || errors.Is(err, context.Canceled) {
		return cli.Exit("interrupted", 130)
	}
	return err
}

func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
