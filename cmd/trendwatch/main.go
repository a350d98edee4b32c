// Copyright 2025 Halcyon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/halcyon/trendwatch"
	"github.com/halcyon/trendwatch/ai"
	"github.com/halcyon/trendwatch/ai/openai"
	"github.com/halcyon/trendwatch/config"
	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/reindex"
	"github.com/halcyon/trendwatch/search"
	"github.com/halcyon/trendwatch/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "trendwatch",
		Usage: "AI ecosystem signal tracker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "trendwatch.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Run one ingestion cycle: fetch, score, persist and index",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite existing records instead of preserving their score",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from the indexed signals",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "deep",
						Usage: "Use the deep analysis prompt",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of context snippets to retrieve",
						Value:   8,
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Export the current window as markdown or JSON",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (markdown, json)",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to stdout)",
					},
				},
			},
			{
				Name:   "watch",
				Usage:  "Run ingestion cycles on the configured cron schedule",
				Action: watchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "now",
						Usage: "Run one cycle immediately before scheduling",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every index entry with the current embedding model",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (overrides config)",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name (overrides config)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entries",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openTracker(c *cli.Context) (*trendwatch.Tracker, error) {
	cfg := config.Load(c.String("config"))
	return trendwatch.NewTracker(cfg)
}

func ingestCommand(c *cli.Context) error {
	ctx := signalContext()

	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	p, err := tracker.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer p.Release()

	run := p.RunCycle
	if c.Bool("force") {
		run = p.RunForcedCycle
	}

	summary, err := run(ctx)
	if err != nil {
		return fmt.Errorf("ingestion cycle failed: %w", err)
	}

	printSummary(summary)
	return nil
}

func printSummary(summary *core.CycleSummary) {
	fmt.Printf("Fetched:    %d\n", summary.Fetched)
	fmt.Printf("Duplicates: %d\n", summary.Duplicates)
	fmt.Printf("Invalid:    %d\n", summary.Invalid)
	fmt.Printf("Filtered:   %d\n", summary.Filtered)
	fmt.Printf("Admitted:   %d\n", summary.Admitted)
	fmt.Printf("Archived:   %d\n", summary.Archived)
	fmt.Printf("Indexed:    %d\n", summary.Indexed)
	fmt.Printf("Breaking:   %d\n", summary.BreakingCount)
	for name, msg := range summary.SourceFailures {
		fmt.Printf("Source %s failed: %s\n", name, msg)
	}
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	ctx := signalContext()

	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	engine, err := tracker.NewEngine(search.WithTopK(c.Int("top-k")))
	if err != nil {
		return fmt.Errorf("failed to build query engine: %w", err)
	}

	mode := ai.ModeStandard
	if c.Bool("deep") {
		mode = ai.ModeDeep
	}

	answer, err := engine.Answer(ctx, question, mode)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

func exportCommand(c *cli.Context) error {
	ctx := signalContext()

	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	exporter, err := tracker.NewExporter()
	if err != nil {
		return err
	}

	var data []byte
	switch format := c.String("format"); format {
	case "markdown", "md":
		doc, err := exporter.Markdown(ctx)
		if err != nil {
			return fmt.Errorf("markdown export failed: %w", err)
		}
		data = []byte(doc)
	case "json":
		data, err = exporter.JSON(ctx)
		if err != nil {
			return fmt.Errorf("JSON export failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q: must be markdown or json", format)
	}

	output := c.String("output")
	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported %d bytes to %s\n", len(data), output)
	return nil
}

func watchCommand(c *cli.Context) error {
	ctx := signalContext()

	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	p, err := tracker.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer p.Release()

	service, err := tracker.NewScheduler(p)
	if err != nil {
		return fmt.Errorf("failed to build scheduler: %w", err)
	}

	if c.Bool("now") {
		summary, err := service.RunNow(ctx)
		if err != nil {
			slog.Error("initial cycle failed", "err", err)
		} else {
			printSummary(summary)
		}
	}

	if err := service.Start(ctx); err != nil {
		return err
	}
	defer service.Stop()

	<-ctx.Done()
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := signalContext()

	cfg := config.Load(c.String("config"))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The reindex path opens the backend directly: no generator and no
	// source adapters are needed to rewrite vectors.
	backend, err := badger.OpenBackend(filepath.Join(cfg.DataDir, "db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	aiOpts := make([]ai.ConfigOption, 0, 2)
	if host := c.String("embedding-host"); host != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingHost(host))
	} else if cfg.AI.EmbeddingHost != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingHost(cfg.AI.EmbeddingHost))
	} else if cfg.AI.Host != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingHost(cfg.AI.Host))
	}
	if model := c.String("embedding-model"); model != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingModel(model))
	} else if cfg.AI.EmbeddingModel != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingModel(cfg.AI.EmbeddingModel))
	}

	aiConfig := ai.NewConfig(aiOpts...)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer, err := reindex.NewReindexer(badger.NewVectorIndex(backend), embedder, reindexConfig, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", filepath.Join(cfg.DataDir, "db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", aiConfig.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", aiConfig.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
