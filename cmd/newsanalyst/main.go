// Copyright 2026 Pressline Media
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pressline/newsanalyst"
	"github.com/pressline/newsanalyst/ai"
	"github.com/pressline/newsanalyst/ai/openai"
	"github.com/pressline/newsanalyst/core"
	"github.com/pressline/newsanalyst/corpus"
	"github.com/pressline/newsanalyst/ingest"
	"github.com/pressline/newsanalyst/reembed"
	"github.com/urfave/cli/v2"
)

// Default news feeds, matching the sources the corpus was built for.
var defaultSources = []string{
	"mit=https://www.technologyreview.com/feed/",
	"techmeme=https://www.techmeme.com/feed.xml",
}

func main() {
	app := &cli.App{
		Name:  "newsanalyst",
		Usage: "News question answering over an incrementally updated corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Fetch news sources and add unseen articles to the corpus",
				Action: ingestCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.StringSliceFlag{
						Name:  "source",
						Usage: "News source as name=feed-url (repeatable)",
					},
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Re-run ingestion on this interval; run once when zero",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent source fetches",
						Value: 4,
					})...),
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from the corpus or general knowledge",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.BoolFlag{
						Name:  "model-router",
						Usage: "Route with the generation model instead of keyword rules",
					},
					&cli.Int64Flag{
						Name:  "daily-limit",
						Usage: "Daily budget in units",
						Value: 0,
					})...),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for every stored record",
				Action: reembedCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
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
					})...),
			},
			{
				Name:   "browse",
				Usage:  "Print every stored record",
				Action: browseCommand,
				Flags:  append(storeFlags(), aiFlags()...),
			},
			{
				Name:   "usage",
				Usage:  "Show today's budget consumption",
				Action: usageCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.Int64Flag{
						Name:  "daily-limit",
						Usage: "Daily budget in units",
						Value: 0,
					})...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Corpus backend (badger, pgvector, milvus)",
			Value: string(corpus.BackendBadger),
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "./data/corpus",
		},
		&cli.StringFlag{
			Name:  "dsn",
			Usage: "PostgreSQL connection string (pgvector backend)",
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "Milvus server address (milvus backend)",
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Table or collection name",
			Value: "news_articles",
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Embedding vector dimension",
			Value: 1536,
		},
		&cli.StringFlag{
			Name:  "ledger",
			Usage: "Path to the quota ledger directory (remote backends only)",
			Value: newsanalyst.DefaultLedgerPath,
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "generation-model",
			Usage: "Generation model name",
			Value: "gpt-4o-mini",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "API token for the AI service",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
	}
}

func storeConfig(c *cli.Context) *corpus.Config {
	return corpus.NewConfig(
		corpus.WithBackend(corpus.BackendKind(c.String("backend"))),
		corpus.WithPath(c.String("db")),
		corpus.WithDSN(c.String("dsn")),
		corpus.WithAddress(c.String("address")),
		corpus.WithCollection(c.String("collection")),
		corpus.WithDimension(c.Int("dimension")),
	)
}

func aiConfig(c *cli.Context) *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGenerationModel(c.String("generation-model")),
	}
	if token := c.String("token"); token != "" {
		opts = append(opts, ai.WithToken(token))
	}
	return ai.NewConfig(opts...)
}

func openAnalyst(c *cli.Context, extra ...newsanalyst.AnalystOption) (*newsanalyst.Analyst, error) {
	opts := append([]newsanalyst.AnalystOption{
		newsanalyst.WithStoreConfig(storeConfig(c)),
		newsanalyst.WithAIConfig(aiConfig(c)),
		newsanalyst.WithLedgerPath(c.String("ledger")),
	}, extra...)
	return newsanalyst.New(c.Context, opts...)
}

func parseSources(specs []string) ([]ingest.Fetcher, error) {
	if len(specs) == 0 {
		specs = defaultSources
	}

	sources := make([]ingest.Fetcher, 0, len(specs))
	for _, spec := range specs {
		name, url, found := strings.Cut(spec, "=")
		if !found || name == "" || url == "" {
			return nil, fmt.Errorf("invalid source %q: expected name=feed-url", spec)
		}
		sources = append(sources, ingest.NewRSSFetcher(name, url))
	}
	return sources, nil
}

func ingestCommand(c *cli.Context) error {
	analyst, err := openAnalyst(c)
	if err != nil {
		return fmt.Errorf("failed to open analyst: %w", err)
	}
	defer analyst.Close()

	sources, err := parseSources(c.StringSlice("source"))
	if err != nil {
		return err
	}

	pipeline, err := analyst.NewIngestionPipeline(sources,
		ingest.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	interval := c.Duration("interval")
	for {
		report := pipeline.Run(c.Context)
		printReport(report)

		if interval <= 0 {
			if report.Status == ingest.StatusFailed {
				return report.Err
			}
			return nil
		}

		select {
		case <-time.After(interval):
		case <-c.Context.Done():
			return c.Context.Err()
		}
	}
}

func printReport(report *ingest.Report) {
	fmt.Printf("status: %s\n", report.Status)
	fmt.Printf("total articles: %d, new articles: %d, new chunks: %d\n",
		report.TotalArticles, report.NewArticles, report.NewChunks)
	for name, result := range report.Sources {
		if result.Err != nil {
			fmt.Printf("  %s: failed (%v)\n", name, result.Err)
			continue
		}
		fmt.Printf("  %s: %d fetched, %d new\n", name, result.Fetched, result.New)
	}
	if report.Err != nil {
		fmt.Printf("error: %v\n", report.Err)
	}
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	var extra []newsanalyst.AnalystOption
	if c.Bool("model-router") {
		extra = append(extra, newsanalyst.WithModelRouter())
	}
	if limit := c.Int64("daily-limit"); limit > 0 {
		extra = append(extra, newsanalyst.WithDailyLimit(limit))
	}

	analyst, err := openAnalyst(c, extra...)
	if err != nil {
		return fmt.Errorf("failed to open analyst: %w", err)
	}
	defer analyst.Close()

	result, err := analyst.Ask(c.Context, question)
	if err != nil {
		return err
	}

	fmt.Printf("route: %s\n\n%s\n", result.Route, result.Answer)
	return nil
}

func reembedCommand(c *cli.Context) error {
	store, err := newsanalyst.OpenStore(c.Context, storeConfig(c))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	embedder, err := openai.NewEmbedder(aiConfig(c))
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := reembed.NewReembedder(store, embedder, reembedConfig, os.Stderr)
	if err != nil {
		return err
	}

	if err := reembedder.Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func browseCommand(c *cli.Context) error {
	analyst, err := openAnalyst(c)
	if err != nil {
		return fmt.Errorf("failed to open analyst: %w", err)
	}
	defer analyst.Close()

	records, err := analyst.Browse(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("%d records\n", len(records))
	for _, record := range records {
		fmt.Printf("\n[%s] %s\n", record.Metadata[core.MetaSource], record.Metadata[core.MetaTitle])
		fmt.Printf("  %s (%s)\n", record.Link(), record.Metadata[core.MetaPubDate])
		fmt.Printf("  %s\n", record.Text)
	}
	return nil
}

func usageCommand(c *cli.Context) error {
	var extra []newsanalyst.AnalystOption
	if limit := c.Int64("daily-limit"); limit > 0 {
		extra = append(extra, newsanalyst.WithDailyLimit(limit))
	}

	analyst, err := openAnalyst(c, extra...)
	if err != nil {
		return fmt.Errorf("failed to open analyst: %w", err)
	}
	defer analyst.Close()

	snapshot, err := analyst.Usage(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("day: %s\n", snapshot.Day)
	fmt.Printf("daily limit: %d\n", snapshot.Limit)
	fmt.Printf("used today: %d\n", snapshot.Used)
	fmt.Printf("remaining today: %d\n", snapshot.Remaining)
	return nil
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
