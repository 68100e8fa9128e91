// Copyright 2025 Poiesic Systems
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/versecontext"
	"github.com/poiesic/versecontext/ai"
	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/indexing"
	"github.com/poiesic/versecontext/refparse"
	"github.com/poiesic/versecontext/retrieval"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "versecontext",
		Usage:  "Scripture context retrieval and ranking",
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
				Name:      "retrieve",
				Usage:     "Retrieve verse contexts for a query",
				ArgsUsage: "QUERY",
				Action:    retrieveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "translation",
						Usage: "Translation code",
						Value: retrieval.DefaultTranslation,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible API host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "API credential (empty for local services)",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringSliceFlag{
						Name:  "completion-model",
						Usage: "Chat model for reference suggestions (repeatable, tried in order)",
						Value: cli.NewStringSlice("qwen2.5:3b"),
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Load verses and cross-references into the corpus",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "verses",
						Usage: "Path to JSON verse file",
					},
					&cli.StringFlag{
						Name:  "crossrefs",
						Usage: "Path to JSON cross-reference file",
					},
					&cli.StringFlag{
						Name:  "translation",
						Usage: "Translation code applied to verses without one",
						Value: retrieval.DefaultTranslation,
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Embed every unembedded verse of a translation",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "translation",
						Usage: "Translation code",
						Value: retrieval.DefaultTranslation,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "API credential (empty for local services)",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of verses to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N verses",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches embedded concurrently",
						Value: 2,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func retrieveCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithCompletionModels(c.StringSlice("completion-model")...),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	lib, err := versecontext.NewLibrary(c.String("db"), versecontext.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	retriever, err := lib.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	result, err := retriever.Retrieve(context.Background(), retrieval.Request{
		Query:       query,
		Translation: c.String("translation"),
	})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	fmt.Printf("Found %d verses (%s)\n", len(result.Verses), result.Strategy)
	for _, vc := range result.Verses {
		marker := " "
		if vc.IsCrossReference {
			marker = "x"
		}
		fmt.Printf("%s %s (%s): %s\n", marker, vc.Reference, vc.Translation, vc.Text)
		for _, word := range vc.Original {
			fmt.Printf("    %s [%s] %s\n", word.Word, word.StrongsID, word.Gloss)
		}
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	versesPath := c.String("verses")
	crossRefsPath := c.String("crossrefs")
	if versesPath == "" && crossRefsPath == "" {
		return fmt.Errorf("at least one of --verses and --crossrefs is required")
	}

	lib, err := versecontext.NewLibrary(c.String("db"), versecontext.WithoutCache())
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	if versesPath != "" {
		verses, err := loadVerses(versesPath, c.String("translation"))
		if err != nil {
			return fmt.Errorf("failed to load verses: %w", err)
		}
		if err := lib.VerseRepository().AddVerses(ctx, verses...); err != nil {
			return fmt.Errorf("failed to store verses: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Stored %d verses\n", len(verses))
	}

	if crossRefsPath != "" {
		edges, err := loadEdges(crossRefsPath)
		if err != nil {
			return fmt.Errorf("failed to load cross-references: %w", err)
		}
		if err := lib.CrossRefRepository().AddEdges(ctx, edges...); err != nil {
			return fmt.Errorf("failed to store cross-references: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Stored %d cross-references\n", len(edges))
	}

	return nil
}

func indexCommand(c *cli.Context) error {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	indexConfig := &indexing.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Workers:        c.Int("workers"),
	}
	if indexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if indexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if indexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	lib, err := versecontext.NewLibrary(c.String("db"),
		versecontext.WithAIConfig(aiConfig), versecontext.WithoutCache())
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	indexer, err := lib.NewIndexer(indexConfig, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer indexer.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := indexer.Run(context.Background(), c.String("translation")); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	return nil
}

// verseRow is the seed file's verse shape. References use human-readable
// form ("Genesis 1:1") or canonical codes ("GEN 1:1").
type verseRow struct {
	Reference   string `json:"reference"`
	Translation string `json:"translation,omitempty"`
	Text        string `json:"text"`
}

// edgeRow is the seed file's cross-reference shape.
type edgeRow struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float32 `json:"weight"`
}

func loadVerses(path, defaultTranslation string) ([]*core.Verse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []verseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	verses := make([]*core.Verse, 0, len(rows))
	for _, row := range rows {
		ref, ok := refparse.Parse(row.Reference)
		if !ok {
			return nil, fmt.Errorf("unparseable reference %q", row.Reference)
		}
		translation := row.Translation
		if translation == "" {
			translation = defaultTranslation
		}
		verses = append(verses, &core.Verse{
			Ref:         ref,
			Translation: translation,
			Text:        row.Text,
		})
	}
	return verses, nil
}

func loadEdges(path string) ([]core.CrossRefEdge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []edgeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	edges := make([]core.CrossRefEdge, 0, len(rows))
	for _, row := range rows {
		source, ok := refparse.Parse(row.Source)
		if !ok {
			return nil, fmt.Errorf("unparseable source reference %q", row.Source)
		}
		target, ok := refparse.Parse(row.Target)
		if !ok {
			return nil, fmt.Errorf("unparseable target reference %q", row.Target)
		}
		edges = append(edges, core.CrossRefEdge{Source: source, Target: target, Weight: row.Weight})
	}
	return edges, nil
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
