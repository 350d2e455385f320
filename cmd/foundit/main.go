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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/foundit"
	"github.com/poiesic/foundit/ai"
	"github.com/poiesic/foundit/indexer"
)

func main() {
	app := &cli.App{
		Name:  "foundit",
		Usage: "Conversational search over your local files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory for the file index and caches",
				Value: "./foundit_data",
			},
			&cli.StringFlag{
				Name:  "ollama-host",
				Usage: "Ollama server URL",
				Value: "http://localhost:11434",
			},
			&cli.StringFlag{
				Name:  "ollama-model",
				Usage: "Ollama generation model",
				Value: "llama3.1:8b",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
				Value: "http://localhost:11434",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "embeddinggemma",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "index",
				Usage:     "Scan a directory into the file index",
				ArgsUsage: "<directory>",
				Action:    indexCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-read files even when unchanged",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Query the index directly, without LLM reasoning",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				},
			},
			{
				Name:      "chat",
				Usage:     "Ask for files conversationally; no argument starts an interactive session",
				ArgsUsage: "[message]",
				Action:    chatCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of files per answer",
						Value:   5,
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show index and provider status",
				Action: statusCommand,
			},
			{
				Name:   "clear",
				Usage:  "Drop the file index and all caches",
				Action: clearCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(ctx context.Context, c *cli.Context) (*foundit.App, error) {
	config := ai.NewConfig(
		ai.WithOllamaHost(c.String("ollama-host")),
		ai.WithOllamaModel(c.String("ollama-model")),
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	return foundit.New(ctx, c.String("data-dir"), foundit.WithAIConfig(config))
}

func indexCommand(c *cli.Context) error {
	root := c.Args().First()
	if root == "" {
		return fmt.Errorf("directory argument is required")
	}

	ctx := context.Background()
	app, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer app.Close()

	op, err := app.StartScan(ctx, root, c.Bool("force"), func(p indexer.Progress) error {
		fmt.Fprintf(os.Stderr, "\rScanning: %d/%d (%d%%)", p.Processed, p.Total, p.Percent)
		return nil
	})
	if err != nil {
		return err
	}

	stats, err := op.Wait()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("Scan %s: %d indexed, %d skipped, %d errors (%d files total)\n",
		stats.Status, stats.Indexed, stats.Skipped, stats.Errors, stats.Total)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	ctx := context.Background()
	app, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer app.Close()

	results, err := app.Search(ctx, query, c.Int("top-k"))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%2d. %s [%.3f] %s\n", i+1, r.FileName, r.Score, r.FilePath)
	}
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer app.Close()

	topK := c.Int("top-k")

	if message := strings.Join(c.Args().Slice(), " "); message != "" {
		return chatOnce(ctx, app, message, topK)
	}

	fmt.Println("Interactive session. Type 'exit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			break
		}
		if err := chatOnce(ctx, app, message, topK); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func chatOnce(ctx context.Context, app *foundit.App, message string, topK int) error {
	result, err := app.Chat(ctx, message, topK)
	if err != nil {
		return err
	}

	fmt.Println(result.Response)
	if len(result.Files) > 0 {
		fmt.Println()
		for _, f := range result.Files {
			fmt.Printf("   %s (%s)\n", f.FilePath, f.FileType)
		}
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer app.Close()

	status := app.Status(ctx)
	fmt.Printf("Indexed files:   %d\n", status.IndexedFiles)
	fmt.Printf("Index ready:     %t\n", status.IndexReady)
	if status.EmbeddingModel != "" {
		fmt.Printf("Embedding model: %s\n", status.EmbeddingModel)
	}
	if status.Provider != "" {
		fmt.Printf("LLM provider:    %s\n", status.Provider)
	} else {
		fmt.Println("LLM provider:    none reachable (degraded mode)")
	}
	return nil
}

func clearCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.ClearIndex(ctx); err != nil {
		return err
	}
	fmt.Println("Index cleared.")
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
