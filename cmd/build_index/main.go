package main

import (
	"context"
	"flag"
	"os"

	"github.com/fatih/color"

	"lingua-workbench-be/internal/config"
	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/internal/repository/implementation"
	"lingua-workbench-be/pkg/database"
	"lingua-workbench-be/pkg/dita"
	"lingua-workbench-be/pkg/embedding"
	"lingua-workbench-be/pkg/vectorindex"
)

// build_index rebuilds the documentation vector index from the DITA
// tree. Run it after editing docs, or with -clear to start from scratch.
func main() {
	clearFirst := flag.Bool("clear", false, "delete all indexed passages before rebuilding")
	docsRoot := flag.String("docs", "", "override the DITA docs root")
	flag.Parse()

	cfg := config.Load()
	if *docsRoot != "" {
		cfg.Docs.Root = *docsRoot
	}

	color.Cyan("Building documentation index from %s\n", cfg.Docs.Root)

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, false)
	defer sysLogger.Sync()

	repo := implementation.NewPassageEmbeddingRepository(db)
	index := vectorindex.NewIndex(repo, embeddingProvider, sysLogger)

	ctx := context.Background()

	if *clearFirst {
		color.Yellow("Clearing existing index...")
		if err := index.Clear(ctx); err != nil {
			color.Red("Failed to clear index: %v", err)
			os.Exit(1)
		}
	}

	chunker := dita.NewChunker(cfg.Docs.Root)
	report, err := chunker.ParseAll()
	if err != nil {
		color.Red("Failed to parse docs: %v", err)
		os.Exit(1)
	}

	color.Green("Parsed %d files: %d passages (%d files failed)", report.Files, len(report.Passages), report.Failed)
	for _, msg := range report.Errors {
		color.Yellow("  skipped: %s", msg)
	}

	indexed, err := index.Upsert(ctx, report.Passages)
	if err != nil {
		color.Red("Indexing stopped after %d passages: %v", indexed, err)
		os.Exit(1)
	}

	stats, err := index.Stats(ctx)
	if err != nil {
		color.Red("Failed to read index stats: %v", err)
		os.Exit(1)
	}

	color.Green("Indexed %d passages. Index now holds %d.", indexed, stats.Passages)
}
