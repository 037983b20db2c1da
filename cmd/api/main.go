package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"sciingest/internal/app"
	"sciingest/internal/config"
	"sciingest/internal/contextutil"
	"sciingest/internal/source"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API ingests scientific articles and extracted PDF text into tagged, embedded
// and de-duplicated chunks, and serves chunk search and maintenance.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Scientific Ingestion API
//   description: |
//     Chunking, tagging, embedding and near-duplicate detection for scientific articles and PDF text.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	ctx := contextutil.WithLogger(context.Background(), logger)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	router := a.Router()

	// Load the articles file in background after router is ready
	if cfg.AutoLoadArticles {
		go func() {
			path := cfg.ArticlesPath()
			slog.Info("Auto-loading articles", "path", path)
			res, err := a.Files.IngestPath(ctx, path, a.IngestOptions())
			switch {
			case errors.Is(err, os.ErrNotExist), errors.Is(err, source.ErrEmptyFile):
				slog.Warn("No articles to auto-load", "path", path, "error", err)
			case err != nil:
				slog.Error("Auto-load failed", "path", path, "error", err)
			default:
				slog.Info("Auto-load completed",
					"documents", res.TotalDocuments,
					"chunks_created", res.TotalChunksCreated,
					"duplicates_skipped", res.DuplicatesSkipped,
				)
			}
		}()
	}

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr, "vector_store", cfg.VectorStore, "dry_run", cfg.DryRun)
	slog.Debug("Embedding configuration", "provider", cfg.EmbeddingProvider, "base_url", cfg.EmbeddingBaseURL, "model", cfg.EmbeddingModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
