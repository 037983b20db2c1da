// Package app wires the configured components into a running service.
// Both the API server and the CLI start from New.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"

	"sciingest/internal/config"
	"sciingest/internal/contextutil"
	"sciingest/internal/dedup"
	"sciingest/internal/handlers"
	apihttp "sciingest/internal/http"
	"sciingest/internal/indexer"
	"sciingest/internal/llm"
	"sciingest/internal/search"
	"sciingest/internal/service"
	"sciingest/internal/storage"
	"sciingest/internal/vectorstore"
)

// VectorStore is a vector backend that can report whether a collection exists.
type VectorStore interface {
	vectorstore.VectorStore
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

// App holds the wired components.
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Vectors  VectorStore
	Embedder *llm.Service
	Service  service.IngestService
	Files    *service.FileIngester

	closers []io.Closer
}

// New opens the database, connects the vector store, validates the
// embedding provider and builds the ingest service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := contextutil.LoggerFromContext(ctx)
	a := &App{Config: cfg}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, db)

	if err := storage.Migrate(db); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.InfoContext(ctx, "database initialized", "path", cfg.DBPath)

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Embedder = llm.NewService(provider, llm.ServiceConfig{
		BatchSize:         cfg.EmbeddingBatchSize,
		MaxRetries:        cfg.EmbeddingMaxRetries,
		BatchDelay:        cfg.EmbeddingBatchDelay,
		MaxInputChars:     cfg.EmbeddingMaxInputChars,
		MaxSplitDepth:     llm.DefaultServiceConfig().MaxSplitDepth,
		RequestsPerSecond: cfg.EmbeddingRequestsPerSecond,
	})

	vectors, err := a.openVectorStore(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Vectors = vectors
	if err := vectors.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingDimensions); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to ensure vector collection: %w", err)
	}
	logger.InfoContext(ctx, "vector collection ready",
		"store", cfg.VectorStore,
		"collection", cfg.QdrantCollection,
		"vector_size", cfg.EmbeddingDimensions,
	)

	chunks := storage.NewChunkRepo(db)
	runs := storage.NewRunRepo(db)
	detector := dedup.NewDetector(a.Embedder, chunks, 0)

	pipeline := indexer.NewPipeline(indexer.Deps{
		Chunks:     chunks,
		Documents:  storage.NewDocumentRepo(db),
		Runs:       runs,
		Embedder:   a.Embedder,
		Duplicates: detector,
		Vectors:    vectors,
		Collection: cfg.QdrantCollection,
		Profiles:   cfg.Profiles,
		DryRunDir:  cfg.DryRunDir,
	})

	a.Service = service.NewIngestService(service.Deps{
		Pipeline:   pipeline,
		Duplicates: detector,
		Search:     search.NewEngine(a.Embedder, vectors, cfg.QdrantCollection, chunks),
		Chunks:     chunks,
		Runs:       runs,
	})
	a.Files = service.NewFileIngester(a.Service, nil)

	return a, nil
}

// Router returns the HTTP API of the app.
func (a *App) Router() http.Handler {
	return apihttp.NewRouter(&apihttp.Deps{
		Service:     a.Service,
		Ingester:    a.Files,
		VectorStore: a.Vectors,
		DB:          a.DB,
		Collection:  a.Config.QdrantCollection,
		IngestDir:   a.Config.IngestDir,
		Defaults: handlers.Defaults{
			DryRun:    a.Config.DryRun,
			Threshold: a.Config.DuplicateThreshold,
		},
	})
}

// IngestOptions returns the default batch options with the configured
// dry-run mode and duplicate threshold.
func (a *App) IngestOptions() service.IngestOptions {
	opts := service.DefaultIngestOptions()
	opts.DryRun = a.Config.DryRun
	opts.SimilarityThreshold = a.Config.DuplicateThreshold
	return opts
}

// Close releases the vector store and the database, in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openVectorStore(cfg *config.Config) (VectorStore, error) {
	switch cfg.VectorStore {
	case config.VectorStoreMemory:
		return vectorstore.NewMemoryStore(), nil
	case config.VectorStorePGVector:
		store, err := vectorstore.NewPGVectorStore(cfg.PGVectorDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to pgvector: %w", err)
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
		}
		a.closers = append(a.closers, store)
		return store, nil
	}
}

// newProvider builds the embedding provider. The HTTP provider is probed
// once so a wrong EMBEDDING_DIMENSIONS fails at startup.
func newProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if cfg.EmbeddingProvider == config.ProviderHash {
		logger.WarnContext(ctx, "using hash embeddings; similarity is lexical only", "dimensions", cfg.EmbeddingDimensions)
		return llm.NewHashEmbedder(cfg.EmbeddingModelName, cfg.EmbeddingDimensions), nil
	}

	client := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingDimensions)
	vectors, err := client.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		return nil, fmt.Errorf("failed to validate embedding client: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) != cfg.EmbeddingDimensions {
		got := 0
		if len(vectors) > 0 {
			got = len(vectors[0])
		}
		return nil, fmt.Errorf("embedding vector size mismatch: expected %d, got %d", cfg.EmbeddingDimensions, got)
	}
	logger.InfoContext(ctx, "embedding client validated", "model", cfg.EmbeddingModelName, "vector_size", cfg.EmbeddingDimensions)
	return client, nil
}
