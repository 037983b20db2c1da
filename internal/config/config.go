package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"sciingest/internal/indexer"
)

// Embedding providers.
const (
	ProviderHTTP = "http"
	ProviderHash = "hash"
)

// Vector store backends.
const (
	VectorStoreQdrant   = "qdrant"
	VectorStoreMemory   = "memory"
	VectorStorePGVector = "pgvector"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	DBPath    string
	LogLevel  slog.Level
	LogFormat string

	EmbeddingProvider          string
	EmbeddingBaseURL           string
	EmbeddingAPIKey            string
	EmbeddingModelName         string
	EmbeddingDimensions        int
	EmbeddingBatchSize         int
	EmbeddingMaxRetries        int
	EmbeddingBatchDelay        time.Duration
	EmbeddingRequestsPerSecond float64
	EmbeddingMaxInputChars     int

	VectorStore      string
	QdrantURL        string
	QdrantCollection string
	PGVectorDSN      string

	DuplicateThreshold float64
	DryRun             bool
	DryRunDir          string
	IngestDir          string
	AutoLoadArticles   bool
	ArticlesJSONFile   string

	ProfilesFile string
	// Profiles are the chunking profiles, overridden by ProfilesFile when set.
	Profiles indexer.Profiles
}

// ArticlesPath is the file loaded at startup when AutoLoadArticles is set.
func (c *Config) ArticlesPath() string {
	if filepath.IsAbs(c.ArticlesJSONFile) {
		return c.ArticlesJSONFile
	}
	return filepath.Join(c.IngestDir, c.ArticlesJSONFile)
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent directory, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "9000"),
		DBPath:             getEnv("DB_PATH", "./data/sciingest.db"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		EmbeddingProvider:  strings.ToLower(getEnv("EMBEDDING_PROVIDER", ProviderHTTP)),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", ""),
		VectorStore:        strings.ToLower(getEnv("VECTOR_STORE", VectorStoreQdrant)),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "scientific_chunks"),
		PGVectorDSN:        getEnv("PGVECTOR_DSN", ""),
		DryRunDir:          getEnv("DRY_RUN_DIR", "dry_run"),
		IngestDir:          getEnv("INGEST_DIR", "./data/ingest"),
		ArticlesJSONFile:   getEnv("ARTICLES_JSON_FILE", "articles.json"),
		ProfilesFile:       getEnv("INGEST_PROFILES_FILE", ""),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	switch cfg.EmbeddingProvider {
	case ProviderHTTP, ProviderHash:
	default:
		return nil, fmt.Errorf("EMBEDDING_PROVIDER must be http or hash, got %q", cfg.EmbeddingProvider)
	}

	// An empty model name lets the hash provider report its own.
	defaultModel := "text-embedding-3-small"
	if cfg.EmbeddingProvider == ProviderHash {
		defaultModel = ""
	}
	cfg.EmbeddingModelName = getEnv("EMBEDDING_MODEL_NAME", defaultModel)

	// EMBEDDING_DIMENSIONS must match the output size of the embedding model
	// and the vector size of an existing collection.
	defaultDims := ""
	if cfg.EmbeddingProvider == ProviderHash {
		defaultDims = "384"
	}
	dimsStr := getEnv("EMBEDDING_DIMENSIONS", defaultDims)
	if dimsStr == "" {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS is required")
	}
	if cfg.EmbeddingDimensions, err = strconv.Atoi(dimsStr); err != nil {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS must be a valid integer: %w", err)
	}
	if cfg.EmbeddingDimensions <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS must be greater than 0")
	}

	if cfg.EmbeddingBatchSize, err = getEnvInt("EMBEDDING_BATCH_SIZE", 64); err != nil {
		return nil, err
	}
	if cfg.EmbeddingMaxRetries, err = getEnvInt("EMBEDDING_MAX_RETRIES", 5); err != nil {
		return nil, err
	}
	delayMS, err := getEnvInt("EMBEDDING_BATCH_DELAY_MS", 0)
	if err != nil {
		return nil, err
	}
	cfg.EmbeddingBatchDelay = time.Duration(delayMS) * time.Millisecond
	if cfg.EmbeddingRequestsPerSecond, err = getEnvFloat("EMBEDDING_REQUESTS_PER_SECOND", 0); err != nil {
		return nil, err
	}
	if cfg.EmbeddingMaxInputChars, err = getEnvInt("EMBEDDING_MAX_INPUT_CHARS", 8000); err != nil {
		return nil, err
	}

	switch cfg.VectorStore {
	case VectorStoreQdrant, VectorStoreMemory:
	case VectorStorePGVector:
		if cfg.PGVectorDSN == "" {
			return nil, fmt.Errorf("PGVECTOR_DSN is required when VECTOR_STORE=pgvector")
		}
	default:
		return nil, fmt.Errorf("VECTOR_STORE must be qdrant, memory or pgvector, got %q", cfg.VectorStore)
	}

	if cfg.DuplicateThreshold, err = getEnvFloat("DUPLICATE_THRESHOLD", 0.95); err != nil {
		return nil, err
	}
	if cfg.DuplicateThreshold < 0 || cfg.DuplicateThreshold > 1.01 {
		return nil, fmt.Errorf("DUPLICATE_THRESHOLD must be between 0 and 1.01, got %g", cfg.DuplicateThreshold)
	}
	if cfg.DryRun, err = getEnvBool("DRY_RUN", false); err != nil {
		return nil, err
	}
	if cfg.AutoLoadArticles, err = getEnvBool("AUTO_LOAD_ARTICLES", false); err != nil {
		return nil, err
	}

	if cfg.Profiles, err = LoadProfiles(cfg.ProfilesFile); err != nil {
		return nil, err
	}

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads .env from the working directory, then from the nearest
// parent directory that has one.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// NewLogger builds the process logger for the configured level and format.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}
