package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks sciingest/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// GetByKey gets a document by source key.
	// Returns nil and ErrNotFound if not found.
	GetByKey(ctx context.Context, sourceKey string) (*Document, error)
	// Upsert inserts a new document or updates an existing one.
	Upsert(ctx context.Context, doc *Document) error
	// Delete deletes a document and, through the foreign key, its chunks.
	Delete(ctx context.Context, sourceKey string) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db, now: time.Now}
}

// GetByKey gets a document by source key.
// Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetByKey(ctx context.Context, sourceKey string) (*Document, error) {
	var doc Document
	var sourceURL sql.NullString
	var createdAtStr, updatedAtStr string

	err := r.db.QueryRowContext(ctx,
		`SELECT source_key, title, source_type, source_url, hash, chunk_count, created_at, updated_at
		 FROM documents WHERE source_key = ?`,
		sourceKey,
	).Scan(&doc.SourceKey, &doc.Title, &doc.SourceType, &sourceURL, &doc.Hash, &doc.ChunkCount, &createdAtStr, &updatedAtStr)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	doc.SourceURL = sourceURL.String
	if doc.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}
	if doc.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}

	return &doc, nil
}

// Upsert inserts a new document or updates an existing one.
// On conflict the title, URL, hash and chunk count are replaced while the
// original created_at is preserved.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *Document) error {
	if doc.SourceKey == "" {
		return fmt.Errorf("failed to upsert document: empty source key")
	}
	now := r.now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (source_key, title, source_type, source_url, hash, chunk_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (source_key) DO UPDATE SET
		 title = excluded.title, source_type = excluded.source_type, source_url = excluded.source_url,
		 hash = excluded.hash, chunk_count = excluded.chunk_count, updated_at = excluded.updated_at`,
		doc.SourceKey, doc.Title, doc.SourceType, doc.SourceURL, doc.Hash, doc.ChunkCount,
		formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}

// Delete deletes a document. Returns ErrNotFound if not found.
func (r *DocumentRepo) Delete(ctx context.Context, sourceKey string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE source_key = ?", sourceKey)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return requireAffected(res)
}
