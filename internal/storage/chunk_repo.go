package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks sciingest/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// InsertOne inserts a single chunk. An empty ID is replaced by a new UUID.
	InsertOne(ctx context.Context, chunk *ChunkRecord) error
	// InsertMany inserts chunks in one transaction. If the transaction
	// fails it falls back to one-by-one inserts and counts the drops.
	InsertMany(ctx context.Context, chunks []*ChunkRecord) InsertSummary
	// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*ChunkRecord, error)
	// List returns chunks matching the filter, oldest first.
	List(ctx context.Context, filter ListFilter) ([]*ChunkRecord, error)
	// Count returns the number of chunks matching the filter, ignoring paging.
	Count(ctx context.Context, filter ListFilter) (int, error)
	// RecentChunks returns up to limit chunks, newest first. An empty
	// sourceType matches every type.
	RecentChunks(ctx context.Context, sourceType string, limit int) ([]*ChunkRecord, error)
	// UpdateEnrichment replaces tags, category and embedding of a chunk.
	UpdateEnrichment(ctx context.Context, id string, e Enrichment) error
	// Delete deletes a chunk. Returns ErrNotFound if not found.
	Delete(ctx context.Context, id string) error
	// DeleteBySourceKey deletes every chunk of a document and returns their IDs.
	DeleteBySourceKey(ctx context.Context, sourceKey string) ([]string, error)
	// Stats summarises chunks of one source type, or all when empty.
	Stats(ctx context.Context, sourceType string) (*ChunkStats, error)
	// CharCounts returns char_count of every chunk of one source type.
	CharCounts(ctx context.Context, sourceType string) ([]int, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db, now: time.Now}
}

const chunkColumns = `id, source_key, source_type, text, chunk_index, total_chunks,
	char_count, word_count, sentences_count, start_pos, end_pos, tags, category,
	metadata, embedding, embedding_model, created_at, updated_at`

const insertChunkSQL = `INSERT INTO chunks (` + chunkColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InsertOne inserts a single chunk into the database.
func (r *ChunkRepo) InsertOne(ctx context.Context, chunk *ChunkRecord) error {
	if err := r.insert(ctx, r.db, chunk); err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// InsertMany inserts all chunks in a single transaction. On any failure the
// transaction is rolled back and every chunk is retried on its own, so one
// bad record only drops itself.
func (r *ChunkRepo) InsertMany(ctx context.Context, chunks []*ChunkRecord) InsertSummary {
	if len(chunks) == 0 {
		return InsertSummary{}
	}

	if err := r.insertTx(ctx, chunks); err == nil {
		return InsertSummary{Inserted: len(chunks)}
	}

	var summary InsertSummary
	for _, c := range chunks {
		if err := r.insert(ctx, r.db, c); err != nil {
			summary.Dropped++
			summary.DroppedIDs = append(summary.DroppedIDs, c.ID)
			summary.Errors = append(summary.Errors, fmt.Sprintf("chunk %d of %s: %v", c.ChunkIndex, c.SourceKey, err))
			continue
		}
		summary.Inserted++
	}
	return summary
}

func (r *ChunkRepo) insertTx(ctx context.Context, chunks []*ChunkRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range chunks {
		if err := r.insert(ctx, tx, c); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *ChunkRepo) insert(ctx context.Context, ex execer, c *ChunkRecord) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := r.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	tags, metadata, embedding, err := encodeChunkJSON(c.Tags, c.Metadata, c.Embedding)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, insertChunkSQL,
		c.ID, c.SourceKey, c.SourceType, c.Text, c.ChunkIndex, c.TotalChunks,
		c.CharCount, c.WordCount, c.SentencesCount, c.StartPos, c.EndPos,
		tags, c.Category, metadata, embedding, c.EmbeddingModel,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	return err
}

// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*ChunkRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+chunkColumns+" FROM chunks WHERE id = ?", id)
	chunk, err := scanChunk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}
	return chunk, nil
}

// List returns chunks matching the filter ordered by creation time, then
// chunk index. A zero Limit returns every match.
func (r *ChunkRepo) List(ctx context.Context, filter ListFilter) ([]*ChunkRecord, error) {
	where, args := filterClause(filter)
	query := "SELECT " + chunkColumns + " FROM chunks" + where + " ORDER BY created_at, source_key, chunk_index"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, max(filter.Offset, 0))
	}
	return r.queryChunks(ctx, query, args...)
}

// Count returns the number of chunks matching the filter.
func (r *ChunkRepo) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filterClause(filter)
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

// RecentChunks returns up to limit chunks, newest first.
func (r *ChunkRepo) RecentChunks(ctx context.Context, sourceType string, limit int) ([]*ChunkRecord, error) {
	if limit <= 0 {
		return []*ChunkRecord{}, nil
	}
	where, args := filterClause(ListFilter{SourceType: sourceType})
	query := "SELECT " + chunkColumns + " FROM chunks" + where + " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	return r.queryChunks(ctx, query, append(args, limit)...)
}

// UpdateEnrichment replaces the enrichment of one chunk.
// Returns ErrNotFound if the chunk does not exist.
func (r *ChunkRepo) UpdateEnrichment(ctx context.Context, id string, e Enrichment) error {
	sets := []string{"category = ?", "updated_at = ?"}
	args := []any{e.Category, formatTime(r.now())}

	if e.Tags != nil {
		raw, err := json.Marshal(e.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags: %w", err)
		}
		sets = append(sets, "tags = ?")
		args = append(args, string(raw))
	}
	if e.Embedding != nil {
		raw, err := json.Marshal(e.Embedding)
		if err != nil {
			return fmt.Errorf("failed to encode embedding: %w", err)
		}
		sets = append(sets, "embedding = ?", "embedding_model = ?")
		args = append(args, string(raw), e.EmbeddingModel)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, "UPDATE chunks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update chunk: %w", err)
	}
	return requireAffected(res)
}

// Delete deletes a chunk. Returns ErrNotFound if not found.
func (r *ChunkRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM chunks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete chunk: %w", err)
	}
	return requireAffected(res)
}

// DeleteBySourceKey deletes all chunks of a document and returns their IDs
// so that the matching vector points can be removed too.
func (r *ChunkRepo) DeleteBySourceKey(ctx context.Context, sourceKey string) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, "SELECT id FROM chunks WHERE source_key = ? ORDER BY chunk_index", sourceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk IDs: %w", err)
	}
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan chunk ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	_ = rows.Close()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE source_key = ?", sourceKey); err != nil {
		return nil, fmt.Errorf("failed to delete chunks by source key: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ids, nil
}

// Stats summarises chunks of one source type. SourceKeys holds at most the
// first 100 distinct keys; Categories is sorted by count, descending.
func (r *ChunkRepo) Stats(ctx context.Context, sourceType string) (*ChunkStats, error) {
	where, args := filterClause(ListFilter{SourceType: sourceType})
	stats := &ChunkStats{
		SourceKeys:   []string{},
		Categories:   []CategoryCount{},
		BySourceType: map[string]int{},
	}

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT source_key), COUNT(embedding) FROM chunks"+where, args...,
	).Scan(&stats.TotalChunks, &stats.Documents, &stats.WithEmbedded)
	if err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}

	keys, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT source_key FROM chunks"+where+" ORDER BY source_key LIMIT 100", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query source keys: %w", err)
	}
	if err := collectRows(keys, func(rows *sql.Rows) error {
		var k string
		if err := rows.Scan(&k); err != nil {
			return err
		}
		stats.SourceKeys = append(stats.SourceKeys, k)
		return nil
	}); err != nil {
		return nil, err
	}

	cats, err := r.db.QueryContext(ctx,
		"SELECT category, COUNT(*) AS n FROM chunks"+where+" GROUP BY category ORDER BY n DESC, category", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	if err := collectRows(cats, func(rows *sql.Rows) error {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return err
		}
		stats.Categories = append(stats.Categories, c)
		return nil
	}); err != nil {
		return nil, err
	}

	types, err := r.db.QueryContext(ctx, "SELECT source_type, COUNT(*) FROM chunks"+where+" GROUP BY source_type", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query source types: %w", err)
	}
	if err := collectRows(types, func(rows *sql.Rows) error {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return err
		}
		stats.BySourceType[t] = n
		return nil
	}); err != nil {
		return nil, err
	}

	return stats, nil
}

// CharCounts returns the char_count column for one source type.
func (r *ChunkRepo) CharCounts(ctx context.Context, sourceType string) ([]int, error) {
	where, args := filterClause(ListFilter{SourceType: sourceType})
	rows, err := r.db.QueryContext(ctx, "SELECT char_count FROM chunks"+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query char counts: %w", err)
	}
	counts := []int{}
	err = collectRows(rows, func(rows *sql.Rows) error {
		var n int
		if err := rows.Scan(&n); err != nil {
			return err
		}
		counts = append(counts, n)
		return nil
	})
	return counts, err
}

func (r *ChunkRepo) queryChunks(ctx context.Context, query string, args ...any) ([]*ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	chunks := []*ChunkRecord{}
	err = collectRows(rows, func(rows *sql.Rows) error {
		c, err := scanChunk(rows)
		if err != nil {
			return err
		}
		chunks = append(chunks, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

func filterClause(f ListFilter) (string, []any) {
	var conds []string
	var args []any
	if f.SourceType != "" {
		conds = append(conds, "source_type = ?")
		args = append(args, f.SourceType)
	}
	if f.SourceKey != "" {
		conds = append(conds, "source_key = ?")
		args = append(args, f.SourceKey)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChunk(s rowScanner) (*ChunkRecord, error) {
	var c ChunkRecord
	var tags, metadata, createdAt, updatedAt string
	var embedding sql.NullString

	err := s.Scan(&c.ID, &c.SourceKey, &c.SourceType, &c.Text, &c.ChunkIndex, &c.TotalChunks,
		&c.CharCount, &c.WordCount, &c.SentencesCount, &c.StartPos, &c.EndPos, &tags, &c.Category,
		&metadata, &embedding, &c.EmbeddingModel, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &c.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if embedding.Valid && embedding.String != "" {
		if err := json.Unmarshal([]byte(embedding.String), &c.Embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding: %w", err)
		}
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func encodeChunkJSON(tags []string, metadata map[string]any, embedding []float32) (string, string, sql.NullString, error) {
	if tags == nil {
		tags = []string{}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	rawTags, err := json.Marshal(tags)
	if err != nil {
		return "", "", sql.NullString{}, fmt.Errorf("failed to encode tags: %w", err)
	}
	rawMeta, err := json.Marshal(metadata)
	if err != nil {
		return "", "", sql.NullString{}, fmt.Errorf("failed to encode metadata: %w", err)
	}
	var emb sql.NullString
	if embedding != nil {
		raw, err := json.Marshal(embedding)
		if err != nil {
			return "", "", sql.NullString{}, fmt.Errorf("failed to encode embedding: %w", err)
		}
		emb = sql.NullString{String: string(raw), Valid: true}
	}
	return string(rawTags), string(rawMeta), emb, nil
}

func collectRows(rows *sql.Rows, fn func(*sql.Rows) error) error {
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
