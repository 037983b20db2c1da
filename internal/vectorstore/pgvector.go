package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"sciingest/internal/contextutil"
)

// PGVectorStore implements VectorStore on PostgreSQL with the pgvector
// extension. Each collection is a table of (id, payload, vector).
type PGVectorStore struct {
	db *sql.DB
}

// NewPGVectorStore opens a connection pool for dsn and verifies it.
func NewPGVectorStore(dsn string) (*PGVectorStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &PGVectorStore{db: db}, nil
}

// Close closes the pool.
func (s *PGVectorStore) Close() error {
	return s.db.Close()
}

// EnsureCollection creates the extension and table and validates the
// declared vector size of an existing table.
func (s *PGVectorStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	if vectorSize <= 0 {
		return fmt.Errorf("invalid vector size %d", vectorSize)
	}
	if _, err := s.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createTableSQL(collection, vectorSize)); err != nil {
		return fmt.Errorf("failed to create collection table: %w", err)
	}

	var declared sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT a.atttypmod FROM pg_attribute a
		 WHERE a.attrelid = $1::regclass AND a.attname = 'vector'`,
		pq.QuoteIdentifier(collection),
	).Scan(&declared)
	if err != nil {
		return fmt.Errorf("failed to read collection vector size: %w", err)
	}
	if declared.Valid && declared.Int64 > 0 && int(declared.Int64) != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, declared.Int64)
	}

	logger.InfoContext(ctx, "collection validated", "collection", collection, "vector_size", vectorSize)
	return nil
}

// Upsert writes all points in one transaction.
func (s *PGVectorStore) Upsert(ctx context.Context, collection string, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSQL(collection))
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		payload, err := json.Marshal(p.Meta)
		if err != nil {
			return fmt.Errorf("failed to encode payload for %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, string(payload), vectorToString(p.Vec)); err != nil {
			logger.ErrorContext(ctx, "failed to upsert points", "collection", collection, "count", len(points), "error", err)
			return fmt.Errorf("failed to upsert point %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}
	logger.DebugContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search orders by cosine distance and reports (similarity+1)/2.
func (s *PGVectorStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	q, args, err := searchSQL(collection, query, k, filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			id      string
			payload []byte
			sim     float64
		)
		if err := rows.Scan(&id, &payload, &sim); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		meta := map[string]any{}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &meta); err != nil {
				return nil, fmt.Errorf("failed to decode payload for %s: %w", id, err)
			}
		}
		results = append(results, SearchResult{
			PointID: id,
			Score:   relevanceFromCosine(float32(sim)),
			Meta:    meta,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}
	return results, nil
}

// Delete removes points by their IDs.
func (s *PGVectorStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, pq.QuoteIdentifier(collection))
	if _, err := s.db.ExecContext(ctx, q, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "deleted points", "collection", collection, "count", len(ids))
	return nil
}

// CollectionExists reports whether the collection table exists.
func (s *PGVectorStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	var name sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT to_regclass($1)::text`, pq.QuoteIdentifier(collection)).Scan(&name); err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return name.Valid, nil
}

func createTableSQL(collection string, vectorSize int) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	payload JSONB NOT NULL DEFAULT '{}'::jsonb,
	vector vector(%d) NOT NULL
)`, pq.QuoteIdentifier(collection), vectorSize)
}

func upsertSQL(collection string) string {
	return fmt.Sprintf(`INSERT INTO %s (id, payload, vector) VALUES ($1, $2::jsonb, $3::vector)
	ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, vector = EXCLUDED.vector`,
		pq.QuoteIdentifier(collection))
}

// searchSQL builds the similarity query. Filter values are bound as
// parameters; filter keys come from FilterKeys only.
func searchSQL(collection string, query []float32, k int, filters map[string]any) (string, []any, error) {
	pairs, err := stringFilters(filters)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `SELECT id, payload, 1 - (vector <=> $1::vector) AS similarity FROM %s`, pq.QuoteIdentifier(collection))
	args := []any{vectorToString(query)}
	for i, p := range pairs {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, p[1])
		fmt.Fprintf(&b, "payload->>'%s' = $%d", p[0], len(args))
	}
	args = append(args, k)
	b.WriteString(" ORDER BY vector <=> $1::vector LIMIT $" + strconv.Itoa(len(args)))
	return b.String(), args, nil
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = strconv.FormatFloat(float64(val), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
