package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mentora-labs/mentora-cli/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/mentora-labs/mentora-cli/internal/core/domain"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store persists chunk records and their embeddings in a SQLite file.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite vector store at the specified data directory.
// If dataDir is empty, defaults to ~/.mentora/data/chunks.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".mentora", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chunks.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", domain.ErrIndexUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts or replaces chunk records by ID within one transaction.
func (s *Store) Upsert(ctx context.Context, chunks []domain.ContentChunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrIndexUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, content, source_url, title, content_type,
			chunk_index, total_chunks, timestamp, metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			source_url = excluded.source_url,
			title = excluded.title,
			content_type = excluded.content_type,
			chunk_index = excluded.chunk_index,
			total_chunks = excluded.total_chunks,
			timestamp = excluded.timestamp,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.Content, chunk.SourceURL,
			chunk.Title, string(chunk.ContentType), chunk.ChunkIndex, chunk.TotalChunks,
			chunk.Timestamp.UTC(), string(metadataJSON), embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Search scans the (optionally filtered) rows and returns the k nearest
// by cosine similarity. An empty table yields an empty slice.
func (s *Store) Search(
	ctx context.Context, query []float32, k int, filter *driven.SearchFilter,
) ([]domain.SearchResult, error) {
	q := `
		SELECT id, content, source_url, title, content_type,
			chunk_index, total_chunks, timestamp, metadata, embedding
		FROM chunks
	`
	var args []any
	if filter != nil && filter.ContentType != "" {
		q += " WHERE content_type = ?"
		args = append(args, string(filter.ContentType))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", domain.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	var results []domain.SearchResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.SearchResult{
			Chunk:      *chunk,
			Similarity: cosineSimilarity(query, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %v", domain.ErrIndexUnavailable, err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, nil
}

// DeleteBySourceURL removes all chunks for the URL. Idempotent.
func (s *Store) DeleteBySourceURL(ctx context.Context, url string) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE source_url = ?", url)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting chunks: %v", domain.ErrIndexUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted chunks: %w", err)
	}
	return int(affected), nil
}

// Stats describes the stored corpus via SQL aggregates.
func (s *Store) Stats(ctx context.Context) (*domain.IndexStats, error) {
	stats := &domain.IndexStats{
		ContentTypeCounts: make(map[domain.ContentType]int),
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT source_url) FROM chunks")
	if err := row.Scan(&stats.TotalChunks, &stats.UniqueSources); err != nil {
		return nil, fmt.Errorf("%w: counting chunks: %v", domain.ErrIndexUnavailable, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT content_type, COUNT(*) FROM chunks GROUP BY content_type")
	if err != nil {
		return nil, fmt.Errorf("%w: counting content types: %v", domain.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var contentType string
		var count int
		if err := rows.Scan(&contentType, &count); err != nil {
			return nil, fmt.Errorf("scanning content type count: %w", err)
		}
		stats.ContentTypeCounts[domain.ContentType(contentType)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content type counts: %w", err)
	}

	return stats, nil
}

// scanChunk reads one chunk row.
func scanChunk(rows *sql.Rows) (*domain.ContentChunk, error) {
	var chunk domain.ContentChunk
	var contentType, metadataJSON string
	var timestamp time.Time
	var embeddingBlob []byte

	if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.SourceURL, &chunk.Title,
		&contentType, &chunk.ChunkIndex, &chunk.TotalChunks, &timestamp,
		&metadataJSON, &embeddingBlob); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.ContentType = domain.ContentType(contentType)
	chunk.Timestamp = timestamp
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" && metadataJSON != "null" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the normalised dot product of two vectors.
// Mismatched or zero-length vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
