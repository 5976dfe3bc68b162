package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bdougie/lecturekit/internal/embeddings"
	"github.com/bdougie/lecturekit/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS slides (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    frame_number INTEGER NOT NULL,
    text TEXT NOT NULL,
    summary TEXT NOT NULL,
    similarity REAL NOT NULL,
    embedding_json TEXT,
    captured_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_slides_session ON slides(session_id);
`

// SQLiteStorage keeps slides in a local SQLite database. Embeddings are
// stored as JSON arrays and searched by brute force.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create slides table: %w", err)
	}
	return &SQLiteStorage{db: db, path: path}, nil
}

// AddSlide inserts one slide.
func (s *SQLiteStorage) AddSlide(ctx context.Context, slide models.Slide) error {
	var embeddingJSON any
	if len(slide.Embedding) > 0 {
		data, err := json.Marshal(slide.Embedding)
		if err != nil {
			return fmt.Errorf("marshal embedding: %w", err)
		}
		embeddingJSON = string(data)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slides (session_id, frame_number, text, summary, similarity, embedding_json, captured_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		slide.SessionID,
		slide.FrameNum,
		slide.Text,
		slide.Summary,
		slide.Similarity,
		embeddingJSON,
		slide.CapturedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert slide: %w", err)
	}
	return nil
}

// Flush is a no-op; inserts are immediate.
func (s *SQLiteStorage) Flush() error { return nil }

// Close closes the underlying database connection.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Slides lists the slides of a session in frame order.
func (s *SQLiteStorage) Slides(ctx context.Context, sessionID string) ([]models.Slide, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, frame_number, text, summary, similarity, embedding_json, captured_at
        FROM slides WHERE session_id = ? ORDER BY frame_number`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query slides: %w", err)
	}
	defer rows.Close()

	var out []models.Slide
	for rows.Next() {
		slide, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, slide)
	}
	return out, rows.Err()
}

// SearchSimilar ranks every stored slide with an embedding by cosine
// similarity to embedding.
func (s *SQLiteStorage) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.SlideSearchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, frame_number, text, summary, similarity, embedding_json, captured_at
        FROM slides WHERE embedding_json IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to search similar slides: %w", err)
	}
	defer rows.Close()

	var results []models.SlideSearchResult
	for rows.Next() {
		slide, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, models.SlideSearchResult{
			SessionID:  slide.SessionID,
			FrameNum:   slide.FrameNum,
			Summary:    slide.Summary,
			Similarity: embeddings.Cosine(embedding, slide.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlide(row rowScanner) (models.Slide, error) {
	var (
		slide     models.Slide
		embedding sql.NullString
		captured  string
	)
	if err := row.Scan(&slide.SessionID, &slide.FrameNum, &slide.Text, &slide.Summary,
		&slide.Similarity, &embedding, &captured); err != nil {
		return models.Slide{}, fmt.Errorf("scan slide: %w", err)
	}
	if embedding.Valid {
		if err := json.Unmarshal([]byte(embedding.String), &slide.Embedding); err != nil {
			return models.Slide{}, fmt.Errorf("decode embedding: %w", err)
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, captured); err == nil {
		slide.CapturedAt = t
	}
	return slide, nil
}
