package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/bdougie/lecturekit/internal/models"
)

// PostgresStorage manages interaction with PostgreSQL
type PostgresStorage struct {
	pool       *pgxpool.Pool
	sessionID  string
	sessionKey int
	dimensions int
}

// NewPostgresStorage connects to dsn and registers the session. The schema
// must exist; see InitSchema. An empty sessionID gives a search-only store.
func NewPostgresStorage(ctx context.Context, dsn, sessionID string, dimensions int) (*PostgresStorage, error) {
	// Connect to PostgreSQL
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	storage := &PostgresStorage{
		pool:       pool,
		sessionID:  sessionID,
		dimensions: dimensions,
	}

	if sessionID != "" {
		key, err := storage.getOrCreateSession(ctx, sessionID)
		if err != nil {
			pool.Close()
			return nil, err
		}
		storage.sessionKey = key
	}

	return storage, nil
}

// Close closes the database connection
func (s *PostgresStorage) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// getOrCreateSession gets an existing session entry or creates a new one
func (s *PostgresStorage) getOrCreateSession(ctx context.Context, sessionID string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx,
		"SELECT id FROM sessions WHERE uuid = $1",
		sessionID).Scan(&id)

	if err == nil {
		return id, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("error checking for existing session: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		"INSERT INTO sessions (uuid, created_at) VALUES ($1, $2) RETURNING id",
		sessionID, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create session entry: %w", err)
	}
	return id, nil
}

// AddSlide stores a slide with its embedding, if any
func (s *PostgresStorage) AddSlide(ctx context.Context, slide models.Slide) error {
	if s.sessionID == "" {
		return errors.New("postgres storage opened without a session")
	}
	var embedding any
	if len(slide.Embedding) > 0 {
		if len(slide.Embedding) != s.dimensions {
			return fmt.Errorf("embedding has %d dimensions, table expects %d", len(slide.Embedding), s.dimensions)
		}
		embedding = pgvector.NewVector(slide.Embedding)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO slides
        (session_id, frame_number, text, summary, similarity, embedding, captured_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.sessionKey, slide.FrameNum, slide.Text, slide.Summary, slide.Similarity, embedding, slide.CapturedAt)
	if err != nil {
		return fmt.Errorf("failed to store slide: %w", err)
	}
	return nil
}

// Flush implements the Storage interface - no-op for Postgres as we save immediately
func (s *PostgresStorage) Flush() error {
	return nil
}

// SearchSimilar finds the slides of any session closest to embedding
func (s *PostgresStorage) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.SlideSearchResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT se.uuid, sl.frame_number, sl.summary,
        1 - (sl.embedding <=> $1) AS similarity
        FROM slides sl
        JOIN sessions se ON sl.session_id = se.id
        WHERE sl.embedding IS NOT NULL
        ORDER BY sl.embedding <=> $1
        LIMIT $2`,
		pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search similar slides: %w", err)
	}
	defer rows.Close()

	var results []models.SlideSearchResult
	for rows.Next() {
		var result models.SlideSearchResult
		if err := rows.Scan(&result.SessionID, &result.FrameNum,
			&result.Summary, &result.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan search results: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// SchemaSQL returns the DDL for embeddings of the given size
func SchemaSQL(dimensions int) string {
	return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS sessions (
            id SERIAL PRIMARY KEY,
            uuid VARCHAR(36) NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            UNIQUE(uuid)
        );

        CREATE TABLE IF NOT EXISTS slides (
            id SERIAL PRIMARY KEY,
            session_id INTEGER REFERENCES sessions(id) ON DELETE CASCADE,
            frame_number INTEGER NOT NULL,
            text TEXT NOT NULL,
            summary TEXT NOT NULL,
            similarity DOUBLE PRECISION NOT NULL,
            embedding vector(%d),
            captured_at TIMESTAMPTZ NOT NULL
        );

        CREATE INDEX IF NOT EXISTS idx_slides_session_id ON slides(session_id);
    `, dimensions)
}

// InitSchema creates the database schema if it doesn't exist
func InitSchema(ctx context.Context, dsn string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("invalid embedding dimensions %d", dimensions)
	}

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	// Check if vector extension exists
	var exists bool
	err = conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'vector')").Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for vector extension: %w", err)
	}

	if !exists {
		if _, err = conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
			return fmt.Errorf("failed to create vector extension: %w", err)
		}
	}

	if _, err = conn.Exec(ctx, SchemaSQL(dimensions)); err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}

	_, err = conn.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS idx_slides_embedding ON slides USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`)
	if err != nil {
		return fmt.Errorf("failed to create database indexes: %w", err)
	}

	return nil
}
