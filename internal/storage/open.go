package storage

import (
	"context"
	"fmt"

	"github.com/bdougie/lecturekit/internal/config"
)

// Open returns the backend named by cfg.Storage.Backend for one session.
func Open(ctx context.Context, cfg *config.Config, sessionID string) (Storage, error) {
	switch cfg.Storage.Backend {
	case "", "none":
		return Nop(), nil
	case "json":
		return NewJSONStorage(cfg.Storage.Dir, sessionID), nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.Storage.SQLitePath)
	case "postgres":
		return NewPostgresStorage(ctx, cfg.Storage.PostgresDSN, sessionID, cfg.Embeddings.Dimensions)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

// SearchCloser is a searchable backend.
type SearchCloser interface {
	Searcher
	Close() error
}

// OpenSearcher opens the configured backend for similarity search only.
func OpenSearcher(ctx context.Context, cfg *config.Config) (SearchCloser, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return OpenSQLite(ctx, cfg.Storage.SQLitePath)
	case "postgres":
		return NewPostgresStorage(ctx, cfg.Storage.PostgresDSN, "", cfg.Embeddings.Dimensions)
	default:
		return nil, fmt.Errorf("storage backend %q does not support search; use sqlite or postgres", cfg.Storage.Backend)
	}
}
