package memory

import (
	"context"
	"strings"
)

// NewStore picks a backend for conversational memory: postgres when a
// database URL is configured, a local sqlite file when a path is configured,
// otherwise in-memory.
func NewStore(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	if strings.TrimSpace(databaseURL) != "" {
		return NewPostgresStore(ctx, databaseURL)
	}
	if strings.TrimSpace(sqlitePath) != "" {
		return NewSQLiteStore(sqlitePath)
	}
	return NewInMemoryStore(), nil
}
