// Package repomanager picks the storage behind the backend's repositories:
// PostgreSQL when a DSN is configured, process memory otherwise.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/butcherdesk/internal/server/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Close() error
}

// New returns a PostgreSQL manager for a non-empty dsn and a memory one
// otherwise.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewMemoryRepositoryManager(), nil
	}
	return OpenPostgres(ctx, dsn)
}

// MemoryRepositoryManager keeps everything in process memory. Data is lost on
// restart.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Close() error { return nil }
