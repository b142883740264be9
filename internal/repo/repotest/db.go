// Package repotest opens throwaway SQLite databases for tests.
package repotest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"homehunt-server/internal/core/database"
	"homehunt-server/internal/repo"
)

// Open returns a migrated in-memory database that lives until the test ends.
// One connection only: code running inside Atomic must use the tx-bound store.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
