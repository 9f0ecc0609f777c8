package storage

import (
	"testing"
)

// SetupTestDB opens a fully migrated in-memory database for tests. The
// pool is pinned to a single connection because every new connection to
// ":memory:" would otherwise see its own empty database.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	config := DefaultConfig(":memory:")
	config.MaxOpenConns = 1
	config.MaxIdleConns = 1
	config.AutoMigrate = true

	db, err := Open(config)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
