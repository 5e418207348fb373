package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"member-portal/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB creates a migrated SQLite database in a per-test temp directory.
// The connection is closed when the test finishes.
func NewTestDB(t testing.TB) (*gorm.DB, error) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), logger.Silent)
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(context.Background(), db); err != nil {
		return nil, err
	}
	return db, nil
}
