// Package dbtest provides a throwaway migrated database for tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/blog/internal/db"
)

var seq atomic.Int64

// New returns an in-memory SQLite database with the blog schema applied.
// It is closed when the test finishes.
func New(t testing.TB) *db.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:blogtest%d?mode=memory&cache=shared", seq.Add(1))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// one connection keeps the in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	database := &db.Database{Gorm: gormDB, SQL: sqlDB}
	if err := database.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}
