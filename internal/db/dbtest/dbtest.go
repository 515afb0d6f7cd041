// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/izzystu/geo-change-risk-sub000/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a gorm handle on a fresh SQLite file under t.TempDir. The
// connection is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "georisk.db")
	d, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: db.NewLogger()})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := d.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return d
}
