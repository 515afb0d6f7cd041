package db

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// IsPostgres reports whether d talks to Postgres. Spatial indexes and
// extensions are only created there; SQLite is used by tests.
func IsPostgres(d *gorm.DB) bool {
	return d.Dialector.Name() == "postgres"
}

func EnsureExtension(d *gorm.DB, name string) error {
	return d.Exec(`CREATE EXTENSION IF NOT EXISTS ` + pq.QuoteIdentifier(name)).Error
}
