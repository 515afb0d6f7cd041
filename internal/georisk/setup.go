package georisk

import (
	"fmt"
	"log"

	"github.com/izzystu/geo-change-risk-sub000/internal/db"
	"gorm.io/gorm"
)

// spatialTables carry a geometry_json column that gets a PostGIS twin.
var spatialTables = []string{"assets", "change_polygons"}

// Migrate creates or updates every georisk table. On Postgres it also adds a
// generated PostGIS geometry column with a GiST index to each spatial table.
func Migrate(d *gorm.DB) error {
	if err := d.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if !db.IsPostgres(d) {
		return nil
	}

	if err := db.EnsureExtension(d, "postgis"); err != nil {
		return fmt.Errorf("enable postgis: %w", err)
	}
	for _, table := range spatialTables {
		if err := d.Exec(`
			ALTER TABLE ` + table + `
			ADD COLUMN IF NOT EXISTS geom geometry(Geometry, 4326)
			GENERATED ALWAYS AS (ST_SetSRID(ST_GeomFromGeoJSON(NULLIF(geometry_json, '')), 4326)) STORED
		`).Error; err != nil {
			return fmt.Errorf("add %s.geom: %w", table, err)
		}
		if err := d.Exec(`CREATE INDEX IF NOT EXISTS ` + table + `_geom_gist ON ` + table + ` USING GIST (geom)`).Error; err != nil {
			return fmt.Errorf("index %s.geom: %w", table, err)
		}
	}

	// Case insensitive lookups on asset names
	if err := d.Exec(`CREATE INDEX IF NOT EXISTS assets_name_lower ON assets (LOWER(name))`).Error; err != nil {
		return fmt.Errorf("index assets.name: %w", err)
	}
	return nil
}

func Init() {
	if err := Migrate(db.DB); err != nil {
		log.Fatal("Failed to migrate georisk tables: ", err)
	}
	log.Println("[georisk] Tables ready")
}
