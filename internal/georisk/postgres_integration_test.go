package georisk_test

import (
	"context"
	"os"
	"testing"

	"github.com/izzystu/geo-change-risk-sub000/internal/db"
	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a disposable PostGIS database named by TEST_DATABASE_URL.
func TestMigrate_Postgres(t *testing.T) {
	_ = godotenv.Load("../../.env.local")
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping Postgres integration test")
	}

	d, err := db.Open(dsn)
	require.NoError(t, err)
	require.True(t, db.IsPostgres(d))

	require.NoError(t, georisk.Migrate(d))
	// idempotent
	require.NoError(t, georisk.Migrate(d))

	f, err := georisk.ParseFixture([]byte(smallFixture))
	require.NoError(t, err)
	require.NoError(t, f.Apply(context.Background(), d))

	var geomType string
	require.NoError(t, d.Raw(`SELECT GeometryType(geom) FROM assets WHERE id = ?`, "00000000-0000-0000-0000-0000000000a1").Scan(&geomType).Error)
	assert.Equal(t, "POINT", geomType)
}
