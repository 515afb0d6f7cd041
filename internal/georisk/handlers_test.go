package georisk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/izzystu/geo-change-risk-sub000/internal/db"
	"github.com/izzystu/geo-change-risk-sub000/internal/db/dbtest"
	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) {
	t.Helper()
	d := dbtest.Open(t)
	require.NoError(t, georisk.Migrate(d))
	f, err := georisk.ParseFixture([]byte(smallFixture))
	require.NoError(t, err)
	require.NoError(t, f.Apply(context.Background(), d))

	prev := db.DB
	db.DB = d
	t.Cleanup(func() { db.DB = prev })
}

func TestAreasOfInterest_List(t *testing.T) {
	setupDB(t)
	h := georisk.SetupRoutes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "paradise-ca", out[0]["aoiId"])
}

func TestAreasOfInterest_Get(t *testing.T) {
	setupDB(t)
	h := georisk.SetupRoutes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/paradise-ca", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Paradise, CA", out["name"])
	assert.Equal(t, float64(1), out["assetCount"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/butte", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
