package nlq

import (
	"time"

	"github.com/google/uuid"
	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
	"gorm.io/gorm"
)

type ChangePolygonItem struct {
	ID              uuid.UUID `json:"id"`
	RunID           uuid.UUID `json:"runId"`
	AOIID           string    `json:"aoiId"`
	AreaSqMeters    float64   `json:"areaSqMeters"`
	NdviDropMean    float64   `json:"ndviDropMean"`
	NdviDropMax     float64   `json:"ndviDropMax"`
	ChangeType      int       `json:"changeType"`
	ChangeTypeName  string    `json:"changeTypeName"`
	SlopeDegreeMean *float64  `json:"slopeDegreeMean,omitempty"`
	ElevationM      *float64  `json:"elevationM,omitempty"`
	LandCoverClass  string    `json:"landCoverClass,omitempty"`
	MLConfidence    *float64  `json:"mlConfidence,omitempty"`
	DetectedAt      time.Time `json:"detectedAt"`
}

var changePolygonQuery = &entityQuery[georisk.ChangePolygon, ChangePolygonItem]{
	entity: EntityChangePolygon,
	table:  "change_polygons",
	filters: newFieldSet(
		numberField("areaSqMeters", "change_polygons", "area_sq_meters"),
		numberField("ndviDropMean", "change_polygons", "ndvi_drop_mean"),
		numberField("ndviDropMax", "change_polygons", "ndvi_drop_max"),
		numberField("slopeDegreeMean", "change_polygons", "slope_degree_mean"),
		numberField("slopeDegreeMax", "change_polygons", "slope_degree_max"),
		numberField("aspectDegrees", "change_polygons", "aspect_degrees"),
		numberField("elevationM", "change_polygons", "elevation_m"),
		numberField("mlConfidence", "change_polygons", "ml_confidence"),
		enumField("changeType", "change_polygons", "change_type", georisk.ChangeTypes),
		textField("landCoverClass", "change_polygons", "land_cover_class"),
	),
	sortable: newFieldSet(
		numberField("areaSqMeters", "change_polygons", "area_sq_meters"),
		numberField("ndviDropMean", "change_polygons", "ndvi_drop_mean"),
		timeField("detectedAt", "change_polygons", "detected_at"),
		numberField("mlConfidence", "change_polygons", "ml_confidence"),
		numberField("slopeDegreeMean", "change_polygons", "slope_degree_mean"),
	),
	defaultOrder: []orderTerm{
		{column: col("change_polygons", "detected_at"), desc: true},
		{column: col("change_polygons", "id")},
	},
	dates: newFieldSet(
		timeField("detectedAt", "change_polygons", "detected_at"),
	),
	defaultDate: "detectedAt",
	aoiColumn:   col("processing_runs", "aoi_id"),
	from: func(tx *gorm.DB) *gorm.DB {
		return tx.Joins("JOIN processing_runs ON processing_runs.id = change_polygons.run_id")
	},
	preload: []string{"Run"},
	item: func(p *georisk.ChangePolygon) ChangePolygonItem {
		return ChangePolygonItem{
			ID:              p.ID,
			RunID:           p.RunID,
			AOIID:           p.Run.AOIID,
			AreaSqMeters:    p.AreaSqMeters,
			NdviDropMean:    p.NdviDropMean,
			NdviDropMax:     p.NdviDropMax,
			ChangeType:      int(p.ChangeType),
			ChangeTypeName:  p.ChangeType.String(),
			SlopeDegreeMean: p.SlopeDegreeMean,
			ElevationM:      p.ElevationM,
			LandCoverClass:  p.LandCoverClass,
			MLConfidence:    p.MLConfidence,
			DetectedAt:      p.DetectedAt,
		}
	},
	feature: func(p *georisk.ChangePolygon) Feature {
		return newFeature(p.ID.String(), p.Geometry, map[string]any{
			"changeTypeName": p.ChangeType.String(),
			"areaSqMeters":   p.AreaSqMeters,
			"ndviDropMean":   p.NdviDropMean,
			"detectedAt":     p.DetectedAt,
		})
	},
}
