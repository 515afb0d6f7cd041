package nlq

import (
	"time"

	"github.com/google/uuid"
	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
	"gorm.io/gorm"
)

type RiskEventItem struct {
	ID              uuid.UUID `json:"id"`
	RiskScore       int       `json:"riskScore"`
	RiskLevel       int       `json:"riskLevel"`
	RiskLevelName   string    `json:"riskLevelName"`
	DistanceMeters  float64   `json:"distanceMeters"`
	IsAcknowledged  bool      `json:"isAcknowledged"`
	CreatedAt       time.Time `json:"createdAt"`
	AOIID           string    `json:"aoiId"`
	AssetID         uuid.UUID `json:"assetId"`
	AssetName       string    `json:"assetName"`
	AssetType       int       `json:"assetType"`
	AssetTypeName   string    `json:"assetTypeName"`
	Criticality     int       `json:"criticality"`
	CriticalityName string    `json:"criticalityName"`
	ChangePolygonID uuid.UUID `json:"changePolygonId"`
	ChangeType      int       `json:"changeType"`
	ChangeTypeName  string    `json:"changeTypeName"`
	AreaSqMeters    float64   `json:"areaSqMeters"`
}

var riskEventQuery = &entityQuery[georisk.RiskEvent, RiskEventItem]{
	entity: EntityRiskEvent,
	table:  "risk_events",
	filters: newFieldSet(
		numberField("riskScore", "risk_events", "risk_score"),
		ordinalField("riskLevel", "risk_events", "risk_level", georisk.RiskLevels),
		numberField("distanceMeters", "risk_events", "distance_meters"),
		boolField("isAcknowledged", "risk_events", "is_acknowledged"),
		enumField("assetType", "assets", "asset_type", georisk.AssetTypes),
		ordinalField("criticality", "assets", "criticality", georisk.Criticalities),
		textField("assetName", "assets", "name"),
		enumField("changeType", "change_polygons", "change_type", georisk.ChangeTypes),
	),
	sortable: newFieldSet(
		numberField("riskScore", "risk_events", "risk_score"),
		numberField("distanceMeters", "risk_events", "distance_meters"),
		timeField("createdAt", "risk_events", "created_at"),
	),
	defaultOrder: []orderTerm{
		{column: col("risk_events", "risk_score"), desc: true},
		{column: col("risk_events", "created_at"), desc: true},
		{column: col("risk_events", "id")},
	},
	dates: newFieldSet(
		timeField("createdAt", "risk_events", "created_at"),
	),
	defaultDate: "createdAt",
	aoiColumn:   col("processing_runs", "aoi_id"),
	from: func(tx *gorm.DB) *gorm.DB {
		return tx.
			Joins("JOIN change_polygons ON change_polygons.id = risk_events.change_polygon_id").
			Joins("JOIN processing_runs ON processing_runs.id = change_polygons.run_id").
			Joins("JOIN assets ON assets.id = risk_events.asset_id")
	},
	preload: []string{"Asset", "ChangePolygon", "ChangePolygon.Run"},
	item: func(e *georisk.RiskEvent) RiskEventItem {
		return RiskEventItem{
			ID:              e.ID,
			RiskScore:       e.RiskScore,
			RiskLevel:       int(e.RiskLevel),
			RiskLevelName:   e.RiskLevel.String(),
			DistanceMeters:  e.DistanceMeters,
			IsAcknowledged:  e.IsAcknowledged,
			CreatedAt:       e.CreatedAt,
			AOIID:           e.ChangePolygon.Run.AOIID,
			AssetID:         e.AssetID,
			AssetName:       e.Asset.Name,
			AssetType:       int(e.Asset.AssetType),
			AssetTypeName:   e.Asset.AssetType.String(),
			Criticality:     int(e.Asset.Criticality),
			CriticalityName: e.Asset.Criticality.String(),
			ChangePolygonID: e.ChangePolygonID,
			ChangeType:      int(e.ChangePolygon.ChangeType),
			ChangeTypeName:  e.ChangePolygon.ChangeType.String(),
			AreaSqMeters:    e.ChangePolygon.AreaSqMeters,
		}
	},
	// Events are drawn at the change that triggered them.
	feature: func(e *georisk.RiskEvent) Feature {
		return newFeature(e.ID.String(), e.ChangePolygon.Geometry, map[string]any{
			"riskScore":      e.RiskScore,
			"riskLevel":      int(e.RiskLevel),
			"riskLevelName":  e.RiskLevel.String(),
			"distanceMeters": e.DistanceMeters,
			"assetName":      e.Asset.Name,
			"assetTypeName":  e.Asset.AssetType.String(),
			"changeTypeName": e.ChangePolygon.ChangeType.String(),
		})
	},
}
