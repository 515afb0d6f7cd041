package nlq

import (
	"github.com/google/uuid"
	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
)

type AssetItem struct {
	ID              uuid.UUID `json:"id"`
	AOIID           string    `json:"aoiId"`
	Name            string    `json:"name"`
	AssetType       int       `json:"assetType"`
	AssetTypeName   string    `json:"assetTypeName"`
	Criticality     int       `json:"criticality"`
	CriticalityName string    `json:"criticalityName"`
	SourceDataset   string    `json:"sourceDataset,omitempty"`
}

var assetQuery = &entityQuery[georisk.Asset, AssetItem]{
	entity: EntityAsset,
	table:  "assets",
	filters: newFieldSet(
		enumField("assetType", "assets", "asset_type", georisk.AssetTypes),
		ordinalField("criticality", "assets", "criticality", georisk.Criticalities),
		textField("name", "assets", "name"),
		textField("sourceDataset", "assets", "source_dataset"),
	),
	sortable: newFieldSet(
		textField("name", "assets", "name"),
		numberField("assetType", "assets", "asset_type"),
		numberField("criticality", "assets", "criticality"),
		timeField("createdAt", "assets", "created_at"),
	),
	defaultOrder: []orderTerm{
		{column: col("assets", "name")},
		{column: col("assets", "id")},
	},
	dates: newFieldSet(
		timeField("createdAt", "assets", "created_at"),
	),
	defaultDate: "createdAt",
	aoiColumn:   col("assets", "aoi_id"),
	item: func(a *georisk.Asset) AssetItem {
		return AssetItem{
			ID:              a.ID,
			AOIID:           a.AOIID,
			Name:            a.Name,
			AssetType:       int(a.AssetType),
			AssetTypeName:   a.AssetType.String(),
			Criticality:     int(a.Criticality),
			CriticalityName: a.Criticality.String(),
			SourceDataset:   a.SourceDataset,
		}
	},
	feature: func(a *georisk.Asset) Feature {
		return newFeature(a.ID.String(), a.Geometry, map[string]any{
			"name":            a.Name,
			"assetTypeName":   a.AssetType.String(),
			"criticalityName": a.Criticality.String(),
		})
	},
}
