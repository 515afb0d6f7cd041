package georisk

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Geometry holds a GeoJSON geometry object as raw text. It is stored in a
// plain text column so the same model works against Postgres and SQLite; on
// Postgres a generated PostGIS column is derived from it (see Migrate).
type Geometry json.RawMessage

func (g Geometry) Value() (driver.Value, error) {
	if len(g) == 0 {
		return nil, nil
	}
	return string(g), nil
}

func (g *Geometry) Scan(value interface{}) error {
	if value == nil {
		*g = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*g = append((*g)[0:0], v...)
	case string:
		*g = Geometry(v)
	default:
		return fmt.Errorf("unsupported geometry type: %T", value)
	}
	return nil
}

// MarshalJSON emits the geometry inline, or null when it is empty or not
// valid JSON.
func (g Geometry) MarshalJSON() ([]byte, error) {
	if len(g) == 0 || !json.Valid(g) {
		return []byte("null"), nil
	}
	return []byte(g), nil
}

func (g *Geometry) UnmarshalJSON(data []byte) error {
	if g == nil {
		return fmt.Errorf("Geometry: UnmarshalJSON on nil pointer")
	}
	if string(data) == "null" {
		*g = nil
		return nil
	}
	*g = append((*g)[0:0], data...)
	return nil
}

// AreaOfInterest is a named monitored region. IDs are short slugs chosen by
// the operator (e.g. "paradise-ca").
type AreaOfInterest struct {
	ID          string    `gorm:"column:id;primaryKey;size:64" json:"aoiId"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	MinLon      float64   `gorm:"column:min_lon" json:"minLon"`
	MinLat      float64   `gorm:"column:min_lat" json:"minLat"`
	MaxLon      float64   `gorm:"column:max_lon" json:"maxLon"`
	MaxLat      float64   `gorm:"column:max_lat" json:"maxLat"`
	CenterLon   float64   `gorm:"column:center_lon" json:"centerLon"`
	CenterLat   float64   `gorm:"column:center_lat" json:"centerLat"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (AreaOfInterest) TableName() string {
	return "areas_of_interest"
}

type Asset struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AOIID         string      `gorm:"column:aoi_id;size:64;index;not null" json:"aoiId"`
	Name          string      `gorm:"column:name;not null" json:"name"`
	AssetType     AssetType   `gorm:"column:asset_type;index" json:"assetType"`
	Criticality   Criticality `gorm:"column:criticality" json:"criticality"`
	Geometry      Geometry    `gorm:"column:geometry_json;type:text" json:"geometry"`
	SourceDataset string      `gorm:"column:source_dataset" json:"sourceDataset,omitempty"`
	CreatedAt     time.Time   `gorm:"column:created_at" json:"createdAt"`
}

func (Asset) TableName() string {
	return "assets"
}

// ProcessingRun is one before/after imagery comparison over an area.
type ProcessingRun struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AOIID         string           `gorm:"column:aoi_id;size:64;index;not null" json:"aoiId"`
	Status        ProcessingStatus `gorm:"column:status;index" json:"status"`
	BeforeDate    time.Time        `gorm:"column:before_date" json:"beforeDate"`
	AfterDate     time.Time        `gorm:"column:after_date" json:"afterDate"`
	BeforeSceneID string           `gorm:"column:before_scene_id" json:"beforeSceneId,omitempty"`
	AfterSceneID  string           `gorm:"column:after_scene_id" json:"afterSceneId,omitempty"`
	ErrorMessage  string           `gorm:"column:error_message" json:"errorMessage,omitempty"`
	CreatedAt     time.Time        `gorm:"column:created_at" json:"createdAt"`
	StartedAt     *time.Time       `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt   *time.Time       `gorm:"column:completed_at" json:"completedAt,omitempty"`
}

func (ProcessingRun) TableName() string {
	return "processing_runs"
}

// ChangePolygon is a region where the NDVI comparison detected change.
// Terrain and classifier fields are optional enrichment.
type ChangePolygon struct {
	ID              uuid.UUID     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RunID           uuid.UUID     `gorm:"column:run_id;type:uuid;index;not null" json:"runId"`
	Run             ProcessingRun `gorm:"foreignKey:RunID" json:"-"`
	Geometry        Geometry      `gorm:"column:geometry_json;type:text" json:"geometry"`
	AreaSqMeters    float64       `gorm:"column:area_sq_meters" json:"areaSqMeters"`
	NdviDropMean    float64       `gorm:"column:ndvi_drop_mean" json:"ndviDropMean"`
	NdviDropMax     float64       `gorm:"column:ndvi_drop_max" json:"ndviDropMax"`
	ChangeType      ChangeType    `gorm:"column:change_type;index" json:"changeType"`
	SlopeDegreeMean *float64      `gorm:"column:slope_degree_mean" json:"slopeDegreeMean,omitempty"`
	SlopeDegreeMax  *float64      `gorm:"column:slope_degree_max" json:"slopeDegreeMax,omitempty"`
	AspectDegrees   *float64      `gorm:"column:aspect_degrees" json:"aspectDegrees,omitempty"`
	ElevationM      *float64      `gorm:"column:elevation_m" json:"elevationM,omitempty"`
	LandCoverClass  string        `gorm:"column:land_cover_class" json:"landCoverClass,omitempty"`
	MLConfidence    *float64      `gorm:"column:ml_confidence" json:"mlConfidence,omitempty"`
	MLModelVersion  string        `gorm:"column:ml_model_version" json:"mlModelVersion,omitempty"`
	DetectedAt      time.Time     `gorm:"column:detected_at" json:"detectedAt"`
}

func (ChangePolygon) TableName() string {
	return "change_polygons"
}

// RiskEvent links a change polygon to a nearby asset with a 0-100 score.
type RiskEvent struct {
	ID              uuid.UUID     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ChangePolygonID uuid.UUID     `gorm:"column:change_polygon_id;type:uuid;index;not null" json:"changePolygonId"`
	ChangePolygon   ChangePolygon `gorm:"foreignKey:ChangePolygonID" json:"-"`
	AssetID         uuid.UUID     `gorm:"column:asset_id;type:uuid;index;not null" json:"assetId"`
	Asset           Asset         `gorm:"foreignKey:AssetID" json:"-"`
	RiskScore       int           `gorm:"column:risk_score;index" json:"riskScore"`
	RiskLevel       RiskLevel     `gorm:"column:risk_level" json:"riskLevel"`
	DistanceMeters  float64       `gorm:"column:distance_meters" json:"distanceMeters"`
	ScoringFactors  string        `gorm:"column:scoring_factors_json;type:text" json:"-"`
	IsAcknowledged  bool          `gorm:"column:is_acknowledged;default:false" json:"isAcknowledged"`
	AcknowledgedAt  *time.Time    `gorm:"column:acknowledged_at" json:"acknowledgedAt,omitempty"`
	AcknowledgedBy  string        `gorm:"column:acknowledged_by" json:"acknowledgedBy,omitempty"`
	CreatedAt       time.Time     `gorm:"column:created_at" json:"createdAt"`
}

func (RiskEvent) TableName() string {
	return "risk_events"
}

// BeforeSave keeps the stored level consistent with the score.
func (e *RiskEvent) BeforeSave(tx *gorm.DB) error {
	e.RiskLevel = RiskLevelForScore(e.RiskScore)
	return nil
}

// Models lists every table owned by this package, parents first.
func Models() []interface{} {
	return []interface{}{
		&AreaOfInterest{},
		&Asset{},
		&ProcessingRun{},
		&ChangePolygon{},
		&RiskEvent{},
	}
}
