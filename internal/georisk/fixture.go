package georisk

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixture is the YAML layout accepted by cmd/seed. Enum fields use display
// names ("Hospital", "VegetationLoss") and geometries are inline GeoJSON maps.
type Fixture struct {
	AreasOfInterest []FixtureAOI     `yaml:"areasOfInterest"`
	Assets          []FixtureAsset   `yaml:"assets"`
	Runs            []FixtureRun     `yaml:"runs"`
	ChangePolygons  []FixturePolygon `yaml:"changePolygons"`
	RiskEvents      []FixtureEvent   `yaml:"riskEvents"`
}

type FixtureAOI struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	BBox        [4]float64 `yaml:"bbox"` // minLon, minLat, maxLon, maxLat
}

type FixtureAsset struct {
	ID            string         `yaml:"id"`
	AOI           string         `yaml:"aoi"`
	Name          string         `yaml:"name"`
	Type          string         `yaml:"type"`
	Criticality   string         `yaml:"criticality"`
	SourceDataset string         `yaml:"sourceDataset"`
	Geometry      map[string]any `yaml:"geometry"`
}

type FixtureRun struct {
	ID         string `yaml:"id"`
	AOI        string `yaml:"aoi"`
	Status     string `yaml:"status"`
	BeforeDate string `yaml:"beforeDate"`
	AfterDate  string `yaml:"afterDate"`
	CreatedAt  string `yaml:"createdAt"`
}

type FixturePolygon struct {
	ID              string         `yaml:"id"`
	Run             string         `yaml:"run"`
	AreaSqMeters    float64        `yaml:"areaSqMeters"`
	NdviDropMean    float64        `yaml:"ndviDropMean"`
	NdviDropMax     float64        `yaml:"ndviDropMax"`
	ChangeType      string         `yaml:"changeType"`
	SlopeDegreeMean *float64       `yaml:"slopeDegreeMean"`
	LandCoverClass  string         `yaml:"landCoverClass"`
	MLConfidence    *float64       `yaml:"mlConfidence"`
	DetectedAt      string         `yaml:"detectedAt"`
	Geometry        map[string]any `yaml:"geometry"`
}

type FixtureEvent struct {
	ID             string  `yaml:"id"`
	Polygon        string  `yaml:"polygon"`
	Asset          string  `yaml:"asset"`
	RiskScore      int     `yaml:"riskScore"`
	DistanceMeters float64 `yaml:"distanceMeters"`
	Acknowledged   bool    `yaml:"acknowledged"`
	CreatedAt      string  `yaml:"createdAt"`
}

func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixture(data)
}

func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// fixtureSet is a fixture converted to models, ready to write.
type fixtureSet struct {
	aois     []AreaOfInterest
	assets   []Asset
	runs     []ProcessingRun
	polygons []ChangePolygon
	events   []RiskEvent
}

func (f *Fixture) build() (*fixtureSet, error) {
	out := &fixtureSet{}
	now := time.Now().UTC()

	for _, a := range f.AreasOfInterest {
		if a.ID == "" || a.Name == "" {
			return nil, fmt.Errorf("area of interest needs id and name")
		}
		out.aois = append(out.aois, AreaOfInterest{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			MinLon:      a.BBox[0],
			MinLat:      a.BBox[1],
			MaxLon:      a.BBox[2],
			MaxLat:      a.BBox[3],
			CenterLon:   (a.BBox[0] + a.BBox[2]) / 2,
			CenterLat:   (a.BBox[1] + a.BBox[3]) / 2,
			CreatedAt:   now,
		})
	}

	for _, a := range f.Assets {
		id, err := uuid.Parse(a.ID)
		if err != nil {
			return nil, fmt.Errorf("asset %q: %w", a.Name, err)
		}
		typ, ok := AssetTypes.Parse(a.Type)
		if !ok {
			return nil, fmt.Errorf("asset %q: unknown type %q", a.Name, a.Type)
		}
		crit, ok := Criticalities.Parse(a.Criticality)
		if !ok {
			return nil, fmt.Errorf("asset %q: unknown criticality %q", a.Name, a.Criticality)
		}
		geom, err := geometryFromMap(a.Geometry)
		if err != nil {
			return nil, fmt.Errorf("asset %q: %w", a.Name, err)
		}
		out.assets = append(out.assets, Asset{
			ID:            id,
			AOIID:         a.AOI,
			Name:          a.Name,
			AssetType:     typ,
			Criticality:   crit,
			Geometry:      geom,
			SourceDataset: a.SourceDataset,
			CreatedAt:     now,
		})
	}

	for _, r := range f.Runs {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("run %q: %w", r.ID, err)
		}
		status, ok := ProcessingStatuses.Parse(r.Status)
		if !ok {
			return nil, fmt.Errorf("run %s: unknown status %q", r.ID, r.Status)
		}
		before, err := parseFixtureTime(r.BeforeDate, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("run %s beforeDate: %w", r.ID, err)
		}
		after, err := parseFixtureTime(r.AfterDate, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("run %s afterDate: %w", r.ID, err)
		}
		created, err := parseFixtureTime(r.CreatedAt, now)
		if err != nil {
			return nil, fmt.Errorf("run %s createdAt: %w", r.ID, err)
		}
		run := ProcessingRun{
			ID:         id,
			AOIID:      r.AOI,
			Status:     status,
			BeforeDate: before,
			AfterDate:  after,
			CreatedAt:  created,
		}
		if status == StatusCompleted {
			run.CompletedAt = &created
		}
		out.runs = append(out.runs, run)
	}

	for _, p := range f.ChangePolygons {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, fmt.Errorf("change polygon %q: %w", p.ID, err)
		}
		runID, err := uuid.Parse(p.Run)
		if err != nil {
			return nil, fmt.Errorf("change polygon %s run: %w", p.ID, err)
		}
		ct, ok := ChangeTypes.Parse(p.ChangeType)
		if !ok && p.ChangeType != "" {
			return nil, fmt.Errorf("change polygon %s: unknown change type %q", p.ID, p.ChangeType)
		}
		detected, err := parseFixtureTime(p.DetectedAt, now)
		if err != nil {
			return nil, fmt.Errorf("change polygon %s detectedAt: %w", p.ID, err)
		}
		geom, err := geometryFromMap(p.Geometry)
		if err != nil {
			return nil, fmt.Errorf("change polygon %s: %w", p.ID, err)
		}
		out.polygons = append(out.polygons, ChangePolygon{
			ID:              id,
			RunID:           runID,
			Geometry:        geom,
			AreaSqMeters:    p.AreaSqMeters,
			NdviDropMean:    p.NdviDropMean,
			NdviDropMax:     p.NdviDropMax,
			ChangeType:      ct,
			SlopeDegreeMean: p.SlopeDegreeMean,
			LandCoverClass:  p.LandCoverClass,
			MLConfidence:    p.MLConfidence,
			DetectedAt:      detected,
		})
	}

	for _, e := range f.RiskEvents {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("risk event %q: %w", e.ID, err)
		}
		polygonID, err := uuid.Parse(e.Polygon)
		if err != nil {
			return nil, fmt.Errorf("risk event %s polygon: %w", e.ID, err)
		}
		assetID, err := uuid.Parse(e.Asset)
		if err != nil {
			return nil, fmt.Errorf("risk event %s asset: %w", e.ID, err)
		}
		if e.RiskScore < 0 || e.RiskScore > 100 {
			return nil, fmt.Errorf("risk event %s: score %d outside 0-100", e.ID, e.RiskScore)
		}
		created, err := parseFixtureTime(e.CreatedAt, now)
		if err != nil {
			return nil, fmt.Errorf("risk event %s createdAt: %w", e.ID, err)
		}
		out.events = append(out.events, RiskEvent{
			ID:              id,
			ChangePolygonID: polygonID,
			AssetID:         assetID,
			RiskScore:       e.RiskScore,
			DistanceMeters:  e.DistanceMeters,
			IsAcknowledged:  e.Acknowledged,
			ScoringFactors:  "{}",
			CreatedAt:       created,
		})
	}
	return out, nil
}

// Apply upserts the fixture in one transaction, parents first.
func (f *Fixture) Apply(ctx context.Context, d *gorm.DB) error {
	set, err := f.build()
	if err != nil {
		return err
	}

	return d.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true}).Session(&gorm.Session{})
		if len(set.aois) > 0 {
			if err := upsert.Create(&set.aois).Error; err != nil {
				return fmt.Errorf("areas of interest: %w", err)
			}
		}
		if len(set.assets) > 0 {
			if err := upsert.Create(&set.assets).Error; err != nil {
				return fmt.Errorf("assets: %w", err)
			}
		}
		if len(set.runs) > 0 {
			if err := upsert.Create(&set.runs).Error; err != nil {
				return fmt.Errorf("runs: %w", err)
			}
		}
		if len(set.polygons) > 0 {
			if err := upsert.Omit("Run").Create(&set.polygons).Error; err != nil {
				return fmt.Errorf("change polygons: %w", err)
			}
		}
		if len(set.events) > 0 {
			if err := upsert.Omit("ChangePolygon", "Asset").Create(&set.events).Error; err != nil {
				return fmt.Errorf("risk events: %w", err)
			}
		}
		return nil
	})
}

func geometryFromMap(m map[string]any) (Geometry, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}
	return Geometry(raw), nil
}

func parseFixtureTime(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
