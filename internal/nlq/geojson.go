package nlq

import "github.com/izzystu/geo-change-risk-sub000/internal/georisk"

// FeatureCollection is a GeoJSON FeatureCollection of query results.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string           `json:"type"`
	ID         string           `json:"id,omitempty"`
	Geometry   georisk.Geometry `json:"geometry"`
	Properties map[string]any   `json:"properties"`
}

func newFeatureCollection(n int) *FeatureCollection {
	return &FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, n)}
}

func newFeature(id string, geom georisk.Geometry, props map[string]any) Feature {
	return Feature{Type: "Feature", ID: id, Geometry: geom, Properties: props}
}
