package nlq

import (
	"context"
	"log"
	"strings"

	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Proximity between assets and change polygons is not computed on the fly.
// Risk events already record the distance of each scored asset/polygon pair,
// so "within N meters of X" is answered through that link table: resolve the
// reference set X, then keep rows whose risk event pairs them with a member
// of X at distance_meters <= N.

// DefaultProximityMeters bounds within_distance filters that carry no
// positive distance.
const DefaultProximityMeters = 500

// proximityLink describes how a target entity reaches a reference entity
// through risk_events.
type proximityLink struct {
	// targetColumn is matched against the link subquery.
	targetColumn clause.Column
	// linkTarget and linkReference are risk_events columns.
	linkTarget    string
	linkReference string
}

var proximityLinks = map[TargetEntity]map[TargetEntity]proximityLink{
	EntityRiskEvent: {
		EntityAsset:         {linkReference: "asset_id"},
		EntityChangePolygon: {linkReference: "change_polygon_id"},
	},
	EntityAsset: {
		EntityChangePolygon: {targetColumn: col("assets", "id"), linkTarget: "asset_id", linkReference: "change_polygon_id"},
	},
	EntityChangePolygon: {
		EntityAsset: {targetColumn: col("change_polygons", "id"), linkTarget: "change_polygon_id", linkReference: "asset_id"},
	},
}

// proximityScope turns a spatial filter into a query scope, or nil when the
// filter is absent or cannot be applied to this target.
func (e *Executor) proximityScope(ctx context.Context, target TargetEntity, sf *SpatialFilter) func(*gorm.DB) *gorm.DB {
	if sf == nil {
		return nil
	}

	switch SpatialOperation(strings.ToLower(strings.TrimSpace(string(sf.Operation)))) {
	case SpatialWithinDistance:
	case SpatialIntersects:
		log.Printf("[nlq] spatial operation intersects is not supported, ignoring")
		droppedFilters.WithLabelValues(string(target), "spatial_unsupported").Inc()
		return nil
	default:
		log.Printf("[nlq] unknown spatial operation %q, ignoring", sf.Operation)
		droppedFilters.WithLabelValues(string(target), "spatial_unsupported").Inc()
		return nil
	}

	ref, ok := sf.ReferenceEntityType.Canonical()
	if !ok {
		log.Printf("[nlq] unknown spatial reference entity %q, ignoring", sf.ReferenceEntityType)
		droppedFilters.WithLabelValues(string(target), "spatial_unsupported").Inc()
		return nil
	}
	link, ok := proximityLinks[target][ref]
	if !ok {
		log.Printf("[nlq] no proximity link from %s to %s, ignoring spatial filter", target, ref)
		droppedFilters.WithLabelValues(string(target), "spatial_unsupported").Inc()
		return nil
	}

	refIDs := e.referenceSet(ctx, ref, sf.ReferenceFilters)
	distance := float64(sf.DistanceMeters)
	if !(distance > 0) {
		distance = DefaultProximityMeters
	}

	return func(tx *gorm.DB) *gorm.DB {
		if target == EntityRiskEvent {
			return tx.
				Where(clause.Expr{SQL: "? IN (?)", Vars: []any{col("risk_events", link.linkReference), refIDs}}).
				Where(clause.Lte{Column: col("risk_events", "distance_meters"), Value: distance})
		}

		linked := e.db.WithContext(ctx).
			Model(&georisk.RiskEvent{}).
			Select("risk_events." + link.linkTarget).
			Where(clause.Expr{SQL: "? IN (?)", Vars: []any{col("risk_events", link.linkReference), refIDs}}).
			Where(clause.Lte{Column: col("risk_events", "distance_meters"), Value: distance})
		return tx.Where(clause.Expr{SQL: "? IN (?)", Vars: []any{link.targetColumn, linked}})
	}
}

// referenceSet builds a subquery selecting the ids of the reference entity
// that match filters. Filters the reference entity does not know are skipped.
func (e *Executor) referenceSet(ctx context.Context, ref TargetEntity, filters []AttributeFilter) *gorm.DB {
	var (
		model  any
		table  string
		fields fieldSet
	)
	switch ref {
	case EntityAsset:
		model, table, fields = &georisk.Asset{}, assetQuery.table, assetQuery.filters
	case EntityChangePolygon:
		model, table, fields = &georisk.ChangePolygon{}, changePolygonQuery.table, changePolygonQuery.filters
	}

	sub := e.db.WithContext(ctx).Model(model).Select(table + ".id")
	return applyFilters(sub, ref, fields, filters)
}
