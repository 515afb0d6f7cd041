package nlq

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryResult is one executed page plus the total match count.
type QueryResult struct {
	TotalCount int
	Items      []any
	// GeoJSON is nil for entities without geometry.
	GeoJSON *FeatureCollection
}

// PlanExecutor runs a validated plan against the store.
type PlanExecutor interface {
	Execute(ctx context.Context, plan *QueryPlan) (*QueryResult, error)
}

type Executor struct {
	db *gorm.DB
}

var _ PlanExecutor = (*Executor)(nil)

func NewExecutor(d *gorm.DB) *Executor {
	return &Executor{db: d}
}

// Execute dispatches on the plan's target entity. Unknown entities produce
// an empty result rather than an error.
func (e *Executor) Execute(ctx context.Context, plan *QueryPlan) (*QueryResult, error) {
	if plan == nil {
		return &QueryResult{Items: []any{}}, nil
	}

	entity, ok := plan.TargetEntity.Canonical()
	if !ok {
		log.Printf("[nlq] unknown target entity %q, returning no results", plan.TargetEntity)
		return &QueryResult{Items: []any{}}, nil
	}

	start := time.Now()
	var (
		res *QueryResult
		err error
	)
	switch entity {
	case EntityRiskEvent:
		res, err = runQuery(ctx, e.db, plan, riskEventQuery, e.proximityScope(ctx, EntityRiskEvent, plan.SpatialFilter))
	case EntityChangePolygon:
		res, err = runQuery(ctx, e.db, plan, changePolygonQuery, e.proximityScope(ctx, EntityChangePolygon, plan.SpatialFilter))
	case EntityAsset:
		res, err = runQuery(ctx, e.db, plan, assetQuery, e.proximityScope(ctx, EntityAsset, plan.SpatialFilter))
	case EntityProcessingRun:
		res, err = runQuery(ctx, e.db, plan, processingRunQuery, e.proximityScope(ctx, EntityProcessingRun, plan.SpatialFilter))
	}
	observeExecution(entity, time.Since(start), res, err)
	return res, err
}

type orderTerm struct {
	column clause.Column
	desc   bool
}

// sql renders the term with NULLS LAST so nullable columns sort the same on
// Postgres and SQLite.
func (o orderTerm) sql() string {
	dir := "ASC"
	if o.desc {
		dir = "DESC"
	}
	return o.column.Table + "." + o.column.Name + " " + dir + " NULLS LAST"
}

// entityQuery describes how plans against one entity are executed: M is the
// stored model, O the item returned to callers.
type entityQuery[M any, O any] struct {
	entity       TargetEntity
	table        string
	filters      fieldSet
	sortable     fieldSet
	defaultOrder []orderTerm
	dates        fieldSet
	defaultDate  string
	aoiColumn    clause.Column

	// from adds the joins that filters and AOI scoping reference.
	from    func(tx *gorm.DB) *gorm.DB
	preload []string
	item    func(*M) O
	// feature is nil for entities without geometry.
	feature func(*M) Feature
}

func (q *entityQuery[M, O]) idColumn() clause.Column {
	return col(q.table, "id")
}

// runQuery applies AOI scope, filters, date range and any extra scopes, counts
// the matches, then fetches one ordered page.
func runQuery[M any, O any](ctx context.Context, d *gorm.DB, plan *QueryPlan, q *entityQuery[M, O], scopes ...func(*gorm.DB) *gorm.DB) (*QueryResult, error) {
	tx := d.WithContext(ctx).Model(new(M))
	if q.from != nil {
		tx = q.from(tx)
	}
	if plan.AOIID != "" {
		tx = tx.Where(clause.Eq{Column: q.aoiColumn, Value: plan.AOIID})
	}
	tx = applyFilters(tx, q.entity, q.filters, plan.Filters)
	tx = q.applyDateRange(tx, plan.DateRange)
	for _, scope := range scopes {
		if scope != nil {
			tx = scope(tx)
		}
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", q.entity, err)
	}

	page := tx.Select(q.table + ".*")
	for _, term := range q.ordering(plan) {
		page = page.Order(term.sql())
	}
	for _, assoc := range q.preload {
		page = page.Preload(assoc)
	}

	var rows []M
	if err := page.Limit(plan.EffectiveLimit()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", q.entity, err)
	}

	res := &QueryResult{TotalCount: int(total), Items: make([]any, 0, len(rows))}
	if q.feature != nil {
		res.GeoJSON = newFeatureCollection(len(rows))
	}
	for i := range rows {
		res.Items = append(res.Items, q.item(&rows[i]))
		if q.feature != nil {
			res.GeoJSON.Features = append(res.GeoJSON.Features, q.feature(&rows[i]))
		}
	}
	return res, nil
}

// applyFilters ANDs every applicable filter onto tx. Filters on unknown
// properties, with unknown operators or unparseable values are skipped.
func applyFilters(tx *gorm.DB, entity TargetEntity, fields fieldSet, filters []AttributeFilter) *gorm.DB {
	for _, f := range filters {
		expr, reason := filterCondition(fields, f)
		if reason != "" {
			logDropped(entity, f, reason)
			continue
		}
		tx = tx.Where(expr)
	}
	return tx
}

func filterCondition(fields fieldSet, f AttributeFilter) (clause.Expression, dropReason) {
	fld, ok := fields.lookup(f.Property)
	if !ok {
		return nil, dropUnknownProperty
	}
	op, ok := f.Operator.Normalize()
	if !ok {
		return nil, dropUnknownOperator
	}
	return fld.condition(op, f.Value)
}

func logDropped(entity TargetEntity, f AttributeFilter, reason dropReason) {
	log.Printf("[nlq] ignoring %s filter %s %s %q: %s", entity, f.Property, f.Operator, string(f.Value), reason)
	droppedFilters.WithLabelValues(string(entity), string(reason)).Inc()
}

func (q *entityQuery[M, O]) applyDateRange(tx *gorm.DB, dr *DateRange) *gorm.DB {
	if dr == nil || (dr.From == "" && dr.To == "") {
		return tx
	}

	name := dr.Property
	if name == "" {
		name = q.defaultDate
	}
	fld, ok := q.dates.lookup(name)
	if !ok {
		log.Printf("[nlq] ignoring %s date range on %q: not a date property", q.entity, dr.Property)
		droppedFilters.WithLabelValues(string(q.entity), string(dropUnknownProperty)).Inc()
		return tx
	}

	if dr.From != "" {
		if t, _, ok := parseTime(dr.From); ok {
			tx = tx.Where(clause.Gte{Column: fld.column, Value: t})
		} else {
			log.Printf("[nlq] ignoring %s date range lower bound %q", q.entity, dr.From)
		}
	}
	if dr.To != "" {
		t, dateOnly, ok := parseTime(dr.To)
		switch {
		case !ok:
			log.Printf("[nlq] ignoring %s date range upper bound %q", q.entity, dr.To)
		case dateOnly:
			// A bare date includes the whole day.
			tx = tx.Where(clause.Lt{Column: fld.column, Value: t.AddDate(0, 0, 1)})
		default:
			tx = tx.Where(clause.Lte{Column: fld.column, Value: t})
		}
	}
	return tx
}

// ordering returns the requested sort (when whitelisted) or the entity
// default. The primary key always closes the list.
func (q *entityQuery[M, O]) ordering(plan *QueryPlan) []orderTerm {
	if plan.OrderBy != "" {
		if fld, ok := q.sortable.lookup(plan.OrderBy); ok {
			return []orderTerm{
				{column: fld.column, desc: bool(plan.OrderDescending)},
				{column: q.idColumn()},
			}
		}
		log.Printf("[nlq] ignoring %s orderBy %q: not sortable", q.entity, plan.OrderBy)
	}
	return q.defaultOrder
}
