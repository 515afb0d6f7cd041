package nlq

import (
	"context"
	"log"
	"time"

	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const tracerName = "georisk/nlq"

type QueryRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
	AOIID string `json:"aoiId,omitempty" validate:"omitempty,max=64"`
}

// QueryResponse is the envelope returned for every query. Failures set
// Success=false and ErrorMessage; QueryPlan is kept when it exists.
type QueryResponse struct {
	Success        bool               `json:"success"`
	Interpretation string             `json:"interpretation"`
	QueryPlan      *QueryPlan         `json:"queryPlan,omitempty"`
	TotalCount     *int               `json:"totalCount,omitempty"`
	Results        []any              `json:"results"`
	GeoJSON        *FeatureCollection `json:"geoJson"`
	ErrorMessage   string             `json:"errorMessage,omitempty"`
}

type PlanResponse struct {
	Success        bool       `json:"success"`
	Interpretation string     `json:"interpretation"`
	QueryPlan      *QueryPlan `json:"queryPlan,omitempty"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
}

type HealthResponse struct {
	Available bool `json:"available"`
	Database  bool `json:"database"`
}

// Service runs the full question → plan → results flow.
type Service struct {
	translator TranslationClient
	executor   PlanExecutor
	aois       AOIDirectory
	now        func() time.Time
}

func NewService(translator TranslationClient, executor PlanExecutor, aois AOIDirectory) *Service {
	return &Service{translator: translator, executor: executor, aois: aois, now: time.Now}
}

// Query never returns an error: every failure is folded into the response.
func (s *Service) Query(ctx context.Context, req QueryRequest) QueryResponse {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nlq.Query")
	defer span.End()
	span.SetAttributes(attribute.Int("nlq.query_length", len(req.Query)), attribute.String("nlq.request_aoi", req.AOIID))

	plan, res := s.plan(ctx, req)
	if !res.Success {
		queriesTotal.WithLabelValues("translation_failed").Inc()
		span.SetStatus(codes.Error, res.ErrorMessage)
		return QueryResponse{
			Success:        false,
			Interpretation: res.Interpretation,
			ErrorMessage:   res.ErrorMessage,
		}
	}

	execCtx, execSpan := otel.Tracer(tracerName).Start(ctx, "nlq.Execute")
	execSpan.SetAttributes(attribute.String("nlq.entity", string(plan.TargetEntity)), attribute.String("nlq.aoi", plan.AOIID))
	result, err := s.executor.Execute(execCtx, plan)
	if err != nil {
		execSpan.RecordError(err)
		execSpan.SetStatus(codes.Error, "execution failed")
		execSpan.End()
		span.SetStatus(codes.Error, "execution failed")
		queriesTotal.WithLabelValues("execution_failed").Inc()
		log.Printf("[nlq] execution failed for %s: %v", plan.TargetEntity, err)
		return QueryResponse{
			Success:        false,
			Interpretation: res.Interpretation,
			QueryPlan:      plan,
			ErrorMessage:   "Query execution failed: " + err.Error(),
		}
	}
	execSpan.SetAttributes(attribute.Int("nlq.total_count", result.TotalCount))
	execSpan.End()

	queriesTotal.WithLabelValues("success").Inc()
	total := result.TotalCount
	items := result.Items
	if items == nil {
		items = []any{}
	}
	return QueryResponse{
		Success:        true,
		Interpretation: res.Interpretation,
		QueryPlan:      plan,
		TotalCount:     &total,
		Results:        items,
		GeoJSON:        result.GeoJSON,
	}
}

// Plan translates without executing.
func (s *Service) Plan(ctx context.Context, req QueryRequest) PlanResponse {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nlq.Plan")
	defer span.End()

	plan, res := s.plan(ctx, req)
	if !res.Success {
		span.SetStatus(codes.Error, res.ErrorMessage)
		return PlanResponse{Interpretation: res.Interpretation, ErrorMessage: res.ErrorMessage}
	}
	return PlanResponse{Success: true, Interpretation: res.Interpretation, QueryPlan: plan}
}

// plan builds the translation context, calls the translator and resolves the
// plan's area of interest. The returned plan is nil unless res.Success.
func (s *Service) plan(ctx context.Context, req QueryRequest) (*QueryPlan, TranslationResult) {
	aois, err := s.aois.ListAOIs(ctx)
	if err != nil {
		log.Printf("[nlq] could not load areas of interest, continuing without them: %v", err)
		aois = nil
	}

	tc := TranslationContext{
		CurrentAOIName: aoiName(req.AOIID, aois),
		KnownAOINames:  aoiNames(aois),
		Today:          s.now().UTC().Format("2006-01-02"),
	}

	trCtx, trSpan := otel.Tracer(tracerName).Start(ctx, "nlq.Translate")
	res := s.translator.Translate(trCtx, req.Query, tc)
	if !res.Success || res.Plan == nil {
		trSpan.SetStatus(codes.Error, res.ErrorMessage)
		trSpan.End()
		if res.ErrorMessage == "" {
			res.ErrorMessage = "The model did not produce a query plan"
		}
		res.Success = false
		return nil, res
	}
	trSpan.End()

	plan := res.Plan
	if entity, ok := plan.TargetEntity.Canonical(); ok {
		plan.TargetEntity = entity
	}
	if plan.AOIID != "" {
		if id, ok := resolveAOI(plan.AOIID, aois); ok {
			plan.AOIID = id
		} else {
			log.Printf("[nlq] could not resolve area of interest %q, ignoring", plan.AOIID)
			plan.AOIID = ""
		}
	}
	if plan.AOIID == "" && req.AOIID != "" {
		if id, ok := resolveAOI(req.AOIID, aois); ok {
			plan.AOIID = id
		} else {
			plan.AOIID = req.AOIID
		}
	}
	return plan, res
}

// Health reports translator and database reachability. Both checks run
// concurrently and neither failing is an error.
func (s *Service) Health(ctx context.Context) HealthResponse {
	var out HealthResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Available = s.translator.IsAvailable(gctx)
		return nil
	})
	g.Go(func() error {
		_, err := s.aois.ListAOIs(gctx)
		out.Database = err == nil
		return nil
	})
	_ = g.Wait()
	return out
}

// KnownAOIs lists the areas the translator is told about.
func (s *Service) KnownAOIs(ctx context.Context) ([]georisk.AreaOfInterest, error) {
	return s.aois.ListAOIs(ctx)
}
