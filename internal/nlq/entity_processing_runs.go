package nlq

import (
	"time"

	"github.com/google/uuid"
	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
)

type ProcessingRunItem struct {
	ID           uuid.UUID  `json:"id"`
	AOIID        string     `json:"aoiId"`
	Status       int        `json:"status"`
	StatusName   string     `json:"statusName"`
	BeforeDate   time.Time  `json:"beforeDate"`
	AfterDate    time.Time  `json:"afterDate"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// Runs have no geometry of their own, so results carry no GeoJSON.
var processingRunQuery = &entityQuery[georisk.ProcessingRun, ProcessingRunItem]{
	entity: EntityProcessingRun,
	table:  "processing_runs",
	filters: newFieldSet(
		enumField("status", "processing_runs", "status", georisk.ProcessingStatuses),
		timeField("beforeDate", "processing_runs", "before_date"),
		timeField("afterDate", "processing_runs", "after_date"),
	),
	sortable: newFieldSet(
		timeField("createdAt", "processing_runs", "created_at"),
		timeField("beforeDate", "processing_runs", "before_date"),
		timeField("afterDate", "processing_runs", "after_date"),
	),
	defaultOrder: []orderTerm{
		{column: col("processing_runs", "created_at"), desc: true},
		{column: col("processing_runs", "id")},
	},
	dates: newFieldSet(
		timeField("createdAt", "processing_runs", "created_at"),
		timeField("beforeDate", "processing_runs", "before_date"),
		timeField("afterDate", "processing_runs", "after_date"),
		timeField("completedAt", "processing_runs", "completed_at"),
	),
	defaultDate: "createdAt",
	aoiColumn:   col("processing_runs", "aoi_id"),
	item: func(r *georisk.ProcessingRun) ProcessingRunItem {
		return ProcessingRunItem{
			ID:           r.ID,
			AOIID:        r.AOIID,
			Status:       int(r.Status),
			StatusName:   r.Status.String(),
			BeforeDate:   r.BeforeDate,
			AfterDate:    r.AfterDate,
			CreatedAt:    r.CreatedAt,
			CompletedAt:  r.CompletedAt,
			ErrorMessage: r.ErrorMessage,
		}
	},
}
