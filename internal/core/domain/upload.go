package domain

import "time"

// UploadResult summarizes one full pipeline run triggered by a payroll
// upload.
type UploadResult struct {
	Status         string    `json:"status"`
	PeriodStart    time.Time `json:"periodStart"`
	PeriodEnd      time.Time `json:"periodEnd"`
	NewRows        int       `json:"newRows"`
	TotalRows      int       `json:"totalRows"`
	AggregatedRows int       `json:"aggregatedRows"`
}
