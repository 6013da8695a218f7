package storage

import (
	"context"

	"github.com/slok/farmer/internal/model"
)

// RunReportRepository is the interface for the run history persistence.
type RunReportRepository interface {
	SaveRunReport(ctx context.Context, r model.RunReport) error
	GetRunReport(ctx context.Context, id string) (*model.RunReport, error)
	// ListRunReports returns the reports newest first.
	ListRunReports(ctx context.Context, opts ListRunReportsOpts) ([]model.RunReport, error)
}

// ListRunReportsOpts are the options to list run reports.
type ListRunReportsOpts struct {
	// AccountID filters the reports of an account, all accounts when empty.
	AccountID string
	// Limit is the max number of reports, no limit when 0.
	Limit int
}
