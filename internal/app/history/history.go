package history

import (
	"context"
	"fmt"

	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/storage"
)

// ServiceConfig is the configuration for the history service.
type ServiceConfig struct {
	Repository storage.RunReportRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service lists the stored run reports.
type Service struct {
	repo   storage.RunReportRepository
	logger log.Logger
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the history request parameters.
type Request struct {
	// AccountID filters the reports of an account, all when empty.
	AccountID string
	// Limit is the max number of reports, all when 0.
	Limit int
}

// Run returns the run reports newest first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.RunReport, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("limit can't be negative: %w", model.ErrNotValid)
	}

	s.logger.Debugf("listing run reports (account: %q, limit: %d)", req.AccountID, req.Limit)

	reports, err := s.repo.ListRunReports(ctx, storage.ListRunReportsOpts{
		AccountID: req.AccountID,
		Limit:     req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("could not list run reports: %w", err)
	}

	return reports, nil
}
