package run

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/storage"
)

// Runner runs the daily farm tasks of an account.
type Runner interface {
	Run(ctx context.Context) model.RunReport
}

// RunnerFactory returns the runner of an account.
type RunnerFactory func(acc model.Account) (Runner, error)

// ServiceConfig is the configuration for the run service.
type ServiceConfig struct {
	NewRunner  RunnerFactory
	Repository storage.RunReportRepository
	// Concurrency is the number of accounts run at the same time.
	Concurrency int
	Logger      log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.NewRunner == nil {
		return fmt.Errorf("runner factory is required")
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Run"})

	return nil
}

// Service runs the farm of a set of accounts and stores the reports.
type Service struct {
	newRunner   RunnerFactory
	repo        storage.RunReportRepository
	concurrency int
	logger      log.Logger
}

// NewService creates a new run service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		newRunner:   cfg.NewRunner,
		repo:        cfg.Repository,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
	}, nil
}

// Request represents the run request parameters.
type Request struct {
	Accounts []model.Account
}

// Run runs every account and returns the reports in the request order. Aborted
// runs are reported, not returned as errors. Accounts are independent: a report
// that could not be saved doesn't stop the others, its error is joined to the
// returned one and the reports are returned anyway.
func (s *Service) Run(ctx context.Context, req Request) ([]model.RunReport, error) {
	if len(req.Accounts) == 0 {
		return nil, fmt.Errorf("at least one account is required: %w", model.ErrNotValid)
	}

	// Build every runner first so a bad account doesn't leave a run half done.
	runners := make([]Runner, 0, len(req.Accounts))
	for _, acc := range req.Accounts {
		r, err := s.newRunner(acc)
		if err != nil {
			return nil, fmt.Errorf("could not create runner for account %q: %w", acc.ID, err)
		}
		runners = append(runners, r)
	}

	reports := make([]model.RunReport, len(req.Accounts))
	errs := make([]error, len(req.Accounts))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, r := range runners {
		g.Go(func() error {
			report := r.Run(ctx)
			reports[i] = report

			if report.Aborted {
				s.logger.Warningf("Account %s run aborted: %s", report.AccountID, report.AbortReason)
			} else {
				s.logger.Infof("Account %s run finished with %dg drops", report.AccountID, report.TotalReward())
			}

			if err := s.repo.SaveRunReport(ctx, report); err != nil {
				s.logger.Errorf("Could not save account %s run report: %s", report.AccountID, err)
				errs[i] = fmt.Errorf("could not save run report of account %q: %w", report.AccountID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return reports, errors.Join(errs...)
}
