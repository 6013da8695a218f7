package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/storage"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.RunReportRepository.
type Repository struct {
	reports map[string]model.RunReport
	mu      sync.RWMutex
	logger  log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		reports: make(map[string]model.RunReport),
		logger:  cfg.Logger,
	}, nil
}

// SaveRunReport stores a run report.
func (r *Repository) SaveRunReport(ctx context.Context, report model.RunReport) error {
	if report.ID == "" {
		return fmt.Errorf("run report id is required: %w", model.ErrNotValid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reports[report.ID]; ok {
		return fmt.Errorf("run report %s: %w", report.ID, model.ErrAlreadyExists)
	}

	r.reports[report.ID] = copyReport(report)
	r.logger.Debugf("Saved run report in repository: %s", report.ID)

	return nil
}

// GetRunReport retrieves a run report by ID.
func (r *Repository) GetRunReport(ctx context.Context, id string) (*model.RunReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.reports[id]
	if !ok {
		return nil, fmt.Errorf("run report %s: %w", id, model.ErrNotFound)
	}

	c := copyReport(report)
	return &c, nil
}

// ListRunReports returns the run reports newest first.
func (r *Repository) ListRunReports(ctx context.Context, opts storage.ListRunReportsOpts) ([]model.RunReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reports := make([]model.RunReport, 0, len(r.reports))
	for _, report := range r.reports {
		if opts.AccountID != "" && report.AccountID != opts.AccountID {
			continue
		}
		reports = append(reports, copyReport(report))
	}

	slices.SortFunc(reports, func(a, b model.RunReport) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		// ULIDs sort by creation time.
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})

	if opts.Limit > 0 && len(reports) > opts.Limit {
		reports = reports[:opts.Limit]
	}

	return reports, nil
}

func copyReport(r model.RunReport) model.RunReport {
	c := r
	c.Steps = slices.Clone(r.Steps)
	if r.Initial != nil {
		p := *r.Initial
		c.Initial = &p
	}
	if r.Final != nil {
		p := *r.Final
		c.Final = &p
	}
	return c
}
