package status

import (
	"context"
	"fmt"

	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/model"
)

// StateReader reads the farm state of an account.
type StateReader interface {
	FarmSnapshot(ctx context.Context) (model.FarmSnapshot, error)
	CardInventory(ctx context.Context) (model.CardInventory, error)
}

// ReaderFactory returns the state reader of an account.
type ReaderFactory func(acc model.Account) (StateReader, error)

// ServiceConfig is the configuration for the status service.
type ServiceConfig struct {
	NewReader ReaderFactory
	Logger    log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.NewReader == nil {
		return fmt.Errorf("reader factory is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service retrieves the farm status of accounts without changing anything.
type Service struct {
	newReader ReaderFactory
	logger    log.Logger
}

// NewService creates a new status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		newReader: cfg.NewReader,
		logger:    cfg.Logger,
	}, nil
}

// Request represents the status request parameters.
type Request struct {
	Accounts []model.Account
}

// Run retrieves the farm status of every account. An account that can't be
// read is reported with its error, it doesn't fail the others.
func (s *Service) Run(ctx context.Context, req Request) ([]model.AccountStatus, error) {
	if len(req.Accounts) == 0 {
		return nil, fmt.Errorf("at least one account is required: %w", model.ErrNotValid)
	}

	statuses := make([]model.AccountStatus, 0, len(req.Accounts))
	for _, acc := range req.Accounts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.logger.Debugf("getting status for account: %s", acc.ID)
		statuses = append(statuses, s.status(ctx, acc))
	}

	return statuses, nil
}

func (s *Service) status(ctx context.Context, acc model.Account) model.AccountStatus {
	st := model.AccountStatus{AccountID: acc.ID, AccountName: acc.Name}

	r, err := s.newReader(acc)
	if err != nil {
		st.Error = fmt.Sprintf("could not create reader: %s", err)
		return st
	}

	snapshot, err := r.FarmSnapshot(ctx)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Snapshot = &snapshot

	// The cards are optional, the farm state is still useful without them.
	cards, err := r.CardInventory(ctx)
	if err != nil {
		s.logger.Warningf("could not get card inventory of account %s: %s", acc.ID, err)
		return st
	}
	st.Cards = &cards

	return st
}
