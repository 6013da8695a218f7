package lib

import (
	"context"
	"fmt"
	"net/http"

	apphistory "github.com/slok/farmer/internal/app/history"
	apprun "github.com/slok/farmer/internal/app/run"
	appstatus "github.com/slok/farmer/internal/app/status"
	"github.com/slok/farmer/internal/farm"
	"github.com/slok/farmer/internal/i18n"
	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/sign"
	"github.com/slok/farmer/internal/storage"
	"github.com/slok/farmer/internal/storage/memory"
	"github.com/slok/farmer/internal/storage/sqlite"
)

// Signer computes the signature of a farm request for an action and its JSON body.
type Signer = sign.Signer

// SignerFunc is a helper to use functions as a [Signer].
type SignerFunc = sign.SignerFunc

// Config configures the SDK client.
//
// A signer is required, set SignSecret or Signer.
type Config struct {
	// SignSecret is the shared secret used to sign the requests with HMAC-SHA256.
	SignSecret string
	// Signer signs the requests. Takes precedence over SignSecret.
	Signer Signer

	// BaseURL is the farm endpoint.
	// Default: the public farm endpoint.
	BaseURL string
	// HTTPClient is the transport of the requests.
	// Default: a client with a 30s timeout.
	HTTPClient *http.Client

	// Lang is the language of the step messages ("en" or "zh").
	// Default: "en".
	Lang string
	// ClaimStageRewards claims the tree stage rewards when available.
	ClaimStageRewards bool

	// Concurrency is the number of accounts [Client.RunAll] runs at the same time.
	// Default: 1.
	Concurrency int

	// DBPath is the SQLite database where the run reports are stored.
	// Default: empty, reports are kept in memory while the client lives.
	DBPath string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Signer == nil {
		if c.SignSecret == "" {
			return fmt.Errorf("sign secret or signer is required: %w", ErrNotValid)
		}
		signer, err := sign.NewHMAC(c.SignSecret)
		if err != nil {
			return err
		}
		c.Signer = signer
	}

	if c.Lang == "" {
		c.Lang = i18n.LangEnglish
	}

	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point to run farm accounts.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	factory     *farm.Factory
	repo        storage.RunReportRepository
	concurrency int
	logger      log.Logger
	closeFn     func() error
}

// New creates a new SDK client.
//
// The caller must call [Client.Close] when done to release the database
// connection (if any).
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, mapError(fmt.Errorf("invalid config: %w", err))
	}

	factory, err := farm.NewFactory(farm.FactoryConfig{
		Signer:            cfg.Signer,
		BaseURL:           cfg.BaseURL,
		HTTPClient:        cfg.HTTPClient,
		Lang:              cfg.Lang,
		ClaimStageRewards: cfg.ClaimStageRewards,
		Logger:            cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create farm factory: %w", err)
	}

	c := &Client{
		factory:     factory,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
	}

	if cfg.DBPath == "" {
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		c.repo = repo
		return c, nil
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}
	c.repo = repo
	c.closeFn = repo.Close

	return c, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

// Run runs the daily tasks of an account and stores the report.
//
// Returns [ErrNotValid] if the account is missing the ID or the cookie.
func (c *Client) Run(ctx context.Context, acc Account) (*RunReport, error) {
	reports, err := c.RunAll(ctx, []Account{acc})
	if len(reports) == 0 {
		return nil, err
	}
	return &reports[0], err
}

// RunAll runs the daily tasks of multiple accounts, [Config].Concurrency at a
// time. The reports are returned in the accounts order, also when some of them
// could not be stored, together with the storage error.
func (c *Client) RunAll(ctx context.Context, accs []Account) ([]RunReport, error) {
	accounts, err := toInternalAccounts(accs)
	if err != nil {
		return nil, err
	}

	svc, err := apprun.NewService(apprun.ServiceConfig{
		NewRunner: func(acc model.Account) (apprun.Runner, error) {
			s, err := c.factory.NewService(acc)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Repository:  c.repo,
		Concurrency: c.concurrency,
		Logger:      c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	reports, err := svc.Run(ctx, apprun.Request{Accounts: accounts})
	if err != nil {
		if reports == nil {
			return nil, mapError(err)
		}
		return fromInternalRunReportList(reports), mapError(err)
	}

	return fromInternalRunReportList(reports), nil
}

// Status reads the farm state of an account without running any task.
func (c *Client) Status(ctx context.Context, acc Account) (*Status, error) {
	accounts, err := toInternalAccounts([]Account{acc})
	if err != nil {
		return nil, err
	}

	svc, err := appstatus.NewService(appstatus.ServiceConfig{
		NewReader: func(acc model.Account) (appstatus.StateReader, error) {
			s, err := c.factory.NewService(acc)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Logger: c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	statuses, err := svc.Run(ctx, appstatus.Request{Accounts: accounts})
	if err != nil {
		return nil, mapError(err)
	}

	st := fromInternalStatus(statuses[0])
	return &st, nil
}

// HistoryOpts filters the stored run reports.
type HistoryOpts struct {
	// AccountID keeps the runs of an account, all when empty.
	AccountID string
	// Limit is the max number of runs, all when 0.
	Limit int
}

// History returns the stored run reports newest first.
func (c *Client) History(ctx context.Context, opts HistoryOpts) ([]RunReport, error) {
	svc, err := apphistory.NewService(apphistory.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	reports, err := svc.Run(ctx, apphistory.Request{
		AccountID: opts.AccountID,
		Limit:     opts.Limit,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalRunReportList(reports), nil
}

// GetRun returns a stored run report by its ID.
//
// Returns [ErrNotFound] if the run does not exist.
func (c *Client) GetRun(ctx context.Context, id string) (*RunReport, error) {
	r, err := c.repo.GetRunReport(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	report := fromInternalRunReport(*r)
	return &report, nil
}

func toInternalAccounts(accs []Account) ([]model.Account, error) {
	if len(accs) == 0 {
		return nil, fmt.Errorf("at least one account is required: %w", ErrNotValid)
	}

	accounts := make([]model.Account, 0, len(accs))
	for i, a := range accs {
		if a.ID == "" {
			return nil, fmt.Errorf("account %d: id is required: %w", i, ErrNotValid)
		}
		if a.Cookie == "" {
			return nil, fmt.Errorf("account %s: cookie is required: %w", a.ID, ErrNotValid)
		}
		accounts = append(accounts, toInternalAccount(a))
	}

	return accounts, nil
}
