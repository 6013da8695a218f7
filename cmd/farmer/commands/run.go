package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"k8s.io/client-go/util/homedir"

	apprun "github.com/slok/farmer/internal/app/run"
	"github.com/slok/farmer/internal/conventions"
	"github.com/slok/farmer/internal/farm"
	"github.com/slok/farmer/internal/i18n"
	"github.com/slok/farmer/internal/metrics"
	metricsprometheus "github.com/slok/farmer/internal/metrics/prometheus"
	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/printer"
	"github.com/slok/farmer/internal/sign"
	"github.com/slok/farmer/internal/storage/sqlite"
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	accountsFile   string
	accountIDs     []string
	signSecret     string
	baseURL        string
	concurrency    int
	lang           string
	stageRewards   bool
	metricsPushURL string
	format         string
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	defaultAccountsFile := conventions.AccountsFilePath(filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir))

	c.Cmd = app.Command("run", "Run the daily farm tasks of the accounts.")
	c.Cmd.Flag("accounts-file", "YAML file with the accounts.").Default(defaultAccountsFile).StringVar(&c.accountsFile)
	c.Cmd.Flag("account", "Only run this account ID (repeatable).").StringsVar(&c.accountIDs)
	c.Cmd.Flag("sign-secret", "Secret used to sign the farm requests.").Envar(conventions.SignSecretEnv).Required().StringVar(&c.signSecret)
	c.Cmd.Flag("base-url", "Farm endpoint URL.").StringVar(&c.baseURL)
	c.Cmd.Flag("concurrency", "Number of accounts run at the same time.").Default("1").IntVar(&c.concurrency)
	c.Cmd.Flag("lang", "Language of the outcome messages.").Default(i18n.LangEnglish).EnumVar(&c.lang, i18n.LangEnglish, i18n.LangChinese)
	c.Cmd.Flag("stage-rewards", "Claim the tree stage rewards.").BoolVar(&c.stageRewards)
	c.Cmd.Flag("metrics-push-url", "Prometheus Pushgateway URL the run metrics are pushed to.").StringVar(&c.metricsPushURL)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	accounts, err := loadAccounts(ctx, c.accountsFile, c.accountIDs)
	if err != nil {
		return err
	}

	signer, err := sign.NewHMAC(c.signSecret)
	if err != nil {
		return fmt.Errorf("could not create signer: %w", err)
	}

	var recorder metrics.Recorder = metrics.Noop
	registry := prometheus.NewRegistry()
	if c.metricsPushURL != "" {
		recorder, err = metricsprometheus.NewRecorder(metricsprometheus.RecorderConfig{Registerer: registry})
		if err != nil {
			return fmt.Errorf("could not create metrics recorder: %w", err)
		}
	}

	// Initialize storage (SQLite).
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	factory, err := farm.NewFactory(farm.FactoryConfig{
		Signer:            signer,
		BaseURL:           c.baseURL,
		Lang:              c.lang,
		ClaimStageRewards: c.stageRewards,
		MetricsRecorder:   recorder,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("could not create farm factory: %w", err)
	}

	svc, err := apprun.NewService(apprun.ServiceConfig{
		NewRunner: func(acc model.Account) (apprun.Runner, error) {
			farmSvc, err := factory.NewService(acc)
			if err != nil {
				return nil, err
			}
			return farmSvc, nil
		},
		Repository:  repo,
		Concurrency: c.concurrency,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	// Reports that could not be saved are still printed.
	reports, runErr := svc.Run(ctx, apprun.Request{Accounts: accounts})
	if runErr != nil && reports == nil {
		return fmt.Errorf("could not run accounts: %w", runErr)
	}

	if c.metricsPushURL != "" {
		c.pushMetrics(registry)
	}

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintRunReports(reports); err != nil {
		return fmt.Errorf("could not print reports: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("could not run accounts: %w", runErr)
	}

	return nil
}

// pushMetrics pushes the run metrics, a failure doesn't fail the run.
func (c RunCommand) pushMetrics(registry *prometheus.Registry) {
	pusher := push.New(c.metricsPushURL, "farmer").
		Gatherer(registry).
		Grouping("instance", "cli")

	start := time.Now()
	if err := pusher.Push(); err != nil {
		c.rootCmd.Logger.Warningf("could not push metrics: %s", err)
		return
	}
	c.rootCmd.Logger.Debugf("metrics pushed in %s", time.Since(start))
}
