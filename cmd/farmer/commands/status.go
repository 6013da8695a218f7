package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/farmer/internal/app/status"
	"github.com/slok/farmer/internal/conventions"
	"github.com/slok/farmer/internal/farm"
	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/printer"
	"github.com/slok/farmer/internal/sign"
)

type StatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	accountsFile string
	accountIDs   []string
	signSecret   string
	baseURL      string
	format       string
}

// NewStatusCommand returns the status command.
func NewStatusCommand(rootCmd *RootCommand, app *kingpin.Application) *StatusCommand {
	c := &StatusCommand{rootCmd: rootCmd}

	defaultAccountsFile := conventions.AccountsFilePath(filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir))

	c.Cmd = app.Command("status", "Show the farm state of the accounts without running any task.")
	c.Cmd.Flag("accounts-file", "YAML file with the accounts.").Default(defaultAccountsFile).StringVar(&c.accountsFile)
	c.Cmd.Flag("account", "Only show this account ID (repeatable).").StringsVar(&c.accountIDs)
	c.Cmd.Flag("sign-secret", "Secret used to sign the farm requests.").Envar(conventions.SignSecretEnv).Required().StringVar(&c.signSecret)
	c.Cmd.Flag("base-url", "Farm endpoint URL.").StringVar(&c.baseURL)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c StatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c StatusCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	accounts, err := loadAccounts(ctx, c.accountsFile, c.accountIDs)
	if err != nil {
		return err
	}

	signer, err := sign.NewHMAC(c.signSecret)
	if err != nil {
		return fmt.Errorf("could not create signer: %w", err)
	}

	factory, err := farm.NewFactory(farm.FactoryConfig{
		Signer:  signer,
		BaseURL: c.baseURL,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create farm factory: %w", err)
	}

	svc, err := status.NewService(status.ServiceConfig{
		NewReader: func(acc model.Account) (status.StateReader, error) {
			farmSvc, err := factory.NewService(acc)
			if err != nil {
				return nil, err
			}
			return farmSvc, nil
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	statuses, err := svc.Run(ctx, status.Request{Accounts: accounts})
	if err != nil {
		return fmt.Errorf("could not get status: %w", err)
	}

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintStatus(statuses); err != nil {
		return fmt.Errorf("could not print status: %w", err)
	}

	return nil
}
