package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"

	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/storage/io"
)

// LoadEnvFiles loads dotenv files into the process environment. Variables
// already set are not overridden and missing files are ignored.
func LoadEnvFiles(files []string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("could not load env file %q: %w", f, err)
		}
	}
	return nil
}

// loadAccounts reads the accounts file and keeps the ones selected by ID, all
// when no ID is selected.
func loadAccounts(ctx context.Context, accountsFile string, ids []string) ([]model.Account, error) {
	path, err := filepath.Abs(accountsFile)
	if err != nil {
		return nil, fmt.Errorf("could not resolve accounts file path: %w", err)
	}

	repo := io.NewAccountsYAMLRepository(os.DirFS("/"), os.LookupEnv)
	accounts, err := repo.ListAccounts(ctx, path[1:])
	if err != nil {
		return nil, fmt.Errorf("could not load accounts: %w", err)
	}

	return filterAccounts(accounts, ids)
}

func filterAccounts(accounts []model.Account, ids []string) ([]model.Account, error) {
	if len(ids) == 0 {
		return accounts, nil
	}

	selected := make([]model.Account, 0, len(ids))
	for _, id := range ids {
		i := slices.IndexFunc(accounts, func(a model.Account) bool { return a.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("account %q is not on the accounts file: %w", id, model.ErrNotFound)
		}
		if slices.ContainsFunc(selected, func(a model.Account) bool { return a.ID == id }) {
			continue
		}
		selected = append(selected, accounts[i])
	}

	return selected, nil
}
