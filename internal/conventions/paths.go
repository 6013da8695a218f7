package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default farmer data directory name (relative to home).
	DefaultDataDir = ".farmer"
	// DBFile is the run history database filename.
	DBFile = "farmer.db"
	// DefaultAccountsFile is the accounts file used when none is given.
	DefaultAccountsFile = "accounts.yaml"
	// DefaultEnvFile is the dotenv file loaded by default.
	DefaultEnvFile = ".env"

	// SignSecretEnv is the environment variable with the request signing secret.
	SignSecretEnv = "FARMER_SIGN_SECRET"
)

// AccountsFilePath returns the default accounts file inside a data directory.
func AccountsFilePath(dataDir string) string {
	return filepath.Join(dataDir, DefaultAccountsFile)
}
