package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/utils/env"
)

// AccountsYAMLRepository loads the farm accounts from YAML files.
type AccountsYAMLRepository struct {
	fs        fs.FS
	lookupEnv func(string) (string, bool)
	validate  *validator.Validate
}

// NewAccountsYAMLRepository creates a new YAML accounts repository. Cookies set
// with `cookie_env` are resolved with lookupEnv, os.LookupEnv when nil.
func NewAccountsYAMLRepository(filesystem fs.FS, lookupEnv func(string) (string, bool)) *AccountsYAMLRepository {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("envname", validateEnvName)

	return &AccountsYAMLRepository{
		fs:        filesystem,
		lookupEnv: lookupEnv,
		validate:  v,
	}
}

// ListAccounts loads the accounts of a YAML file with their cookies resolved.
func (r *AccountsYAMLRepository) ListAccounts(ctx context.Context, path string) ([]model.Account, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var file AccountsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := r.validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid accounts: %s: %w", formatValidationError(err), model.ErrNotValid)
	}

	accounts := make([]model.Account, 0, len(file.Accounts))
	for _, a := range file.Accounts {
		acc, err := a.toModel(r.lookupEnv)
		if err != nil {
			return nil, fmt.Errorf("invalid account %q: %w", a.ID, err)
		}
		accounts = append(accounts, acc)
	}

	return accounts, nil
}

// AccountsFile represents the YAML structure of the accounts file.
type AccountsFile struct {
	Accounts []AccountConfig `yaml:"accounts" validate:"required,min=1,unique=ID,dive"`
}

// AccountConfig represents the YAML structure of an account. The cookie is set
// inline or read from an environment variable, never both.
type AccountConfig struct {
	ID        string `yaml:"id" validate:"required"`
	Name      string `yaml:"name"`
	Cookie    string `yaml:"cookie" validate:"required_without=CookieEnv,excluded_with=CookieEnv"`
	CookieEnv string `yaml:"cookie_env" validate:"omitempty,envname"`
}

func (c AccountConfig) toModel(lookupEnv func(string) (string, bool)) (model.Account, error) {
	acc := model.Account{ID: c.ID, Name: c.Name, Cookie: c.Cookie}
	if acc.Name == "" {
		acc.Name = c.ID
	}

	if c.CookieEnv != "" {
		cookie, err := env.Required(lookupEnv, c.CookieEnv)
		if err != nil {
			return model.Account{}, fmt.Errorf("cookie: %w: %w", err, model.ErrNotValid)
		}
		acc.Cookie = cookie
	}

	return acc, nil
}

func validateEnvName(fl validator.FieldLevel) bool {
	return env.IsValidKey(fl.Field().String())
}

// formatValidationError returns the validation errors using the YAML field paths.
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		// Drop the root struct name.
		_, field, _ := strings.Cut(e.Namespace(), ".")

		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "required_without":
			msgs = append(msgs, fmt.Sprintf("%s is required when the other cookie source is missing", field))
		case "excluded_with":
			msgs = append(msgs, fmt.Sprintf("%s can't be set with the other cookie source", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least one entry", field))
		case "unique":
			msgs = append(msgs, fmt.Sprintf("%s ids must be unique", field))
		case "envname":
			msgs = append(msgs, fmt.Sprintf("%s is not a valid env var name", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is not valid (%s)", field, e.Tag()))
		}
	}

	return strings.Join(msgs, ", ")
}
