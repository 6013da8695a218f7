package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var envKeyRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LookupFunc returns the value of an environment variable, os.LookupEnv signature.
type LookupFunc func(key string) (string, bool)

// IsValidKey returns true when k can be used as an environment variable name.
func IsValidKey(k string) bool {
	return envKeyRegexp.MatchString(k)
}

// Required returns the trimmed value of an environment variable, failing when
// it's unset or blank. os.LookupEnv is used when lookup is nil.
func Required(lookup LookupFunc, key string) (string, error) {
	if !IsValidKey(key) {
		return "", fmt.Errorf("invalid environment variable key %q", key)
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}

	value, ok := lookup(key)
	if !ok {
		return "", fmt.Errorf("environment variable %q is not set", key)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("environment variable %q is empty", key)
	}

	return value, nil
}
