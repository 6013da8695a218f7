package lib

import (
	"errors"

	"github.com/slok/farmer/internal/model"
)

var (
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when the input is not valid.
	ErrNotValid = errors.New("not valid")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return &mappedError{original: err, sentinel: ErrNotFound}
	case errors.Is(err, model.ErrNotValid):
		return &mappedError{original: err, sentinel: ErrNotValid}
	default:
		return err
	}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string        { return e.original.Error() }
func (e *mappedError) Is(target error) bool { return target == e.sentinel }
func (e *mappedError) Unwrap() error        { return e.original }
