package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrRemoteRejected is returned when the farm service answered with a non success code.
	ErrRemoteRejected = errors.New("remote rejected")
	// ErrShape is returned when a response does not have the expected structure.
	ErrShape = errors.New("unexpected response shape")
)
