package project

import "errors"

// Domain errors for the project store.
var (
	// ErrValidation is returned for a malformed field value: empty port,
	// bad slave id or bad relay string.
	ErrValidation = errors.New("project: validation failed")

	// ErrPreset is returned for an invalid preset name, index or selection.
	ErrPreset = errors.New("project: invalid preset")

	// ErrPersistence is returned when a file cannot be read, written or decoded.
	ErrPersistence = errors.New("project: persistence failed")
)
