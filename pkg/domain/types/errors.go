package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNoTarget is returned when neither the mirror policy nor the
	// default target resolves a destination for a source repository.
	ErrNoTarget = goerr.New("no target repository resolved")

	// ErrInvalidRepo is returned for repository notations that are not
	// in "owner/name" form.
	ErrInvalidRepo = goerr.New("invalid repository notation")

	// ErrTagConflict is returned when a mirror tag cannot be allocated
	// even after serial suffixing.
	ErrTagConflict = goerr.New("mirror tag conflict not resolvable")
)
