// Package racing implements the game rules: which race is current,
// which races are viewable, random pick assignment and result scoring.
// All functions take the database and, where the answer depends on the
// wall clock, an explicit "today" so callers and tests control time.
package racing

import "errors"

var (
	// ErrNotFound is returned when a referenced race, user or schedule
	// does not exist.
	ErrNotFound = errors.New("racing: not found")

	// ErrNoEligibleDriver is returned by AssignPick when no active
	// driver exists to choose from. Nothing is persisted.
	ErrNoEligibleDriver = errors.New("racing: no eligible driver")

	// ErrDuplicateResult is returned by RecordResult when a result
	// already exists for the same (race, driver) or (race, position).
	ErrDuplicateResult = errors.New("racing: duplicate result")

	// ErrYearMismatch is returned when a race's date falls outside its
	// schedule's year.
	ErrYearMismatch = errors.New("racing: schedule year must equal race year")
)
