package translate

import "errors"

var (
	// ErrEmptyQuery is returned when the input has no statement to run.
	ErrEmptyQuery = errors.New("empty query")

	// ErrMissingFrom is returned when the statement has no FROM clause.
	ErrMissingFrom = errors.New("no FROM clause found")

	// ErrNoCollection is returned when nothing follows the FROM keyword.
	ErrNoCollection = errors.New("no collection specified")
)
