// Package service holds the raffle, ticket and draw operations. Services
// validate input, translate repository sentinels into the error taxonomy
// below and never talk HTTP.
package service

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ValidationError reports bad input shape or range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NotFoundError reports that a referenced raffle, ticket or ticket number
// does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ErrNoEligibleTickets is returned by Draw when no ticket qualifies.
var ErrNoEligibleTickets = errors.New("no eligible tickets for draw")

// invalid converts ozzo-validation output into a *ValidationError naming
// the first failing field.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if errs[k] != nil {
				return &ValidationError{Field: k, Message: errs[k].Error()}
			}
		}
		return nil
	}
	return &ValidationError{Message: err.Error()}
}
