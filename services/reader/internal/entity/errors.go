package entity

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// LimitReachedError is returned when a new chapter would exceed the daily quota.
type LimitReachedError struct {
	Guest   bool
	Allowed int
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("%s: %d chapters per day", e.Code(), e.Allowed)
}

// Code is the client-facing error identifier.
func (e *LimitReachedError) Code() string {
	if e.Guest {
		return "guest_limit_reached"
	}
	return "limit_reached"
}
