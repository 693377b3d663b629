package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrUpgradeFailed    = errors.New("upgrade_failed")
	ErrStoryHasNoAuthor = errors.New("story has no author")
	ErrInvalidAmount    = errors.New("coins must be greater than zero")
	ErrSelfDonation     = errors.New("cannot donate to your own story")
	ErrAlreadyEntitled  = errors.New("already entitled")
	ErrPriceMismatch    = errors.New("cost_coins does not match the current price")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidRole      = errors.New("invalid role")
)

type InsufficientFundsError struct {
	Balance int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d", e.Balance)
}

type AlreadyProcessedError struct {
	Status string
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("already processed: %s", e.Status)
}
