package entity

import "time"

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusDeclined  WithdrawalStatus = "declined"
	WithdrawalStatusProcessed WithdrawalStatus = "processed"
)

// CanMoveTo reports whether an admin may move a withdrawal from s to next.
// Approval finalizes the payout, so an approved withdrawal can only be
// processed. Declined and processed are terminal.
func (s WithdrawalStatus) CanMoveTo(next WithdrawalStatus) bool {
	switch s {
	case WithdrawalStatusPending:
		return next == WithdrawalStatusApproved || next == WithdrawalStatusDeclined || next == WithdrawalStatusProcessed
	case WithdrawalStatusApproved:
		return next == WithdrawalStatusProcessed
	}
	return false
}

type Withdrawal struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Coins       int              `json:"coins"`
	Method      string           `json:"method"`
	Details     string           `json:"details"`
	Status      WithdrawalStatus `json:"status"`
	AdminID     string           `json:"admin_id,omitempty"`
	AdminNote   string           `json:"admin_note,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	ProcessedAt *time.Time       `json:"processed_at,omitempty"`
}

type WithdrawalFilter struct {
	UserID string
	Status WithdrawalStatus
}

type WithdrawalResult struct {
	Withdrawal *Withdrawal `json:"withdrawal"`
	Wallet     *Wallet     `json:"wallet"`
}
