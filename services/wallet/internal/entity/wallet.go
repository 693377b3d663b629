package entity

import "time"

type PaymentKind string

const (
	PaymentKindTopup             PaymentKind = "topup"
	PaymentKindAdminCredit       PaymentKind = "admin_credit"
	PaymentKindDonationSent      PaymentKind = "donation_sent"
	PaymentKindDonationReceived  PaymentKind = "donation_received"
	PaymentKindVIPPurchase       PaymentKind = "vip_purchase"
	PaymentKindAuthorPurchase    PaymentKind = "author_purchase"
	PaymentKindWithdrawalReserve PaymentKind = "withdrawal_reserve"
	PaymentKindWithdrawalRefund  PaymentKind = "withdrawal_refund"
	PaymentKindWithdrawalPayout  PaymentKind = "withdrawal_payout"
)

type Wallet struct {
	UserID    string    `json:"user_id"`
	Balance   int       `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payment is an audit row. Coins is the signed balance delta; payout rows
// carry the paid amount while the balance stays unchanged.
type Payment struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Kind          PaymentKind `json:"kind"`
	Coins         int         `json:"coins"`
	BalanceBefore int         `json:"balance_before"`
	BalanceAfter  int         `json:"balance_after"`
	ReferenceID   string      `json:"reference_id,omitempty"`
	StoryID       string      `json:"story_id,omitempty"`
	Note          string      `json:"note,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}
